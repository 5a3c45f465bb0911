package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("shouting").GetLevel())

	_, ok := New("warn").Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
