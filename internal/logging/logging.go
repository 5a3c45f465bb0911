package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns the service logger: JSON to stdout at the given level.
// Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
