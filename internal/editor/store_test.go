package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/editor"
	"media-editor/internal/models"
)

func TestStoreBeginRejectsNil(t *testing.T) {
	var s editor.Store
	assert.ErrorIs(t, s.Begin(nil), editor.ErrInvalidArgument)
	assert.False(t, s.Editing())
}

func TestStoreWorkingCopyIsIndependent(t *testing.T) {
	canonical := newMedia(models.KindImage, "Diagram", "img/diagram.png")
	var s editor.Store
	require.NoError(t, s.Begin(canonical))

	s.Working().Name = "Changed"
	s.Working().URI = ""

	assert.Equal(t, "Diagram", canonical.Name)
	assert.Equal(t, "img/diagram.png", canonical.URI)
}

func TestStoreCommitCopiesIntoCanonical(t *testing.T) {
	canonical := newMedia(models.KindImage, "Diagram", "img/diagram.png")
	var s editor.Store
	require.NoError(t, s.Begin(canonical))

	replacement := newMedia(models.KindVideo, "Diagram", "clip.mp4")
	require.NoError(t, s.Replace(replacement))

	got, err := s.Commit()
	require.NoError(t, err)
	assert.Same(t, canonical, got)
	assert.Equal(t, models.KindVideo, canonical.Properties.Kind)
	assert.Equal(t, "clip.mp4", canonical.URI)
	assert.NotSame(t, replacement.Properties.Video, canonical.Properties.Video)
	assert.True(t, s.Editing())
}

func TestStoreCancelLeavesCanonical(t *testing.T) {
	canonical := newMedia(models.KindPDF, "Manual", "manual.pdf")
	var s editor.Store
	require.NoError(t, s.Begin(canonical))
	s.Working().Name = "Edited"

	s.Cancel()

	assert.False(t, s.Editing())
	assert.Nil(t, s.Working())
	assert.Equal(t, "Manual", canonical.Name)
}

func TestStoreRequiresEditing(t *testing.T) {
	var s editor.Store
	_, err := s.Commit()
	assert.ErrorIs(t, err, editor.ErrNotEditing)
	assert.ErrorIs(t, s.Replace(newMedia(models.KindPDF, "", "")), editor.ErrNotEditing)

	require.NoError(t, s.Begin(newMedia(models.KindPDF, "", "")))
	assert.ErrorIs(t, s.Replace(nil), editor.ErrInvalidArgument)
}
