package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/editor"
	"media-editor/internal/models"
)

func TestChoicesMenu(t *testing.T) {
	labels := make([]string, 0, 7)
	for _, c := range editor.Choices() {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"Image", "PDF", "Web Address", "Local Webpage", "Video", "YouTube Video", "Slide Show"}, labels)
}

func TestSelectTypePreservesOnlyName(t *testing.T) {
	record := newMedia(models.KindImage, "Intro", "img/intro.png")
	record.Message = "<p>Look closely</p>"
	m, _, err := openEditor(&fakeWorkspace{}, record)
	require.NoError(t, err)

	require.NoError(t, m.SelectType(models.KindVideo, false))

	w := m.Working()
	assert.Equal(t, "Intro", w.Name)
	assert.Empty(t, w.URI)
	assert.Empty(t, w.Message)
	assert.Equal(t, models.KindVideo, w.Properties.Kind)
	require.NoError(t, w.Properties.Validate())
	assert.Equal(t, editor.EditorVideo, m.Router.Active().Name())
	assert.Equal(t, "Intro", m.Router.Active().View().Title)

	// The canonical record only changes on commit.
	assert.Equal(t, models.KindImage, record.Properties.Kind)
	assert.Equal(t, "img/intro.png", record.URI)
}

func TestSelectTypeWebpageFlavours(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindPDF, "Page", "a.pdf"))
	require.NoError(t, err)

	require.NoError(t, m.SelectType(models.KindWebpage, true))
	assert.Equal(t, editor.EditorWebAddress, m.Router.Active().Name())

	require.NoError(t, m.SelectType(models.KindWebpage, false))
	assert.Equal(t, editor.EditorLocalWebpage, m.Router.Active().Name())
	assert.Equal(t, "Page", m.Working().Name)
}

func TestSelectTypeValidatesFreshRecord(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindImage, "Intro", "intro.png"))
	require.NoError(t, err)
	require.True(t, m.Valid())

	require.NoError(t, m.SelectType(models.KindPDF, false))
	assert.False(t, m.Valid())
}

func TestSelectTypeStartsEditingWhenIdle(t *testing.T) {
	m := editor.NewMediaEditor(newEnv(&fakeWorkspace{}, &editor.DialogQueue{}))

	require.NoError(t, m.SelectType(models.KindSlideShow, false))
	require.NotNil(t, m.Working())
	assert.Equal(t, models.KindSlideShow, m.Working().Properties.Kind)
	assert.Equal(t, editor.EditorSlideShow, m.Router.Active().Name())
}

func TestSelectTypeUnknownKind(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindImage, "Intro", "intro.png"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.SelectType("audio", false), editor.ErrInvalidArgument)
	assert.Equal(t, models.KindImage, m.Working().Properties.Kind)
}
