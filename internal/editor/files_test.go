package editor_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/bus"
	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

func TestSelectFileFillsBlankTitle(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindImage, "", ""))
	require.NoError(t, err)

	require.NoError(t, m.SelectFile("images/foo.png"))

	assert.Equal(t, "foo.png", m.Working().Name)
	assert.Equal(t, "images/foo.png", m.Working().URI)
	assert.Equal(t, "images/foo.png", m.Router.Image.View().FileLabel)
	assert.True(t, m.Valid())
}

func TestSelectFileKeepsAuthorTitle(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindVideo, "My Video", ""))
	require.NoError(t, err)

	require.NoError(t, m.SelectFile("clips/intro.mp4"))

	assert.Equal(t, "My Video", m.Working().Name)
	assert.Equal(t, "clips/intro.mp4", m.Working().URI)
}

func TestSelectFileRejectsWrongExtension(t *testing.T) {
	m, _, err := openEditor(&fakeWorkspace{}, newMedia(models.KindImage, "Chart", "chart.png"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.SelectFile("manual.pdf"), editor.ErrUnsupportedFile)
	assert.Equal(t, "chart.png", m.Working().URI)
}

func TestRemoveFileWithoutDelete(t *testing.T) {
	ws := &fakeWorkspace{}
	m, _, err := openEditor(ws, newMedia(models.KindPDF, "Manual", "docs/manual.pdf"))
	require.NoError(t, err)

	require.NoError(t, m.RemoveFile(editor.ChoiceRemove))

	assert.Empty(t, m.Working().URI)
	assert.Empty(t, ws.deletes())
	assert.Equal(t, "No File Selected", m.Router.PDF.View().FileLabel)
	assert.False(t, m.Valid())
}

func TestRemoveFileCancel(t *testing.T) {
	ws := &fakeWorkspace{}
	m, _, err := openEditor(ws, newMedia(models.KindPDF, "Manual", "docs/manual.pdf"))
	require.NoError(t, err)

	require.NoError(t, m.RemoveFile(editor.ChoiceCancel))

	assert.Equal(t, "docs/manual.pdf", m.Working().URI)
	assert.Empty(t, ws.deletes())
}

func TestRemoveFileDeletes(t *testing.T) {
	ws := &fakeWorkspace{}
	m, dialogs, err := openEditor(ws, newMedia(models.KindImage, "Chart", "img/chart.png"))
	require.NoError(t, err)

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))

	assert.Equal(t, [][]string{{"course/img/chart.png"}}, ws.deletes())
	assert.Empty(t, m.Working().URI)
	assert.Empty(t, dialogs.Take())
}

func TestRemoveFileClearsReferenceWhenServerRefuses(t *testing.T) {
	ws := &fakeWorkspace{result: &models.ServiceResult{Success: false, ErrorMsg: "locked"}}
	m, dialogs, err := openEditor(ws, newMedia(models.KindImage, "Chart", "img/chart.png"))
	require.NoError(t, err)

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))

	assert.Empty(t, m.Working().URI)
	assert.Empty(t, dialogs.Take())
}

func TestRemoveFileTransportFailureKeepsReference(t *testing.T) {
	ws := &fakeWorkspace{err: errors.New("connection refused")}
	m, dialogs, err := openEditor(ws, newMedia(models.KindImage, "Chart", "img/chart.png"))
	require.NoError(t, err)

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))

	assert.Equal(t, "img/chart.png", m.Working().URI)
	got := dialogs.Take()
	require.Len(t, got, 1)
	assert.Equal(t, "Deletion Failed", got[0].Title)
	assert.Equal(t, "Failed to delete the file.", got[0].Reason)
	assert.Contains(t, got[0].Details, "connection refused")
}

func TestRemoveFileReadOnly(t *testing.T) {
	ws := &fakeWorkspace{}
	m, _, err := openEditor(ws, newMedia(models.KindImage, "Chart", "img/chart.png"))
	require.NoError(t, err)
	m.SetReadOnly(true)

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))
	require.NoError(t, m.RemoveFile(editor.ChoiceRemove))

	assert.Equal(t, "img/chart.png", m.Working().URI)
	assert.Empty(t, ws.deletes())
	assert.ErrorIs(t, m.SelectFile("other.png"), editor.ErrReadOnly)
}

func TestDeleteCompletesOnQueue(t *testing.T) {
	ws := &fakeWorkspace{}
	q := bus.NewQueue()
	env := newEnv(ws, &editor.DialogQueue{})
	env.Runner = q
	m := editor.NewMediaEditor(env)
	require.NoError(t, m.Open(newMedia(models.KindImage, "Chart", "img/chart.png")))

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "img/chart.png", m.Working().URI)

	q.Drain()
	assert.Empty(t, m.Working().URI)
	assert.Equal(t, validation.Invalid, m.Router.Image.Statuses()[1].State)
}

func TestStaleDeleteCompletionIsIgnored(t *testing.T) {
	ws := &fakeWorkspace{}
	q := bus.NewQueue()
	env := newEnv(ws, &editor.DialogQueue{})
	env.Runner = q
	m := editor.NewMediaEditor(env)
	first := newMedia(models.KindImage, "Chart", "img/chart.png")
	require.NoError(t, m.Open(first))
	working := m.Working()

	require.NoError(t, m.RemoveFile(editor.ChoiceDelete))
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, time.Millisecond)

	second := newMedia(models.KindImage, "Logo", "img/logo.png")
	require.NoError(t, m.Open(second))
	q.Drain()

	assert.Equal(t, "img/chart.png", working.URI)
	assert.Equal(t, "img/logo.png", m.Working().URI)
}

func TestRemoveFileWithNoFileSelected(t *testing.T) {
	for _, choice := range []editor.RemoveChoice{editor.ChoiceDelete, editor.ChoiceRemove} {
		t.Run(string(choice), func(t *testing.T) {
			ws := &fakeWorkspace{}
			m, dialogs, err := openEditor(ws, newMedia(models.KindImage, "Pic", "  "))
			require.NoError(t, err)

			require.NoError(t, m.RemoveFile(choice))

			assert.Empty(t, ws.deletes())
			assert.Empty(t, dialogs.Take())
			assert.Equal(t, "Pic", m.Working().Name)
		})
	}
}
