package editor_test

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"media-editor/internal/editor"
	"media-editor/internal/models"
)

const providerURL = "http://provider/x"

type fakeWorkspace struct {
	mu      sync.Mutex
	deleted [][]string
	result  *models.ServiceResult
	err     error
}

func (f *fakeWorkspace) DeleteWorkspaceFiles(_ context.Context, _ string, paths []string) (*models.ServiceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, paths)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.ServiceResult{Success: true}, nil
}

func (f *fakeWorkspace) StrategyHandlerClassNames(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeWorkspace) ServerProperty(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeWorkspace) FilesExist(_ context.Context, _ string, paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = true
	}
	return out, nil
}

func (f *fakeWorkspace) deletes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.deleted...)
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newEnv(ws *fakeWorkspace, dialogs *editor.DialogQueue) editor.Env {
	return editor.Env{
		Workspace:    ws,
		Notifier:     dialogs,
		Properties:   editor.StaticProperties{models.PropertyExternalStrategyProviderURL: providerURL},
		Log:          quietLog(),
		Username:     "author",
		CourseFolder: "course",
	}
}

func newMedia(kind models.Kind, name, uri string) *models.Media {
	return &models.Media{Name: name, URI: uri, Properties: models.NewProperties(kind)}
}

// openEditor opens record in a fresh MediaEditor backed by ws.
func openEditor(ws *fakeWorkspace, record *models.Media) (*editor.MediaEditor, *editor.DialogQueue, error) {
	dialogs := &editor.DialogQueue{}
	m := editor.NewMediaEditor(newEnv(ws, dialogs))
	return m, dialogs, m.Open(record)
}
