package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/rpc"
	"media-editor/internal/service"
	"media-editor/internal/storage"
)

type testServer struct {
	router   *mux.Router
	registry *Registry
	dir      string
	user     uuid.UUID
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerIdle(t, time.Hour)
}

func newTestServerIdle(t *testing.T, idle time.Duration) *testServer {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://files.test")
	require.NoError(t, err)

	log := quietLog()
	workspace := service.NewWorkspaceService(store,
		service.StaticHandlers{"gift.Handler", "gift.DefaultHandler"},
		map[string]string{models.PropertyExternalStrategyProviderURL: ""}, log)

	registry := NewRegistry(func(_ uuid.UUID, username string, entry *logrus.Entry) editor.Env {
		return editor.Env{
			Workspace:    workspace,
			Properties:   workspace,
			Log:          entry,
			Username:     username,
			CourseFolder: "course",
		}
	}, idle, log)
	t.Cleanup(registry.CloseAll)

	r := NewRouter(
		&EditorHandler{Service: service.NewSessionService(service.NewMemoryStore(), log), Registry: registry},
		&WorkspaceHandler{Service: workspace, Storage: store, CourseFolder: "course"},
		log,
	)
	return &testServer{router: r, registry: registry, dir: dir, user: uuid.New()}
}

func (s *testServer) call(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", s.user.String())
	req.Header.Set("X-Username", "author")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func (s *testServer) createSession(t *testing.T, media *models.Media) sessionResponse {
	t.Helper()
	rec := s.call(t, http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"content_id": uuid.NewString(),
		"media":      media,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeSession(t, rec)
}

func TestCreateSessionOpensEditor(t *testing.T) {
	s := newTestServer(t)

	resp := s.createSession(t, &models.Media{Name: "Manual", URI: "manual.pdf", Properties: models.NewProperties(models.KindPDF)})

	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, models.StatusActive, resp.Status)
	assert.True(t, resp.View.Editing)
	require.NotNil(t, resp.View.Editor)
	assert.Equal(t, models.KindPDF, resp.View.Media.Properties.Kind)
	assert.True(t, resp.View.Valid)
	assert.Len(t, resp.View.Choices, len(editor.Choices()))
	assert.Equal(t, 1, s.registry.Len())
}

func TestEditAndCommit(t *testing.T) {
	s := newTestServer(t)
	created := s.createSession(t, nil)
	base := "/api/v1/sessions/" + created.SessionID.String()

	rec := s.call(t, http.MethodPost, base+"/type", map[string]interface{}{"kind": "image"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeSession(t, rec)
	assert.Equal(t, models.KindImage, resp.View.Media.Properties.Kind)
	assert.False(t, resp.View.Valid)

	rec = s.call(t, http.MethodPut, base, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, decodeSession(t, rec).View.Statuses)

	rec = s.call(t, http.MethodPost, base+"/fields", map[string]string{"field": "title", "value": "Logo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.call(t, http.MethodPost, base+"/file", map[string]string{"path": "images/logo.png"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.call(t, http.MethodPut, base, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeSession(t, rec)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, models.StatusCommitted, resp.Status)

	// A fresh registry reloads the committed media from the store.
	s.registry.Close(created.SessionID)
	rec = s.call(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Equal(t, "Logo", resp.View.Media.Name)
	assert.Equal(t, "images/logo.png", resp.View.Media.URI)
}

func TestFieldErrors(t *testing.T) {
	s := newTestServer(t)
	created := s.createSession(t, &models.Media{Name: "Clip", URI: "clip.mp4", Properties: models.NewProperties(models.KindVideo)})
	base := "/api/v1/sessions/" + created.SessionID.String()

	rec := s.call(t, http.MethodPost, base+"/fields", map[string]string{"field": "size", "value": "true"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.call(t, http.MethodPost, base+"/fields", map[string]string{"field": "width", "value": "wide"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.call(t, http.MethodPost, base+"/fields", map[string]string{"field": "colour", "value": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.call(t, http.MethodPost, base+"/file", map[string]string{"path": "clip.png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelEdit(t *testing.T) {
	s := newTestServer(t)
	created := s.createSession(t, &models.Media{Name: "Manual", URI: "manual.pdf", Properties: models.NewProperties(models.KindPDF)})
	base := "/api/v1/sessions/" + created.SessionID.String()

	rec := s.call(t, http.MethodDelete, base+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.False(t, resp.View.Editing)
	assert.Nil(t, resp.View.Editor)

	rec = s.call(t, http.MethodPost, base+"/fields", map[string]string{"field": "title", "value": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Creating the session again reopens the saved media.
	rec = s.call(t, http.MethodPost, "/api/v1/sessions", map[string]interface{}{"content_id": created.ContentID.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Equal(t, created.SessionID, resp.SessionID)
	assert.True(t, resp.View.Editing)
	assert.Equal(t, "Manual", resp.View.Media.Name)
}

func TestDeleteFileCompletesInBackground(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "course"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "course", "logo.png"), []byte("png"), 0644))

	created := s.createSession(t, &models.Media{Name: "Logo", URI: "logo.png", Properties: models.NewProperties(models.KindImage)})
	base := "/api/v1/sessions/" + created.SessionID.String()

	rec := s.call(t, http.MethodPost, base+"/file/remove", map[string]string{"choice": "delete"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		rec := s.call(t, http.MethodGet, base, nil)
		var resp sessionResponse
		if json.NewDecoder(rec.Body).Decode(&resp) != nil || resp.View.Media == nil {
			return false
		}
		return resp.View.Media.URI == ""
	}, 2*time.Second, 10*time.Millisecond)

	_, err := os.Stat(filepath.Join(s.dir, "course", "logo.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSessionAccess(t *testing.T) {
	s := newTestServer(t)
	created := s.createSession(t, nil)
	base := "/api/v1/sessions/" + created.SessionID.String()

	req := httptest.NewRequest(http.MethodGet, base, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.call(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.call(t, http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.call(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.registry.Len())
	rec = s.call(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("{"))
	req.Header.Set("X-User-ID", s.user.String())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.call(t, http.MethodPost, "/api/v1/sessions", map[string]string{"content_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	created := s.createSession(t, nil)
	rec = s.call(t, http.MethodPost, "/api/v1/sessions/"+created.SessionID.String()+"/type", map[string]string{"kind": "hologram"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	created := s.createSession(t, &models.Media{Name: "Site", URI: "http://example.com", Properties: models.NewProperties(models.KindWebpage)})
	base := "/api/v1/sessions/" + created.SessionID.String()

	rec := s.call(t, http.MethodGet, base+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "http://example.com", body["url"])

	rec = s.call(t, http.MethodPost, base+"/type", map[string]interface{}{"kind": "pdf"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.call(t, http.MethodGet, base+"/preview", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkspaceClientRoundTrip(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "course"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "course", "a.png"), []byte("x"), 0644))

	client := rpc.NewClient(srv.URL, s.user)
	ctx := context.Background()

	res, err := client.DeleteWorkspaceFiles(ctx, "author", []string{"course/a.png"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = client.DeleteWorkspaceFiles(ctx, "author", []string{"../escape.png"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMsg)

	handlers, err := client.StrategyHandlerClassNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gift.DefaultHandler", "gift.Handler"}, handlers)

	v, err := client.ServerProperty(ctx, models.PropertyExternalStrategyProviderURL)
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = client.ServerProperty(ctx, "NOPE")
	assert.Error(t, err)

	exists, err := client.FilesExist(ctx, "author", []string{"course/a.png", "course/b.png"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"course/a.png": false, "course/b.png": false}, exists)

	// Without a user the workspace refuses to act.
	anonymous := rpc.NewClient(srv.URL, uuid.Nil)
	_, err = anonymous.DeleteWorkspaceFiles(ctx, "author", []string{"course/b.png"})
	assert.Error(t, err)
}

func TestWorkspaceDeleteRequiresUser(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "course"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "course", "a.png"), []byte("x"), 0644))

	for _, paths := range [][]string{{"course/a.png"}, {"."}, {"./"}, {"course/.."}} {
		body, err := json.Marshal(map[string]interface{}{"username": "author", "paths": paths})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/delete", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, paths)
	}

	_, err := os.Stat(filepath.Join(s.dir, "course", "a.png"))
	assert.NoError(t, err)
}

func TestWorkspaceDeleteNeverWipesRoot(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(s.dir, "course"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "course", "a.png"), []byte("x"), 0644))

	for _, p := range []string{".", "./", "course/..", "/"} {
		rec := s.call(t, http.MethodPost, "/api/v1/workspace/delete", map[string]interface{}{"paths": []string{p}})
		require.Equal(t, http.StatusOK, rec.Code, p)
		var res models.ServiceResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.False(t, res.Success, p)
	}

	_, err := os.Stat(filepath.Join(s.dir, "course", "a.png"))
	assert.NoError(t, err)
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	upload := func(kind, filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("kind", kind))
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("image", "logo.png", []byte("png bytes"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, strings.HasPrefix(body["path"], "logo-"), body["path"])
	assert.True(t, strings.HasSuffix(body["path"], ".png"))
	assert.Equal(t, "http://files.test/uploads/course/"+body["path"], body["file_url"])
	_, err := os.Stat(filepath.Join(s.dir, "course", body["path"]))
	assert.NoError(t, err)

	// The returned path is what a file selection takes.
	created := s.createSession(t, &models.Media{Name: "Logo", Properties: models.NewProperties(models.KindImage)})
	rec = s.call(t, http.MethodPost, "/api/v1/sessions/"+created.SessionID.String()+"/file", map[string]string{"path": body["path"]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, body["path"], decodeSession(t, rec).View.Media.URI)
	assert.True(t, decodeSession(t, s.call(t, http.MethodGet, "/api/v1/sessions/"+created.SessionID.String(), nil)).View.Valid)

	rec = upload("pdf", "logo.png", []byte("png bytes"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload("image", "empty.png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(editor.ErrInvalidMedia))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusNotFound, statusFor(storage.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
