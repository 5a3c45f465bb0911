package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/service"
)

type EditorHandler struct {
	Service  *service.SessionService
	Registry *Registry
}

type createSessionRequest struct {
	ContentID string        `json:"content_id" validate:"required,uuid"`
	Media     *models.Media `json:"media"`
}

type selectTypeRequest struct {
	Kind       models.Kind `json:"kind" validate:"required,oneof=image pdf webpage video youtube_video slide_show"`
	WebAddress bool        `json:"web_address"`
}

type fieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type fileRequest struct {
	Path string `json:"path" validate:"max=1024"`
}

type removeRequest struct {
	Choice string `json:"choice" validate:"required,oneof=delete remove cancel"`
}

type slidesRequest struct {
	Paths []string `json:"paths" validate:"required,min=1,dive,required"`
}

// sessionResponse is what every session endpoint answers with.
type sessionResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	ContentID uuid.UUID            `json:"content_id"`
	Version   int                  `json:"version"`
	Status    models.SessionStatus `json:"status"`
	View      editor.MediaView     `json:"view"`
	Dialogs   []editor.Dialog      `json:"dialogs,omitempty"`
}

// snapshot copies the session state for the response. Call it on the
// session loop.
func snapshot(sess *models.EditorSession, live *liveSession) sessionResponse {
	view := live.editor.View()
	view.Media = view.Media.Clone()
	return sessionResponse{
		SessionID: sess.SessionID,
		ContentID: sess.ContentID,
		Version:   sess.Version,
		Status:    sess.Status,
		View:      view,
		Dialogs:   live.dialogs.Take(),
	}
}

// CreateSession resumes the caller's session on the content, or starts one
// seeded with the given media.
func (h *EditorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.Service.FindOrCreateSession(r.Context(), user, uuid.MustParse(req.ContentID), req.Media)
	if err != nil {
		writeError(w, r, err)
		return
	}
	live, err := h.Registry.Ensure(sess, username(r, user))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp sessionResponse
	err = live.do(r.Context(), func() error {
		if !live.editor.Store.Editing() {
			if err := live.editor.Open(live.canonical); err != nil {
				return err
			}
		}
		resp = snapshot(sess, live)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(*editor.MediaEditor) error { return nil })
}

func (h *EditorHandler) SelectType(w http.ResponseWriter, r *http.Request) {
	var req selectTypeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		return ed.SelectType(req.Kind, req.WebAddress)
	})
}

func (h *EditorHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		return ed.SetField(req.Field, req.Value)
	})
}

func (h *EditorHandler) SelectFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		return ed.SelectFile(req.Path)
	})
}

// RemoveFile answers the remove dialog. A delete completes in the
// background; its outcome shows up in a later response.
func (h *EditorHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	choice, err := editor.ParseRemoveChoice(req.Choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		return ed.RemoveFile(choice)
	})
}

func (h *EditorHandler) SetSlides(w http.ResponseWriter, r *http.Request) {
	var req slidesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		return ed.SetSlides(req.Paths)
	})
}

// Preview returns the address to open when previewing a web address.
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	_, live, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var previewURL string
	err = live.do(r.Context(), func() error {
		if live.editor.Router.Active() != editor.PropertyEditor(live.editor.Router.WebAddress) {
			return editor.ErrNoEditor
		}
		var err error
		previewURL, err = live.editor.Router.WebAddress.PreviewURL()
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": previewURL})
}

// CommitSession writes the working media back and saves it. Invalid media
// is refused with 422 and the current statuses.
func (h *EditorHandler) CommitSession(w http.ResponseWriter, r *http.Request) {
	sess, live, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var (
		committed *models.Media
		resp      sessionResponse
	)
	err = live.do(r.Context(), func() error {
		media, err := live.editor.Commit()
		resp = snapshot(sess, live)
		if err != nil {
			return err
		}
		committed = media.Clone()
		return nil
	})
	if errors.Is(err, editor.ErrInvalidMedia) {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, _ := userID(r)
	version, err := h.Service.SaveSession(r.Context(), sess.SessionID, user, committed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.Version = version
	resp.Status = models.StatusCommitted
	writeJSON(w, http.StatusOK, resp)
}

// CancelEdit drops the working media. The saved media is untouched.
func (h *EditorHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ed *editor.MediaEditor) error {
		ed.Cancel()
		return nil
	})
}

func (h *EditorHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.DeleteSession(r.Context(), id, user); err != nil {
		writeError(w, r, err)
		return
	}
	h.Registry.Close(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// session loads the caller's session and its live editor.
func (h *EditorHandler) session(r *http.Request) (*models.EditorSession, *liveSession, error) {
	user, err := userID(r)
	if err != nil {
		return nil, nil, err
	}
	id, err := sessionID(r)
	if err != nil {
		return nil, nil, err
	}
	sess, err := h.Service.GetSession(r.Context(), id, user)
	if err != nil {
		return nil, nil, err
	}
	live, err := h.Registry.Ensure(sess, username(r, user))
	if err != nil {
		return nil, nil, err
	}
	return sess, live, nil
}

// mutate runs fn on the session loop and answers with the resulting state.
func (h *EditorHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(*editor.MediaEditor) error) {
	sess, live, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp sessionResponse
	err = live.do(r.Context(), func() error {
		if err := fn(live.editor); err != nil {
			return err
		}
		resp = snapshot(sess, live)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}
