package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"media-editor/internal/models"
	"media-editor/internal/service"
	"media-editor/internal/storage"
	"media-editor/internal/validation"
)

// maxUploadMemory is how much of a multipart upload is held in memory
// before spilling to disk.
const maxUploadMemory = 10 << 20

// WorkspaceHandler serves the workspace calls editors make remotely.
type WorkspaceHandler struct {
	Service *service.WorkspaceService
	Storage storage.Storage

	// CourseFolder receives uploads. Upload answers with paths relative to it.
	CourseFolder string
}

type deleteFilesRequest struct {
	Username string   `json:"username"`
	Paths    []string `json:"paths" validate:"required,min=1,dive,required"`
}

// DeleteFiles deletes workspace files for an identified user. A refusal is
// still a 200 whose result has success=false.
func (h *WorkspaceHandler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, errMissingUser)
		return
	}
	var req deleteFilesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Username == "" {
		req.Username = username(r, user)
	}

	result, err := h.Service.DeleteWorkspaceFiles(r.Context(), req.Username, req.Paths)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type filesExistRequest struct {
	Username string   `json:"username"`
	Paths    []string `json:"paths" validate:"required,min=1,dive,required"`
}

func (h *WorkspaceHandler) FilesExist(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, errMissingUser)
		return
	}
	var req filesExistRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Username == "" {
		req.Username = username(r, user)
	}

	exists, err := h.Service.FilesExist(r.Context(), req.Username, req.Paths)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]map[string]bool{"exists": exists})
}

func (h *WorkspaceHandler) StrategyHandlers(w http.ResponseWriter, r *http.Request) {
	handlers, err := h.Service.StrategyHandlerClassNames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"handlers": handlers})
}

func (h *WorkspaceHandler) Property(w http.ResponseWriter, r *http.Request) {
	value, err := h.Service.ServerProperty(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"value": value})
}

// Upload stores a media file in the course folder and answers with the
// path a file selection takes. The kind form field picks the accepted file
// types.
func (h *WorkspaceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxFileSize+maxUploadMemory)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, errBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, errBadRequest)
		return
	}
	defer file.Close()

	kind := models.Kind(r.FormValue("kind"))
	if err := validation.ValidateUpload(kind, header); err != nil {
		writeError(w, r, err)
		return
	}

	key, err := h.Storage.Upload(r.Context(), file, h.CourseFolder, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rel := strings.TrimPrefix(key, strings.TrimSuffix(h.CourseFolder, "/")+"/")
	Log(r).WithField("key", key).Info("Stored upload")
	writeJSON(w, http.StatusOK, map[string]string{
		"path":     rel,
		"file_url": h.Storage.URL(key),
	})
}
