package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"media-editor/internal/editor"
	"media-editor/internal/scenario"
	"media-editor/internal/service"
	"media-editor/internal/storage"
	"media-editor/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError answers with {"message": ...}, the shape the workspace client
// expects.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		Log(r).WithError(err).Error("Request failed")
	} else {
		Log(r).WithError(err).Info("Request rejected")
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}

func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, errBadRequest),
		errors.Is(err, errInvalidID),
		errors.Is(err, errInvalidIndex),
		errors.Is(err, editor.ErrInvalidArgument),
		errors.Is(err, editor.ErrUnsupportedFile),
		errors.Is(err, editor.ErrNotNumeric),
		errors.Is(err, editor.ErrUnknownUnits),
		errors.Is(err, validation.ErrPathOutsideRoot),
		errors.Is(err, validation.ErrInvalidFileType),
		errors.Is(err, validation.ErrEmptyFile),
		errors.Is(err, validation.ErrFilenameTooLong):
		return http.StatusBadRequest
	case errors.Is(err, errMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownProperty),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNotEditing),
		errors.Is(err, errSessionClosed),
		errors.Is(err, editor.ErrNoEditor),
		errors.Is(err, editor.ErrReadOnly),
		errors.Is(err, editor.ErrPreviewDisabled):
		return http.StatusConflict
	case errors.Is(err, validation.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, editor.ErrInvalidMedia),
		errors.Is(err, scenario.ErrInvalidFeedback),
		errors.Is(err, scenario.ErrEmptyCollection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

var (
	errBadRequest  = errors.New("invalid JSON")
	errInvalidID   = errors.New("invalid session id")
	errMissingUser = errors.New("missing or invalid X-User-ID header")
)

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequest
	}
	return validation.Validator().Struct(dst)
}

// userID reads the caller injected by the API gateway.
func userID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		return uuid.Nil, errMissingUser
	}
	return id, nil
}

// username is the workspace user files are deleted as.
func username(r *http.Request, user uuid.UUID) string {
	if name := r.Header.Get("X-Username"); name != "" {
		return name
	}
	return user.String()
}
