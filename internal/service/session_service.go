// internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"media-editor/internal/models"
)

// Sentinel errors: callers use errors.Is() instead of string matching
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthorized    = errors.New("unauthorized: session belongs to another user")
)

const queryTimeout = 5 * time.Second

// SessionStore persists editor sessions. PostgresStore and MemoryStore
// implement it.
type SessionStore interface {
	// FindLatest returns the newest session of userID on contentID, or
	// ErrSessionNotFound.
	FindLatest(ctx context.Context, userID, contentID uuid.UUID) (*models.EditorSession, error)
	Create(ctx context.Context, userID, contentID uuid.UUID, media *models.Media) (*models.EditorSession, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EditorSession, error)
	// SaveMedia stores media, bumps the version and returns the new version.
	SaveMedia(ctx context.Context, id uuid.UUID, media *models.Media, status models.SessionStatus) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionService struct {
	Store SessionStore
	Log   *logrus.Entry
}

func NewSessionService(store SessionStore, log *logrus.Entry) *SessionService {
	return &SessionService{Store: store, Log: log.WithField("component", "session_service")}
}

// FindOrCreateSession returns the user's existing session on the content,
// creating one only when there is none. Reloading the editor or opening it
// on another device resumes the same session instead of adding a row.
func (s *SessionService) FindOrCreateSession(ctx context.Context, userID, contentID uuid.UUID, initial *models.Media) (*models.EditorSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	existing, err := s.Store.FindLatest(ctx, userID, contentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	if initial == nil {
		initial = &models.Media{}
	}
	session, err := s.Store.Create(ctx, userID, contentID, initial)
	if err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{
		"session_id": session.SessionID,
		"content_id": contentID,
	}).Info("Created editor session")
	return session, nil
}

// GetSession fetches a session and verifies that userID owns it.
func (s *SessionService) GetSession(ctx context.Context, id, userID uuid.UUID) (*models.EditorSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	session, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrUnauthorized
	}
	return session, nil
}

// SaveSession persists the committed media and bumps the version counter.
func (s *SessionService) SaveSession(ctx context.Context, id, userID uuid.UUID, media *models.Media) (int, error) {
	if _, err := s.GetSession(ctx, id, userID); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.Store.SaveMedia(ctx, id, media, models.StatusCommitted)
}

// DeleteSession permanently removes a session.
func (s *SessionService) DeleteSession(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetSession(ctx, id, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.Store.Delete(ctx, id)
}
