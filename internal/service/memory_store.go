package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-editor/internal/models"
)

// MemoryStore keeps sessions in process. Used when DATABASE_URL is unset
// and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.EditorSession
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[uuid.UUID]*models.EditorSession{}, now: time.Now}
}

func (s *MemoryStore) FindLatest(_ context.Context, userID, contentID uuid.UUID) (*models.EditorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.EditorSession
	for _, sess := range s.sessions {
		if sess.UserID != userID || sess.ContentID != contentID {
			continue
		}
		if latest == nil || sess.CreatedAt.After(latest.CreatedAt) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, ErrSessionNotFound
	}
	return copySession(latest), nil
}

func (s *MemoryStore) Create(_ context.Context, userID, contentID uuid.UUID, media *models.Media) (*models.EditorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &models.EditorSession{
		SessionID: uuid.New(),
		UserID:    userID,
		ContentID: contentID,
		Media:     media.Clone(),
		Version:   1,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.SessionID] = sess
	return copySession(sess), nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.EditorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *MemoryStore) SaveMedia(_ context.Context, id uuid.UUID, media *models.Media, status models.SessionStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, ErrSessionNotFound
	}
	sess.Media = media.Clone()
	sess.Status = status
	sess.Version++
	sess.UpdatedAt = s.now()
	return sess.Version, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func copySession(sess *models.EditorSession) *models.EditorSession {
	c := *sess
	c.Media = sess.Media.Clone()
	return &c
}
