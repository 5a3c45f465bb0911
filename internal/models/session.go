package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCommitted SessionStatus = "committed"
)

// EditorSession is the persisted form of one media editing session. Media
// holds the canonical record; the working copy only lives in memory.
type EditorSession struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	ContentID uuid.UUID `json:"content_id"`

	Media *Media `json:"media"`

	Version int           `json:"version"`
	Status  SessionStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
