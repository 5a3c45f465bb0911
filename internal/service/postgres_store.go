package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"media-editor/internal/models"
)

// Schema creates the sessions table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS media_editor_sessions (
	session_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    UUID NOT NULL,
	content_id UUID NOT NULL,
	media      JSONB NOT NULL DEFAULT '{}'::jsonb,
	version    INTEGER NOT NULL DEFAULT 1,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS media_editor_sessions_owner
	ON media_editor_sessions (user_id, content_id, created_at DESC);
`

type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres connects with the lib/pq driver and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, Schema)
	return err
}

const sessionColumns = `session_id, user_id, content_id, media, version, status, created_at, updated_at`

func (s *PostgresStore) FindLatest(ctx context.Context, userID, contentID uuid.UUID) (*models.EditorSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM media_editor_sessions
		WHERE user_id = $1 AND content_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSession(s.DB.QueryRowContext(ctx, query, userID, contentID))
}

func (s *PostgresStore) Create(ctx context.Context, userID, contentID uuid.UUID, media *models.Media) (*models.EditorSession, error) {
	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO media_editor_sessions (user_id, content_id, media)
		VALUES ($1, $2, $3)
		RETURNING ` + sessionColumns
	return scanSession(s.DB.QueryRowContext(ctx, query, userID, contentID, mediaJSON))
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.EditorSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM media_editor_sessions WHERE session_id = $1`
	return scanSession(s.DB.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) SaveMedia(ctx context.Context, id uuid.UUID, media *models.Media, status models.SessionStatus) (int, error) {
	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE media_editor_sessions
		SET media      = $1,
		    status     = $2,
		    version    = version + 1,
		    updated_at = NOW()
		WHERE session_id = $3
		RETURNING version
	`
	var version int
	err = s.DB.QueryRowContext(ctx, query, mediaJSON, status, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSessionNotFound
	}
	return version, err
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM media_editor_sessions WHERE session_id = $1`, id)
	return err
}

func scanSession(row *sql.Row) (*models.EditorSession, error) {
	session := &models.EditorSession{}
	var mediaJSON []byte

	err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.ContentID,
		&mediaJSON,
		&session.Version,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session.Media = &models.Media{}
	if len(mediaJSON) > 0 {
		if err := json.Unmarshal(mediaJSON, session.Media); err != nil {
			return nil, fmt.Errorf("corrupt media for session %s: %w", session.SessionID, err)
		}
	}
	return session, nil
}
