package editor

import (
	"github.com/pkg/errors"

	"media-editor/internal/models"
)

// Store double-buffers the record being edited. Editors only ever touch the
// working copy; the canonical record changes on Commit alone.
type Store struct {
	canonical *models.Media
	working   *models.Media
}

// Begin starts editing canonical with a deep copy as the working record.
func (s *Store) Begin(canonical *models.Media) error {
	if canonical == nil {
		return errors.Wrap(ErrInvalidArgument, "the canonical media cannot be null")
	}
	s.canonical = canonical
	s.working = canonical.Clone()
	return nil
}

func (s *Store) Editing() bool { return s.working != nil }

func (s *Store) Working() *models.Media { return s.working }

func (s *Store) Canonical() *models.Media { return s.canonical }

// Replace swaps in a new working record, as when the media type changes.
func (s *Store) Replace(record *models.Media) error {
	if record == nil {
		return errors.Wrap(ErrInvalidArgument, "the working media cannot be null")
	}
	if !s.Editing() {
		return ErrNotEditing
	}
	s.working = record
	return nil
}

// Commit copies the working record into the canonical one and returns it.
// Editing continues on the same working copy.
func (s *Store) Commit() (*models.Media, error) {
	if !s.Editing() {
		return nil, ErrNotEditing
	}
	s.working.CopyInto(s.canonical)
	return s.canonical, nil
}

// Cancel drops the working copy. The canonical record is left untouched.
func (s *Store) Cancel() {
	s.working = nil
}
