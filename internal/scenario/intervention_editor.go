package scenario

import (
	"strings"

	"github.com/pkg/errors"

	"media-editor/internal/editor"
	"media-editor/internal/models"
)

// ErrInvalidFeedback is returned by Apply while the feedback is incomplete.
var ErrInvalidFeedback = errors.New("the intervention feedback is incomplete")

// InterventionEditor edits an instructional intervention on a working copy.
// Media feedback is edited by an embedded MediaEditor.
type InterventionEditor struct {
	Media *editor.MediaEditor

	canonical *models.InstructionalIntervention
	working   *models.InstructionalIntervention
}

func NewInterventionEditor(env editor.Env) *InterventionEditor {
	return &InterventionEditor{Media: editor.NewMediaEditor(env)}
}

// EditObject starts editing a copy of iv.
func (e *InterventionEditor) EditObject(iv *models.InstructionalIntervention) error {
	if iv == nil {
		return errors.Wrap(editor.ErrInvalidArgument, "the parameter 'intervention' cannot be null")
	}
	e.Media.Cancel()
	e.canonical = iv
	e.working = iv.Clone()
	return e.openMedia()
}

func (e *InterventionEditor) openMedia() error {
	fb := &e.working.Feedback
	if fb.Kind != models.PresentationMedia {
		return nil
	}
	if fb.Media == nil {
		fb.Media = &models.Media{}
	}
	return e.Media.Open(fb.Media)
}

func (e *InterventionEditor) Working() *models.InstructionalIntervention { return e.working }

// SetPresentation switches how the feedback is presented. Switching away
// from media drops the media record.
func (e *InterventionEditor) SetPresentation(kind models.PresentationKind) error {
	if e.working == nil {
		return editor.ErrNotEditing
	}
	fb := &e.working.Feedback
	switch kind {
	case models.PresentationMessage, models.PresentationFile:
		e.Media.Cancel()
		fb.Media = nil
		fb.Kind = kind
		return nil
	case models.PresentationMedia:
		if fb.Kind == models.PresentationMedia {
			return nil
		}
		fb.Kind = kind
		return e.openMedia()
	}
	return errors.Wrapf(editor.ErrInvalidArgument, "unknown presentation %q", kind)
}

func (e *InterventionEditor) SetMessage(text string) error {
	if e.working == nil {
		return editor.ErrNotEditing
	}
	e.working.Feedback.Message = text
	return nil
}

func (e *InterventionEditor) SetFile(path string) error {
	if e.working == nil {
		return editor.ErrNotEditing
	}
	e.working.Feedback.File = strings.TrimSpace(path)
	return nil
}

func (e *InterventionEditor) SetStrategyHandler(name string) error {
	if e.working == nil {
		return editor.ErrNotEditing
	}
	e.working.StrategyHandler = name
	return nil
}

// Valid reports whether the feedback can be applied.
func (e *InterventionEditor) Valid() bool {
	if e.working == nil {
		return false
	}
	fb := e.working.Feedback
	switch fb.Kind {
	case models.PresentationMessage:
		return strings.TrimSpace(fb.Message) != ""
	case models.PresentationFile:
		return fb.File != ""
	case models.PresentationMedia:
		return e.Media.Valid()
	}
	return false
}

// Apply commits the media editor and then copies the working intervention
// into the canonical one.
func (e *InterventionEditor) Apply() (*models.InstructionalIntervention, error) {
	if e.working == nil {
		return nil, editor.ErrNotEditing
	}
	if e.working.Feedback.Kind == models.PresentationMedia {
		if _, err := e.Media.Commit(); err != nil {
			return nil, err
		}
	} else if !e.Valid() {
		return nil, ErrInvalidFeedback
	}
	*e.canonical = *e.working.Clone()
	return e.canonical, nil
}

// Cancel discards the working copy.
func (e *InterventionEditor) Cancel() {
	e.Media.Cancel()
	e.working = nil
}

type InterventionView struct {
	Editing      bool                              `json:"editing"`
	Intervention *models.InstructionalIntervention `json:"intervention,omitempty"`
	Media        *editor.MediaView                 `json:"media,omitempty"`
	Valid        bool                              `json:"valid"`
}

// View copies the editor state. Call it on the editing loop.
func (e *InterventionEditor) View() InterventionView {
	v := InterventionView{
		Editing:      e.working != nil,
		Intervention: e.working.Clone(),
		Valid:        e.Valid(),
	}
	if e.working != nil && e.working.Feedback.Kind == models.PresentationMedia {
		mv := e.Media.View()
		mv.Media = mv.Media.Clone()
		v.Media = &mv
	}
	return v
}
