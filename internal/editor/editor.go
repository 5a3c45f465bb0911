package editor

import (
	"strconv"

	"github.com/pkg/errors"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// ErrInvalidMedia is returned by Commit while some input is invalid.
var ErrInvalidMedia = errors.New("the media has invalid fields")

// Editable fields accepted by SetField.
const (
	FieldTitle        = "title"
	FieldURI          = "uri"
	FieldAddress      = "address"
	FieldSessionState = "session_state"
	FieldAutoPlay     = "autoplay"
	FieldFullScreen   = "fullscreen"
	FieldSize         = "size"
	FieldWidth        = "width"
	FieldHeight       = "height"
	FieldWidthUnits   = "width_units"
	FieldHeightUnits  = "height_units"
	FieldConstrain    = "constrain"
	FieldPrevious     = "previous"
	FieldContinue     = "continue"
)

// PlaybackEditor is implemented by the video and YouTube editors.
type PlaybackEditor interface {
	PropertyEditor
	SetAutoPlay(on bool) error
	SetFullScreen(on bool) error
	SetSizeEnabled(on bool) error
	SetWidth(text string) error
	SetHeight(text string) error
	SetWidthUnits(units string) error
	SetHeightUnits(units string) error
	SetConstrainToScreen(on bool) error
}

var (
	_ PlaybackEditor = (*VideoEditor)(nil)
	_ PlaybackEditor = (*YoutubeEditor)(nil)
)

// MediaEditor edits one media record: the working-copy store, the type
// selector and the property editor router wired together.
type MediaEditor struct {
	Store    *Store
	Selector *Selector
	Router   *Router
}

func NewMediaEditor(env Env) *MediaEditor {
	store := &Store{}
	router := NewRouter(env)
	return &MediaEditor{
		Store:    store,
		Selector: NewSelector(store, router),
		Router:   router,
	}
}

// Open starts editing canonical and shows the editor for its type.
func (m *MediaEditor) Open(canonical *models.Media) error {
	if err := m.Store.Begin(canonical); err != nil {
		return err
	}
	return m.Router.Show(m.Store.Working())
}

func (m *MediaEditor) Working() *models.Media { return m.Store.Working() }

func (m *MediaEditor) SelectType(kind models.Kind, webAddress bool) error {
	return m.Selector.SelectType(kind, webAddress)
}

// Valid reports whether the working record may be committed.
func (m *MediaEditor) Valid() bool {
	return m.Store.Editing() && m.Router.Valid()
}

// Commit writes the working record back into the canonical one.
func (m *MediaEditor) Commit() (*models.Media, error) {
	if !m.Store.Editing() {
		return nil, ErrNotEditing
	}
	m.Router.Validate()
	if !m.Router.Valid() {
		return nil, ErrInvalidMedia
	}
	return m.Store.Commit()
}

// Cancel hides the editor and drops the working record.
func (m *MediaEditor) Cancel() {
	m.Router.Deactivate()
	m.Store.Cancel()
}

func (m *MediaEditor) SetReadOnly(readOnly bool) { m.Router.SetReadOnly(readOnly) }

func (m *MediaEditor) active() (PropertyEditor, error) {
	if !m.Store.Editing() {
		return nil, ErrNotEditing
	}
	e := m.Router.Active()
	if e == nil {
		return nil, ErrNoEditor
	}
	return e, nil
}

// SelectFile points a file-backed record at path.
func (m *MediaEditor) SelectFile(path string) error {
	e, err := m.active()
	if err != nil {
		return err
	}
	fe, ok := e.(FileEditor)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "the %s editor does not take files", e.Name())
	}
	return fe.SelectFile(path)
}

// RemoveFile removes the file of a file-backed record, or the slides of a
// slide show when choice is delete.
func (m *MediaEditor) RemoveFile(choice RemoveChoice) error {
	e, err := m.active()
	if err != nil {
		return err
	}
	switch ed := e.(type) {
	case FileEditor:
		return ed.RemoveFile(choice)
	case *SlideShowEditor:
		if choice == ChoiceDelete {
			return ed.DeleteSlides()
		}
		return nil
	}
	return errors.Wrapf(ErrInvalidArgument, "the %s editor does not take files", e.Name())
}

// SetSlides stores the slides of a converted slide show.
func (m *MediaEditor) SetSlides(paths []string) error {
	e, err := m.active()
	if err != nil {
		return err
	}
	ss, ok := e.(*SlideShowEditor)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "the %s editor does not take slides", e.Name())
	}
	return ss.SetSlides(paths)
}

// SetField applies a single text input to the active editor.
func (m *MediaEditor) SetField(field, value string) error {
	e, err := m.active()
	if err != nil {
		return err
	}

	switch field {
	case FieldTitle:
		if m.Router.ReadOnly() {
			return ErrReadOnly
		}
		e.SetTitle(value)
		return nil
	case FieldURI:
		switch ed := e.(type) {
		case FileEditor:
			return ed.SelectFile(value)
		case *YoutubeEditor:
			return ed.SetVideoURL(value)
		case *WebAddressEditor:
			return ed.SetAddress(value)
		}
	case FieldAddress:
		if wa, ok := e.(*WebAddressEditor); ok {
			return wa.SetAddress(value)
		}
	case FieldSessionState:
		if wa, ok := e.(*WebAddressEditor); ok {
			on, err := parseBool(value)
			if err != nil {
				return err
			}
			return wa.SetRequestUsingSessionState(on)
		}
	case FieldAutoPlay, FieldFullScreen, FieldSize, FieldConstrain:
		if pe, ok := e.(PlaybackEditor); ok {
			on, err := parseBool(value)
			if err != nil {
				return err
			}
			switch field {
			case FieldAutoPlay:
				return pe.SetAutoPlay(on)
			case FieldFullScreen:
				return pe.SetFullScreen(on)
			case FieldSize:
				return pe.SetSizeEnabled(on)
			default:
				return pe.SetConstrainToScreen(on)
			}
		}
	case FieldWidth, FieldHeight, FieldWidthUnits, FieldHeightUnits:
		if pe, ok := e.(PlaybackEditor); ok {
			switch field {
			case FieldWidth:
				return pe.SetWidth(value)
			case FieldHeight:
				return pe.SetHeight(value)
			case FieldWidthUnits:
				return pe.SetWidthUnits(value)
			default:
				return pe.SetHeightUnits(value)
			}
		}
	case FieldPrevious, FieldContinue:
		if ss, ok := e.(*SlideShowEditor); ok {
			on, err := parseBool(value)
			if err != nil {
				return err
			}
			if field == FieldPrevious {
				return ss.SetDisplayPrevious(on)
			}
			return ss.SetKeepContinue(on)
		}
	default:
		return errors.Wrapf(ErrInvalidArgument, "unknown field %q", field)
	}
	return errors.Wrapf(ErrInvalidArgument, "the %s editor has no %q field", e.Name(), field)
}

func parseBool(value string) (bool, error) {
	on, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidArgument, "%q is not a boolean", value)
	}
	return on, nil
}

// MediaView is the full state the front end renders.
type MediaView struct {
	Editing  bool                `json:"editing"`
	Media    *models.Media       `json:"media,omitempty"`
	Editor   *View               `json:"editor,omitempty"`
	Statuses []validation.Status `json:"statuses,omitempty"`
	Valid    bool                `json:"valid"`
	Choices  []Choice            `json:"choices"`
}

func (m *MediaEditor) View() MediaView {
	v := MediaView{
		Editing: m.Store.Editing(),
		Media:   m.Store.Working(),
		Valid:   m.Valid(),
		Choices: Choices(),
	}
	if e := m.Router.Active(); e != nil {
		ev := e.View()
		v.Editor = &ev
		v.Statuses = ev.Statuses
	}
	return v
}
