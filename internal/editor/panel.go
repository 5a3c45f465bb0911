package editor

import (
	"strings"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// Editor names. Two editors share the webpage kind.
const (
	EditorImage        = "image"
	EditorPDF          = "pdf"
	EditorWebAddress   = "web_address"
	EditorLocalWebpage = "local_webpage"
	EditorVideo        = "video"
	EditorYoutube      = "youtube_video"
	EditorSlideShow    = "slide_show"
)

const (
	msgNoTitle = "No title has been given to this media. Enter a title to be shown alongside this media."

	noFileLabel = "No File Selected"
)

// PropertyEditor edits the fields of one media kind on the working record.
type PropertyEditor interface {
	Name() string
	Kind() models.Kind

	// Edit binds record and loads it. record must be non-nil and carry the
	// editor's variant.
	Edit(record *models.Media) error
	// ResetPanel binds a freshly created variant to the bound record.
	ResetPanel(props models.MediaProperties) error

	SetTitle(title string)
	Validate()
	Statuses() []*validation.Status
	// Clear deactivates the editor: pending validation state is dropped
	// and the record is released.
	Clear()
	SetReadOnly(readOnly bool)
	View() View
}

// View is what the front end renders for the active editor.
type View struct {
	Editor   string              `json:"editor"`
	Title    string              `json:"title"`
	ReadOnly bool                `json:"read_only"`
	Statuses []validation.Status `json:"statuses"`

	FileLabel string `json:"file_label,omitempty"`

	Address         string `json:"address,omitempty"`
	AddressReadOnly bool   `json:"address_read_only,omitempty"`
	PreviewEnabled  bool   `json:"preview_enabled,omitempty"`

	Playback *PlaybackView `json:"playback,omitempty"`

	Slides          int  `json:"slides,omitempty"`
	DisplayPrevious bool `json:"display_previous,omitempty"`
	KeepContinue    bool `json:"keep_continue,omitempty"`
}

// panel is the part every property editor shares: the bound record, the
// title field and the two required-field statuses.
type panel struct {
	env      Env
	name     string
	kind     models.Kind
	record   *models.Media
	title    string
	readOnly bool

	nameStatus    *validation.Status
	contentStatus *validation.Status
}

func newPanel(env Env, name string, kind models.Kind, contentMessage string) panel {
	return panel{
		env:           env,
		name:          name,
		kind:          kind,
		nameStatus:    validation.NewStatus("title", msgNoTitle),
		contentStatus: validation.NewStatus("content", contentMessage),
	}
}

func (p *panel) Name() string      { return p.name }
func (p *panel) Kind() models.Kind { return p.kind }

func (p *panel) bind(record *models.Media) error {
	if err := checkRecord(p.kind, record); err != nil {
		return err
	}
	p.record = record
	return nil
}

// resetPanel rebinds props and seeds the title from the record name so a
// previous record's title never shows through.
func (p *panel) resetPanel(props models.MediaProperties) error {
	if props.Kind != p.kind || props.Validate() != nil {
		return &KindMismatchError{Expected: p.kind, Actual: props.Kind}
	}
	if p.record == nil {
		return ErrNotEditing
	}
	p.record.Properties = props
	if strings.TrimSpace(p.record.Name) != "" {
		p.title = p.record.Name
	} else {
		p.title = ""
	}
	return nil
}

func (p *panel) SetTitle(title string) {
	p.title = title
	if p.record != nil {
		p.record.Name = strings.TrimSpace(title)
	}
	p.validateName()
}

// autoTitle fills a blank title, never overriding one the author typed.
func (p *panel) autoTitle(name string) {
	if strings.TrimSpace(p.title) == "" {
		p.SetTitle(name)
	}
}

func (p *panel) validateName() {
	p.nameStatus.Set(strings.TrimSpace(p.title) != "")
}

func (p *panel) validateURI() {
	p.contentStatus.Set(p.record != nil && strings.TrimSpace(p.record.URI) != "")
}

func (p *panel) clearStatuses(statuses ...*validation.Status) {
	for _, s := range statuses {
		s.Clear()
	}
}

func (p *panel) release() {
	p.record = nil
}

func (p *panel) SetReadOnly(readOnly bool) { p.readOnly = readOnly }

func (p *panel) baseView(statuses []*validation.Status) View {
	return View{
		Editor:   p.name,
		Title:    p.title,
		ReadOnly: p.readOnly,
		Statuses: validation.Snapshot(statuses...),
	}
}

func fileLabel(uri string) string {
	if strings.TrimSpace(uri) == "" {
		return noFileLabel
	}
	return uri
}
