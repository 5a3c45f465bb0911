package editor

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/metrics"
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// Router keeps at most one property editor visible and picks it from the
// record's variant.
type Router struct {
	Image        *ImageEditor
	PDF          *PDFEditor
	WebAddress   *WebAddressEditor
	LocalWebpage *LocalWebpageEditor
	Video        *VideoEditor
	Youtube      *YoutubeEditor
	SlideShow    *SlideShowEditor

	active   PropertyEditor
	readOnly bool
	log      *logrus.Entry
}

func NewRouter(env Env) *Router {
	return &Router{
		Image:        NewImageEditor(env),
		PDF:          NewPDFEditor(env),
		WebAddress:   NewWebAddressEditor(env),
		LocalWebpage: NewLocalWebpageEditor(env),
		Video:        NewVideoEditor(env),
		Youtube:      NewYoutubeEditor(env),
		SlideShow:    NewSlideShowEditor(env),
		log:          env.logger().WithField("component", "media_router"),
	}
}

// Editors returns every property editor.
func (r *Router) Editors() []PropertyEditor {
	return []PropertyEditor{r.Image, r.PDF, r.WebAddress, r.LocalWebpage, r.Video, r.Youtube, r.SlideShow}
}

// Editor returns the property editor with the given name.
func (r *Router) Editor(name string) (PropertyEditor, bool) {
	for _, e := range r.Editors() {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// Show activates the editor matching record's variant. Webpage records open
// the web address editor when their URI looks like a URL or the address is
// supplied by the strategy provider, and the local webpage editor otherwise.
// A variant with no editor leaves nothing visible.
func (r *Router) Show(record *models.Media) error {
	if record == nil {
		return errors.Wrap(ErrInvalidArgument, "the parameter 'media' cannot be null")
	}

	var next PropertyEditor
	switch record.Properties.Kind {
	case models.KindImage:
		next = r.Image
	case models.KindPDF:
		next = r.PDF
	case models.KindWebpage:
		if record.IsWebAddress() || record.RequestsSessionState() {
			next = r.WebAddress
		} else {
			next = r.LocalWebpage
		}
	case models.KindVideo:
		next = r.Video
	case models.KindYoutubeVideo:
		next = r.Youtube
	case models.KindSlideShow:
		next = r.SlideShow
	default:
		r.log.WithField("kind", record.Properties.Kind).Warn("No property editor for media kind, hiding all editors")
		r.Deactivate()
		return nil
	}
	return r.activate(next, record)
}

// ShowEditor activates the named editor for record.
func (r *Router) ShowEditor(name string, record *models.Media) error {
	next, ok := r.Editor(name)
	if !ok {
		r.log.WithField("editor", name).Warn("Unknown property editor, hiding all editors")
		r.Deactivate()
		return nil
	}
	return r.activate(next, record)
}

// activate deactivates the visible editor before binding the next one, so
// stale statuses never survive a switch. Edit runs a full validation pass.
func (r *Router) activate(next PropertyEditor, record *models.Media) error {
	r.Deactivate()
	if err := next.Edit(record); err != nil {
		next.Clear()
		return err
	}
	r.active = next
	metrics.EditorActivations.WithLabelValues(next.Name()).Inc()
	for _, s := range next.Statuses() {
		if s.IsInvalid() {
			metrics.ValidationFailures.WithLabelValues(next.Name(), s.Field).Inc()
		}
	}
	return nil
}

// Deactivate hides the visible editor, if any.
func (r *Router) Deactivate() {
	if r.active != nil {
		r.active.Clear()
		r.active = nil
	}
}

func (r *Router) Active() PropertyEditor { return r.active }

// Statuses returns the statuses of the visible editor.
func (r *Router) Statuses() []validation.Status {
	if r.active == nil {
		return nil
	}
	return validation.Snapshot(r.active.Statuses()...)
}

// Validate reruns every validation of the visible editor.
func (r *Router) Validate() {
	if r.active != nil {
		r.active.Validate()
	}
}

// Valid reports whether the visible editor has no invalid input. With no
// editor visible there is nothing to commit.
func (r *Router) Valid() bool {
	if r.active == nil {
		return false
	}
	return validation.AllValid(r.Statuses())
}

func (r *Router) SetReadOnly(readOnly bool) {
	r.readOnly = readOnly
	for _, e := range r.Editors() {
		e.SetReadOnly(readOnly)
	}
}

func (r *Router) ReadOnly() bool { return r.readOnly }
