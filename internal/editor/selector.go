package editor

import (
	"github.com/pkg/errors"

	"media-editor/internal/metrics"
	"media-editor/internal/models"
)

// Choice is one entry of the media type menu.
type Choice struct {
	Label  string      `json:"label"`
	Kind   models.Kind `json:"kind"`
	Editor string      `json:"editor"`
}

var choices = []Choice{
	{Label: "Image", Kind: models.KindImage, Editor: EditorImage},
	{Label: "PDF", Kind: models.KindPDF, Editor: EditorPDF},
	{Label: "Web Address", Kind: models.KindWebpage, Editor: EditorWebAddress},
	{Label: "Local Webpage", Kind: models.KindWebpage, Editor: EditorLocalWebpage},
	{Label: "Video", Kind: models.KindVideo, Editor: EditorVideo},
	{Label: "YouTube Video", Kind: models.KindYoutubeVideo, Editor: EditorYoutube},
	{Label: "Slide Show", Kind: models.KindSlideShow, Editor: EditorSlideShow},
}

// Choices returns the media type menu in display order.
func Choices() []Choice {
	return append([]Choice(nil), choices...)
}

// ChoiceFor returns the menu entry for kind. Webpages pick between the two
// webpage editors with webAddress.
func ChoiceFor(kind models.Kind, webAddress bool) (Choice, bool) {
	for _, c := range choices {
		if c.Kind != kind {
			continue
		}
		if kind == models.KindWebpage && (c.Editor == EditorWebAddress) != webAddress {
			continue
		}
		return c, true
	}
	return Choice{}, false
}

// Selector switches the working record to a new media type.
type Selector struct {
	store  *Store
	router *Router
}

func NewSelector(store *Store, router *Router) *Selector {
	return &Selector{store: store, router: router}
}

// SelectType replaces the working record with a fresh record of kind. Only
// the name carries over; every other field starts empty.
func (s *Selector) SelectType(kind models.Kind, webAddress bool) error {
	c, ok := ChoiceFor(kind, webAddress)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "unknown media kind %q", kind)
	}
	return s.Select(c)
}

func (s *Selector) Select(c Choice) error {
	if !c.Kind.Valid() {
		return errors.Wrapf(ErrInvalidArgument, "unknown media kind %q", c.Kind)
	}

	var name string
	if prev := s.store.Working(); prev != nil {
		name = prev.Name
	}
	record := &models.Media{Name: name, Properties: models.NewProperties(c.Kind)}

	if !s.store.Editing() {
		if err := s.store.Begin(&models.Media{Properties: models.NewProperties(c.Kind)}); err != nil {
			return err
		}
	}
	if err := s.store.Replace(record); err != nil {
		return err
	}

	metrics.TypeSwitches.WithLabelValues(string(c.Kind)).Inc()
	return s.router.ShowEditor(c.Editor, record)
}
