package models

import (
	"fmt"
	"strings"
)

// Kind tags the active variant of MediaProperties.
type Kind string

const (
	KindImage        Kind = "image"
	KindPDF          Kind = "pdf"
	KindWebpage      Kind = "webpage"
	KindVideo        Kind = "video"
	KindYoutubeVideo Kind = "youtube_video"
	KindSlideShow    Kind = "slide_show"
)

// Kinds lists every media kind in menu order.
var Kinds = []Kind{KindImage, KindPDF, KindWebpage, KindVideo, KindYoutubeVideo, KindSlideShow}

func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindPDF, KindWebpage, KindVideo, KindYoutubeVideo, KindSlideShow:
		return true
	}
	return false
}

// CSS units a video may be sized with.
const (
	UnitsPixels         = "px"
	UnitsPercent        = "%"
	UnitsEm             = "em"
	UnitsRootEm         = "rem"
	UnitsViewportWidth  = "vw"
	UnitsViewportHeight = "vh"

	defaultUnits = UnitsPixels
)

// SlideShowFolderName is the course sub-folder converted slide shows are written to.
const SlideShowFolderName = "Slide Shows"

var VideoUnits = []string{UnitsPixels, UnitsPercent, UnitsEm, UnitsRootEm, UnitsViewportWidth, UnitsViewportHeight}

type Media struct {
	Name                     string                    `json:"name,omitempty"`
	Message                  string                    `json:"message,omitempty"`
	URI                      string                    `json:"uri,omitempty"`
	DisplaySessionProperties *DisplaySessionProperties `json:"display_session_properties,omitempty"`
	Properties               MediaProperties           `json:"properties"`
}

type DisplaySessionProperties struct {
	RequestUsingSessionState bool `json:"request_using_session_state"`
}

// MediaProperties is a tagged union. Only the pointer matching Kind is set.
type MediaProperties struct {
	Kind      Kind                    `json:"kind"`
	Image     *ImageProperties        `json:"image,omitempty"`
	PDF       *PDFProperties          `json:"pdf,omitempty"`
	Webpage   *WebpageProperties      `json:"webpage,omitempty"`
	Video     *VideoProperties        `json:"video,omitempty"`
	Youtube   *YoutubeVideoProperties `json:"youtube_video,omitempty"`
	SlideShow *SlideShowProperties    `json:"slide_show,omitempty"`
}

type ImageProperties struct{}

type PDFProperties struct{}

type WebpageProperties struct{}

type Size struct {
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	WidthUnits        string   `json:"width_units,omitempty"`
	HeightUnits       string   `json:"height_units,omitempty"`
	ConstrainToScreen bool     `json:"constrain_to_screen"`
}

// DefaultSize is the size a video gets when sizing is first switched on.
func DefaultSize() *Size {
	return &Size{WidthUnits: defaultUnits, HeightUnits: defaultUnits}
}

type VideoProperties struct {
	AllowAutoPlay   bool  `json:"allow_auto_play"`
	AllowFullScreen bool  `json:"allow_full_screen"`
	Size            *Size `json:"size,omitempty"`
}

type YoutubeVideoProperties struct {
	AllowAutoPlay   bool  `json:"allow_auto_play"`
	AllowFullScreen bool  `json:"allow_full_screen"`
	Size            *Size `json:"size,omitempty"`
}

type SlideShowProperties struct {
	SlideRelativePaths         []string `json:"slide_relative_paths"`
	DisplayPreviousSlideButton *bool    `json:"display_previous_slide_button,omitempty"`
	KeepContinueButton         *bool    `json:"keep_continue_button,omitempty"`
}

// NewProperties returns a fresh, empty variant of kind.
func NewProperties(kind Kind) MediaProperties {
	p := MediaProperties{Kind: kind}
	switch kind {
	case KindImage:
		p.Image = &ImageProperties{}
	case KindPDF:
		p.PDF = &PDFProperties{}
	case KindWebpage:
		p.Webpage = &WebpageProperties{}
	case KindVideo:
		p.Video = &VideoProperties{}
	case KindYoutubeVideo:
		p.Youtube = &YoutubeVideoProperties{}
	case KindSlideShow:
		p.SlideShow = &SlideShowProperties{SlideRelativePaths: []string{}}
	}
	return p
}

// Validate checks that exactly the pointer matching Kind is populated.
func (p MediaProperties) Validate() error {
	set := 0
	for _, ok := range []bool{p.Image != nil, p.PDF != nil, p.Webpage != nil, p.Video != nil, p.Youtube != nil, p.SlideShow != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("media properties must carry exactly one variant, found %d", set)
	}

	var matches bool
	switch p.Kind {
	case KindImage:
		matches = p.Image != nil
	case KindPDF:
		matches = p.PDF != nil
	case KindWebpage:
		matches = p.Webpage != nil
	case KindVideo:
		matches = p.Video != nil
	case KindYoutubeVideo:
		matches = p.Youtube != nil
	case KindSlideShow:
		matches = p.SlideShow != nil
	default:
		return fmt.Errorf("unknown media kind %q", p.Kind)
	}
	if !matches {
		return fmt.Errorf("media properties tagged %q carry a different variant", p.Kind)
	}
	return nil
}

func (p MediaProperties) Clone() MediaProperties {
	c := MediaProperties{Kind: p.Kind}
	if p.Image != nil {
		c.Image = &ImageProperties{}
	}
	if p.PDF != nil {
		c.PDF = &PDFProperties{}
	}
	if p.Webpage != nil {
		c.Webpage = &WebpageProperties{}
	}
	if p.Video != nil {
		v := *p.Video
		v.Size = p.Video.Size.Clone()
		c.Video = &v
	}
	if p.Youtube != nil {
		y := *p.Youtube
		y.Size = p.Youtube.Size.Clone()
		c.Youtube = &y
	}
	if p.SlideShow != nil {
		s := *p.SlideShow
		s.SlideRelativePaths = append([]string{}, p.SlideShow.SlideRelativePaths...)
		s.DisplayPreviousSlideButton = cloneBool(p.SlideShow.DisplayPreviousSlideButton)
		s.KeepContinueButton = cloneBool(p.SlideShow.KeepContinueButton)
		c.SlideShow = &s
	}
	return c
}

func (s *Size) Clone() *Size {
	if s == nil {
		return nil
	}
	c := *s
	c.Width = cloneFloat(s.Width)
	c.Height = cloneFloat(s.Height)
	return &c
}

// Clone returns a deep copy of the record.
func (m *Media) Clone() *Media {
	if m == nil {
		return nil
	}
	c := *m
	if m.DisplaySessionProperties != nil {
		d := *m.DisplaySessionProperties
		c.DisplaySessionProperties = &d
	}
	c.Properties = m.Properties.Clone()
	return &c
}

// CopyInto overwrites every field of dst with a deep copy of m.
func (m *Media) CopyInto(dst *Media) {
	*dst = *m.Clone()
}

// IsWebAddress reports whether the record's URI points at the web rather
// than at a file in the course folder.
func (m *Media) IsWebAddress() bool {
	return IsWebAddress(m.URI)
}

// RequestsSessionState reports whether the address comes from the external
// strategy provider rather than the record's URI.
func (m *Media) RequestsSessionState() bool {
	return m.DisplaySessionProperties != nil && m.DisplaySessionProperties.RequestUsingSessionState
}

func IsWebAddress(uri string) bool {
	return uri != "" && (strings.Contains(uri, "://") || strings.Contains(uri, "www."))
}

func Bool(b bool) *bool { return &b }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
