package editor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

type PlaybackView struct {
	AutoPlay          bool   `json:"auto_play"`
	FullScreen        bool   `json:"full_screen"`
	SizeEnabled       bool   `json:"size_enabled"`
	Width             string `json:"width,omitempty"`
	Height            string `json:"height,omitempty"`
	WidthUnits        string `json:"width_units,omitempty"`
	HeightUnits       string `json:"height_units,omitempty"`
	ConstrainToScreen bool   `json:"constrain_to_screen"`
}

// playback points at the fields video and YouTube variants have in common.
type playback struct {
	autoPlay   *bool
	fullScreen *bool
	size       **models.Size
}

func playbackOf(record *models.Media) *playback {
	if record == nil {
		return nil
	}
	switch record.Properties.Kind {
	case models.KindVideo:
		if v := record.Properties.Video; v != nil {
			return &playback{&v.AllowAutoPlay, &v.AllowFullScreen, &v.Size}
		}
	case models.KindYoutubeVideo:
		if y := record.Properties.Youtube; y != nil {
			return &playback{&y.AllowAutoPlay, &y.AllowFullScreen, &y.Size}
		}
	case models.KindImage, models.KindPDF, models.KindWebpage, models.KindSlideShow:
	}
	return nil
}

// playbackControls are the auto play, full screen and sizing inputs shared
// by the video and YouTube editors.
type playbackControls struct {
	p *panel

	widthText  string
	heightText string

	widthStatus  *validation.Status
	heightStatus *validation.Status
}

func newPlaybackControls(p *panel, what string) playbackControls {
	return playbackControls{
		p: p,
		widthStatus: validation.NewStatus("width",
			"The width of "+what+" must be greater than 0. Specify the width that this video should be presented with."),
		heightStatus: validation.NewStatus("height",
			"The height of "+what+" must be greater than 0. Specify the height that this video should be presented with."),
	}
}

func (c *playbackControls) current() (*playback, error) {
	pb := playbackOf(c.p.record)
	if pb == nil {
		return nil, ErrNotEditing
	}
	if c.p.readOnly {
		return nil, ErrReadOnly
	}
	return pb, nil
}

func (c *playbackControls) SetAutoPlay(on bool) error {
	pb, err := c.current()
	if err != nil {
		return err
	}
	*pb.autoPlay = on
	return nil
}

func (c *playbackControls) SetFullScreen(on bool) error {
	pb, err := c.current()
	if err != nil {
		return err
	}
	*pb.fullScreen = on
	return nil
}

// SetSizeEnabled switches explicit sizing on with pixel defaults, or drops
// the size altogether.
func (c *playbackControls) SetSizeEnabled(on bool) error {
	pb, err := c.current()
	if err != nil {
		return err
	}
	if on {
		*pb.size = models.DefaultSize()
	} else {
		*pb.size = nil
	}
	c.widthText, c.heightText = "", ""
	c.validateSize()
	return nil
}

func (c *playbackControls) SetWidth(text string) error {
	return c.setDimension(text, &c.widthText, func(s *models.Size, v *float64) { s.Width = v })
}

func (c *playbackControls) SetHeight(text string) error {
	return c.setDimension(text, &c.heightText, func(s *models.Size, v *float64) { s.Height = v })
}

func (c *playbackControls) setDimension(text string, box *string, set func(*models.Size, *float64)) error {
	pb, err := c.current()
	if err != nil {
		return err
	}
	if *pb.size == nil {
		*pb.size = models.DefaultSize()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		*box = ""
		set(*pb.size, nil)
		c.validateSize()
		return nil
	}

	v, perr := strconv.ParseFloat(text, 64)
	if perr != nil {
		*box = ""
		return errors.Wrapf(ErrNotNumeric, "'%s'", text)
	}
	*box = text
	set(*pb.size, &v)
	c.validateSize()
	return nil
}

func (c *playbackControls) SetWidthUnits(units string) error {
	return c.setUnits(units, func(s *models.Size) { s.WidthUnits = units })
}

func (c *playbackControls) SetHeightUnits(units string) error {
	return c.setUnits(units, func(s *models.Size) { s.HeightUnits = units })
}

func (c *playbackControls) setUnits(units string, set func(*models.Size)) error {
	if !knownUnits(units) {
		return errors.Wrapf(ErrUnknownUnits, "'%s'", units)
	}
	pb, err := c.current()
	if err != nil {
		return err
	}
	if *pb.size != nil {
		set(*pb.size)
		c.validateSize()
	}
	return nil
}

func (c *playbackControls) SetConstrainToScreen(on bool) error {
	pb, err := c.current()
	if err != nil {
		return err
	}
	if *pb.size != nil {
		(*pb.size).ConstrainToScreen = on
	}
	return nil
}

// loadPlayback fills the inputs from the bound record, defaulting missing
// units to pixels.
func (c *playbackControls) loadPlayback() {
	c.widthText, c.heightText = "", ""
	pb := playbackOf(c.p.record)
	if pb == nil || *pb.size == nil {
		return
	}
	size := *pb.size
	if size.Width != nil {
		c.widthText = formatDimension(*size.Width)
	}
	if size.Height != nil {
		c.heightText = formatDimension(*size.Height)
	}
	if size.WidthUnits == "" {
		size.WidthUnits = models.UnitsPixels
	}
	if size.HeightUnits == "" {
		size.HeightUnits = models.UnitsPixels
	}
}

func (c *playbackControls) resetPlayback() {
	c.widthText, c.heightText = "", ""
}

func (c *playbackControls) validateSize() {
	width, height := true, true
	if pb := playbackOf(c.p.record); pb != nil && *pb.size != nil {
		size := *pb.size
		width = size.Width != nil && *size.Width > 0
		height = size.Height != nil && *size.Height > 0
	}
	c.widthStatus.Set(width)
	c.heightStatus.Set(height)
}

func (c *playbackControls) playbackView() *PlaybackView {
	v := &PlaybackView{Width: c.widthText, Height: c.heightText}
	pb := playbackOf(c.p.record)
	if pb == nil {
		return v
	}
	v.AutoPlay = *pb.autoPlay
	v.FullScreen = *pb.fullScreen
	if size := *pb.size; size != nil {
		v.SizeEnabled = true
		v.WidthUnits = size.WidthUnits
		v.HeightUnits = size.HeightUnits
		v.ConstrainToScreen = size.ConstrainToScreen
	}
	return v
}

func knownUnits(units string) bool {
	for _, u := range models.VideoUnits {
		if u == units {
			return true
		}
	}
	return false
}

func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
