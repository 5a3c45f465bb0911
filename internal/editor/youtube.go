package editor

import (
	"strings"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// YoutubeEditor edits a YouTube video referenced by its URL.
type YoutubeEditor struct {
	panel
	playbackControls

	videoURL string
}

func NewYoutubeEditor(env Env) *YoutubeEditor {
	e := &YoutubeEditor{panel: newPanel(env, EditorYoutube, models.KindYoutubeVideo,
		"No video URL has been entered. Enter the URL of the YouTube video that should be presented to the learner.")}
	e.playbackControls = newPlaybackControls(&e.panel, "a YouTube video")
	return e
}

func (e *YoutubeEditor) Edit(record *models.Media) error {
	if err := e.bind(record); err != nil {
		return err
	}
	if err := e.ResetPanel(record.Properties); err != nil {
		return err
	}
	e.videoURL = record.URI
	e.loadPlayback()
	e.Validate()
	return nil
}

func (e *YoutubeEditor) ResetPanel(props models.MediaProperties) error {
	if err := e.resetPanel(props); err != nil {
		return err
	}
	e.videoURL = ""
	e.resetPlayback()
	return nil
}

// SetVideoURL stores the trimmed URL on the record.
func (e *YoutubeEditor) SetVideoURL(text string) error {
	if e.record == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}
	e.videoURL = text
	e.record.URI = strings.TrimSpace(text)
	e.validateURI()
	return nil
}

func (e *YoutubeEditor) Validate() {
	e.validateName()
	e.validateURI()
	e.validateSize()
}

func (e *YoutubeEditor) Statuses() []*validation.Status {
	return []*validation.Status{e.nameStatus, e.contentStatus, e.widthStatus, e.heightStatus}
}

func (e *YoutubeEditor) Clear() {
	e.clearStatuses(e.Statuses()...)
	e.release()
}

func (e *YoutubeEditor) View() View {
	v := e.baseView(e.Statuses())
	v.Address = e.videoURL
	v.Playback = e.playbackView()
	return v
}
