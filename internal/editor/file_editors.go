package editor

import (
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

type ImageEditor struct {
	fileEditor
}

func NewImageEditor(env Env) *ImageEditor {
	return &ImageEditor{newFileEditor(env, EditorImage, models.KindImage,
		"No image file has been selected. Select the image file that should be presented to the learner.")}
}

type PDFEditor struct {
	fileEditor
}

func NewPDFEditor(env Env) *PDFEditor {
	return &PDFEditor{newFileEditor(env, EditorPDF, models.KindPDF,
		"No PDF file has been selected. Select the PDF file that should be presented to the learner.")}
}

// LocalWebpageEditor edits webpage media whose URI is a page inside the
// course folder.
type LocalWebpageEditor struct {
	fileEditor
}

func NewLocalWebpageEditor(env Env) *LocalWebpageEditor {
	return &LocalWebpageEditor{newFileEditor(env, EditorLocalWebpage, models.KindWebpage,
		"No local web page has been selected. Select the web page that should be presented to the learner.")}
}

// VideoEditor edits a video file from the course folder along with how it
// is played back.
type VideoEditor struct {
	fileEditor
	playbackControls
}

func NewVideoEditor(env Env) *VideoEditor {
	e := &VideoEditor{fileEditor: newFileEditor(env, EditorVideo, models.KindVideo,
		"No video file has been selected. Select the video file that should be presented to the learner.")}
	e.playbackControls = newPlaybackControls(&e.panel, "the video")
	return e
}

func (e *VideoEditor) Edit(record *models.Media) error {
	if err := e.bind(record); err != nil {
		return err
	}
	if err := e.ResetPanel(record.Properties); err != nil {
		return err
	}
	e.label = fileLabel(record.URI)
	e.loadPlayback()
	e.Validate()
	return nil
}

func (e *VideoEditor) ResetPanel(props models.MediaProperties) error {
	if err := e.fileEditor.ResetPanel(props); err != nil {
		return err
	}
	e.resetPlayback()
	return nil
}

func (e *VideoEditor) Validate() {
	e.fileEditor.Validate()
	e.validateSize()
}

func (e *VideoEditor) Statuses() []*validation.Status {
	return []*validation.Status{e.nameStatus, e.contentStatus, e.widthStatus, e.heightStatus}
}

func (e *VideoEditor) Clear() {
	e.clearStatuses(e.Statuses()...)
	e.release()
}

func (e *VideoEditor) View() View {
	v := e.baseView(e.Statuses())
	v.FileLabel = e.label
	v.Playback = e.playbackView()
	return v
}

var (
	_ FileEditor = (*ImageEditor)(nil)
	_ FileEditor = (*PDFEditor)(nil)
	_ FileEditor = (*LocalWebpageEditor)(nil)
	_ FileEditor = (*VideoEditor)(nil)
)
