package editor

import (
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// SlideShowEditor edits a slide show produced by converting a PowerPoint
// show into images under the course's slide show folder.
type SlideShowEditor struct {
	panel
}

func NewSlideShowEditor(env Env) *SlideShowEditor {
	return &SlideShowEditor{newPanel(env, EditorSlideShow, models.KindSlideShow,
		"No PowerPoint show has been selected. Select the PowerPoint show that should be presented to the learner as a slide show.")}
}

func (e *SlideShowEditor) Edit(record *models.Media) error {
	if err := e.bind(record); err != nil {
		return err
	}
	if err := e.ResetPanel(record.Properties); err != nil {
		return err
	}
	e.Validate()
	return nil
}

func (e *SlideShowEditor) ResetPanel(props models.MediaProperties) error {
	return e.resetPanel(props)
}

func (e *SlideShowEditor) props() *models.SlideShowProperties {
	if e.record == nil {
		return nil
	}
	return e.record.Properties.SlideShow
}

// SetSlides stores the slide images of a finished conversion. The first
// slide becomes the record's URI and the navigation buttons default to shown.
func (e *SlideShowEditor) SetSlides(paths []string) error {
	props := e.props()
	if props == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}
	if len(paths) == 0 {
		return errors.Wrap(ErrInvalidArgument, "a slide show needs at least one slide")
	}

	props.SlideRelativePaths = append(props.SlideRelativePaths[:0], paths...)
	if props.DisplayPreviousSlideButton == nil {
		props.DisplayPreviousSlideButton = models.Bool(true)
		props.KeepContinueButton = models.Bool(true)
	}
	e.record.URI = paths[0]
	e.autoTitle(slideShowName(paths[0]))
	e.validateContent()
	return nil
}

func (e *SlideShowEditor) SetDisplayPrevious(on bool) error {
	props := e.props()
	if props == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}
	props.DisplayPreviousSlideButton = models.Bool(on)
	return nil
}

func (e *SlideShowEditor) SetKeepContinue(on bool) error {
	props := e.props()
	if props == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}
	props.KeepContinueButton = models.Bool(on)
	return nil
}

// DeleteSlides permanently deletes the slide show's folder and resets the
// record to an empty slide show.
func (e *SlideShowEditor) DeleteSlides() error {
	props := e.props()
	if props == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return nil
	}
	if len(props.SlideRelativePaths) == 0 {
		return nil
	}

	first := props.SlideRelativePaths[0]
	folder := slideShowName(first)
	if folder == "" {
		e.env.notifier().Error("Deletion Failed", "Failed to delete slide show images.",
			"The first of the slide show images doesn't contain the slide show folder name '"+
				models.SlideShowFolderName+"', needed to find the folder to delete. First image = "+first)
		return nil
	}

	folderPath := path.Join(e.env.CourseFolder, models.SlideShowFolderName, folder)
	log := e.env.logger().WithFields(logrus.Fields{"editor": e.name, "path": folderPath})
	deleteFiles(e.env, e.name, []string{folderPath}, func(result *models.ServiceResult) {
		if !result.Success {
			e.env.notifier().Error("Deletion Failed", "Failed to delete the file: "+folderPath, result.ErrorMsg)
			return
		}
		log.Info("Deleted slide show folder")
	})

	e.record.URI = ""
	if err := e.ResetPanel(models.NewProperties(models.KindSlideShow)); err != nil {
		return err
	}
	e.validateContent()
	return nil
}

func (e *SlideShowEditor) validateContent() {
	props := e.props()
	e.contentStatus.Set(props != nil && len(props.SlideRelativePaths) > 0)
}

func (e *SlideShowEditor) Validate() {
	e.validateName()
	e.validateContent()
}

func (e *SlideShowEditor) Statuses() []*validation.Status {
	return []*validation.Status{e.nameStatus, e.contentStatus}
}

func (e *SlideShowEditor) Clear() {
	e.clearStatuses(e.Statuses()...)
	e.release()
}

func (e *SlideShowEditor) View() View {
	v := e.baseView(e.Statuses())
	if props := e.props(); props != nil {
		v.Slides = len(props.SlideRelativePaths)
		v.DisplayPrevious = props.DisplayPreviousSlideButton == nil || *props.DisplayPreviousSlideButton
		v.KeepContinue = props.KeepContinueButton == nil || *props.KeepContinueButton
	}
	return v
}

// slideShowName returns the folder a slide lives in under the slide show
// folder, e.g. "Intro" for "Slide Shows/Intro/Slide1.PNG".
func slideShowName(slidePath string) string {
	p := strings.ReplaceAll(slidePath, "\\", "/")
	key := models.SlideShowFolderName + "/"
	i := strings.Index(p, key)
	if i == -1 {
		return ""
	}
	rest := p[i+len(key):]
	end := strings.Index(rest, "/")
	if end <= 0 {
		return ""
	}
	if name := rest[:end]; name != "." && name != ".." {
		return name
	}
	return ""
}
