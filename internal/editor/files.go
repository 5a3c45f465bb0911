package editor

import (
	"context"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/metrics"
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// RemoveChoice is the author's answer when asked what to do with a file
// that is being removed from a media record.
type RemoveChoice string

const (
	// ChoiceDelete permanently deletes the file from the workspace.
	ChoiceDelete RemoveChoice = "delete"
	// ChoiceRemove only drops the reference held by the record.
	ChoiceRemove RemoveChoice = "remove"
	ChoiceCancel RemoveChoice = "cancel"
)

func ParseRemoveChoice(s string) (RemoveChoice, error) {
	switch c := RemoveChoice(strings.ToLower(strings.TrimSpace(s))); c {
	case ChoiceDelete, ChoiceRemove, ChoiceCancel:
		return c, nil
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown remove choice %q", s)
}

// FileEditor is implemented by editors whose content is a file in the
// course folder.
type FileEditor interface {
	PropertyEditor
	SelectFile(name string) error
	RemoveFile(choice RemoveChoice) error
}

// fileEditor edits media whose content is a single workspace file.
type fileEditor struct {
	panel
	label string
}

func newFileEditor(env Env, name string, kind models.Kind, contentMessage string) fileEditor {
	return fileEditor{
		panel: newPanel(env, name, kind, contentMessage),
		label: noFileLabel,
	}
}

func (e *fileEditor) Edit(record *models.Media) error {
	if err := e.bind(record); err != nil {
		return err
	}
	if err := e.ResetPanel(record.Properties); err != nil {
		return err
	}
	e.label = fileLabel(record.URI)
	e.Validate()
	return nil
}

func (e *fileEditor) ResetPanel(props models.MediaProperties) error {
	if err := e.resetPanel(props); err != nil {
		return err
	}
	e.label = noFileLabel
	return nil
}

func (e *fileEditor) Validate() {
	e.validateName()
	e.validateURI()
}

func (e *fileEditor) Statuses() []*validation.Status {
	return []*validation.Status{e.nameStatus, e.contentStatus}
}

func (e *fileEditor) Clear() {
	e.clearStatuses(e.Statuses()...)
	e.release()
}

func (e *fileEditor) View() View {
	v := e.baseView(e.Statuses())
	v.FileLabel = e.label
	return v
}

// SelectFile points the record at a workspace file. A blank title is filled
// in from the file name.
func (e *fileEditor) SelectFile(name string) error {
	if e.record == nil {
		return ErrNotEditing
	}
	if e.readOnly {
		return ErrReadOnly
	}

	name = strings.TrimSpace(name)
	if name == "" {
		e.record.URI = ""
		e.label = noFileLabel
		e.validateURI()
		return nil
	}
	if !validation.AllowedFile(e.kind, name) {
		return errors.Wrapf(ErrUnsupportedFile, "'%s'", name)
	}

	e.record.URI = name
	e.label = name
	e.validateURI()
	e.autoTitle(path.Base(name))
	return nil
}

// RemoveFile removes the record's file according to choice. Nothing happens
// while the editor is read only or no file is selected.
func (e *fileEditor) RemoveFile(choice RemoveChoice) error {
	if e.readOnly {
		return nil
	}
	if e.record == nil {
		return ErrNotEditing
	}
	if strings.TrimSpace(e.record.URI) == "" {
		return nil
	}

	switch choice {
	case ChoiceCancel:
	case ChoiceRemove:
		e.clearFile(e.record)
	case ChoiceDelete:
		e.deleteFile()
	default:
		return errors.Wrapf(ErrInvalidArgument, "unknown remove choice %q", choice)
	}
	return nil
}

func (e *fileEditor) deleteFile() {
	record := e.record
	filePath := path.Join(e.env.CourseFolder, record.URI)
	log := e.env.logger().WithFields(logrus.Fields{"editor": e.name, "path": filePath})

	deleteFiles(e.env, e.name, []string{filePath}, func(result *models.ServiceResult) {
		if result.Success {
			log.Warn("Successfully deleted the file")
		} else {
			log.WithField("error", result.ErrorMsg).Warn("Was unable to delete the file")
		}
		e.clearFile(record)
	})
}

// clearFile drops the file reference, unless the editor has moved on to a
// different record since the removal started.
func (e *fileEditor) clearFile(record *models.Media) {
	if e.record == nil || e.record != record {
		return
	}
	record.URI = ""
	e.label = noFileLabel
	e.validateURI()
}

// deleteFiles fires the delete RPC off the editing loop. Transport failures
// are shown to the author and go no further; completed calls reach done on
// the loop whatever the server's verdict.
func deleteFiles(env Env, editor string, paths []string, done func(*models.ServiceResult)) {
	if env.Workspace == nil {
		env.notifier().Error("Deletion Failed", "Failed to delete the file.", "no workspace service is configured")
		return
	}

	var (
		result *models.ServiceResult
		err    error
	)
	env.runner().Go(func() {
		result, err = env.Workspace.DeleteWorkspaceFiles(context.Background(), env.Username, paths)
	}, func() {
		if err != nil {
			metrics.FileDeletes.WithLabelValues(editor, "error").Inc()
			env.notifier().Error("Deletion Failed", "Failed to delete the file.", err.Error())
			return
		}
		if result == nil {
			result = &models.ServiceResult{}
		}
		outcome := "deleted"
		if !result.Success {
			outcome = "refused"
		}
		metrics.FileDeletes.WithLabelValues(editor, outcome).Inc()
		done(result)
	})
}
