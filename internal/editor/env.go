// Package editor holds the media editing state machine: the working-copy
// store, the type selector, one property editor per media kind and the
// router that keeps exactly one of them active.
package editor

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/bus"
	"media-editor/internal/models"
	"media-editor/internal/rpc"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotEditing      = errors.New("no media is being edited")
	ErrUnsupportedFile = errors.New("file type is not supported for this media")
	ErrNotNumeric      = errors.New("please enter a numeric decimal or integer value")
	ErrUnknownUnits    = errors.New("unknown size units")
	ErrReadOnly        = errors.New("field is read only")
	ErrPreviewDisabled = errors.New("preview is disabled while the address is provided by an external strategy provider")
	ErrNoEditor        = errors.New("no property editor is active")
)

// Runner runs a blocking call away from the editing loop and hands the
// completion back to it. *bus.Queue and bus.Inline implement it.
type Runner interface {
	Go(call func(), done func())
}

// Notifier surfaces errors to the author without blocking editing.
type Notifier interface {
	Error(title, reason, details string)
}

// Properties reads server-side configuration values.
type Properties interface {
	Property(name string) string
}

// Env carries the collaborators shared by every editor of a session.
type Env struct {
	Workspace    rpc.Workspace
	Runner       Runner
	Notifier     Notifier
	Properties   Properties
	Log          *logrus.Entry
	Username     string
	CourseFolder string
}

func (e Env) logger() *logrus.Entry {
	if e.Log != nil {
		return e.Log
	}
	return logrus.WithField("component", "editor")
}

func (e Env) runner() Runner {
	if e.Runner != nil {
		return e.Runner
	}
	return bus.Inline{}
}

func (e Env) notifier() Notifier {
	if e.Notifier != nil {
		return e.Notifier
	}
	return LogNotifier{Log: e.logger()}
}

func (e Env) property(name string) string {
	if e.Properties == nil {
		return ""
	}
	return e.Properties.Property(name)
}

// Logger returns the session logger.
func (e Env) Logger() *logrus.Entry { return e.logger() }

// Go runs call off the editing loop and done back on it.
func (e Env) Go(call, done func()) { e.runner().Go(call, done) }

// Notify raises an error dialog.
func (e Env) Notify(title, reason, details string) { e.notifier().Error(title, reason, details) }

// StaticProperties is a fixed set of server properties.
type StaticProperties map[string]string

func (p StaticProperties) Property(name string) string { return p[name] }

// LogNotifier writes dialogs to the log. Used when nothing is listening.
type LogNotifier struct {
	Log *logrus.Entry
}

func (n LogNotifier) Error(title, reason, details string) {
	n.Log.WithFields(logrus.Fields{"title": title, "details": details}).Error(reason)
}

// Dialog is one error shown to the author.
type Dialog struct {
	Title   string `json:"title"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// DialogQueue collects dialogs until the front end picks them up.
type DialogQueue struct {
	dialogs []Dialog
}

func (q *DialogQueue) Error(title, reason, details string) {
	q.dialogs = append(q.dialogs, Dialog{Title: title, Reason: reason, Details: details})
}

// Take returns and forgets the pending dialogs.
func (q *DialogQueue) Take() []Dialog {
	d := q.dialogs
	q.dialogs = nil
	return d
}

// checkRecord enforces the Edit contract: a non-nil record whose variant is
// the one the editor handles.
func checkRecord(expected models.Kind, record *models.Media) error {
	if record == nil {
		return errors.Wrap(ErrInvalidArgument, "the parameter 'media' cannot be null")
	}
	if record.Properties.Kind != expected || record.Properties.Validate() != nil {
		return &KindMismatchError{Expected: expected, Actual: record.Properties.Kind}
	}
	return nil
}

// KindMismatchError is returned when an editor is handed a record of the
// wrong media kind. It wraps ErrInvalidArgument.
type KindMismatchError struct {
	Expected models.Kind
	Actual   models.Kind
}

func (e *KindMismatchError) Error() string {
	return "media properties must be of kind '" + string(e.Expected) + "', got '" + string(e.Actual) + "'"
}

func (e *KindMismatchError) Unwrap() error { return ErrInvalidArgument }
