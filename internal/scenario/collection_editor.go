package scenario

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/validation"
)

// ErrEmptyCollection is returned by Apply when the list holds no media.
var ErrEmptyCollection = errors.New("there must be at least one media item")

const (
	MsgNoMediaItems = "There must be at least one media item. Please create a media item."

	titleValidateCollection = "There was a problem validating the MediaCollection"
)

// CollectionEditor edits the media list of a mid-lesson media activity. The
// list is edited as copies; Apply writes it back. One item at a time is open
// in the embedded MediaEditor.
type CollectionEditor struct {
	Media *editor.MediaEditor

	env editor.Env
	log *logrus.Entry

	canonical *models.MidLessonMedia
	items     []*models.Media
	selected  int
	// added marks the selected item as created by Add and never saved.
	added bool

	status *validation.Status

	// exists holds the last files-exist answer, keyed by workspace path.
	exists     map[string]bool
	checks     int
	validating bool

	readOnly bool
}

func NewCollectionEditor(env editor.Env) *CollectionEditor {
	return &CollectionEditor{
		Media:    editor.NewMediaEditor(env),
		env:      env,
		log:      env.Logger().WithField("component", "collection_editor"),
		selected: -1,
		status:   validation.NewStatus("media", MsgNoMediaItems),
		exists:   map[string]bool{},
	}
}

// EditObject starts editing copies of mlm's media.
func (e *CollectionEditor) EditObject(mlm *models.MidLessonMedia) error {
	if mlm == nil {
		return errors.Wrap(editor.ErrInvalidArgument, "the parameter 'midLessonMedia' cannot be null")
	}
	e.reset()
	e.canonical = mlm
	for _, m := range mlm.Media {
		if m != nil {
			e.items = append(e.items, m.Clone())
		}
	}
	e.status.Set(len(e.items) > 0)
	return nil
}

func (e *CollectionEditor) reset() {
	e.Media.Cancel()
	e.canonical = nil
	e.items = nil
	e.selected = -1
	e.added = false
	e.exists = map[string]bool{}
	e.checks++
	e.validating = false
	e.status.Clear()
}

func (e *CollectionEditor) Editing() bool { return e.canonical != nil }

// Items returns the working list.
func (e *CollectionEditor) Items() []*models.Media { return e.items }

// Selected is the index of the item open for editing, or -1.
func (e *CollectionEditor) Selected() int { return e.selected }

func (e *CollectionEditor) SetReadOnly(readOnly bool) {
	e.readOnly = readOnly
	e.Media.SetReadOnly(readOnly)
}

func (e *CollectionEditor) mutable() error {
	if e.canonical == nil {
		return editor.ErrNotEditing
	}
	if e.readOnly {
		return editor.ErrReadOnly
	}
	return nil
}

func (e *CollectionEditor) index(i int) error {
	if i < 0 || i >= len(e.items) {
		return errors.Wrapf(editor.ErrInvalidArgument, "no media item at %d", i)
	}
	return nil
}

// Add appends a new item and opens it. An empty kind leaves the type to be
// picked later.
func (e *CollectionEditor) Add(kind models.Kind, webAddress bool) (int, error) {
	if err := e.mutable(); err != nil {
		return -1, err
	}
	if kind != "" {
		if _, ok := editor.ChoiceFor(kind, webAddress); !ok {
			return -1, errors.Wrapf(editor.ErrInvalidArgument, "unknown media kind %q", kind)
		}
	}
	e.dropAdded()
	e.items = append(e.items, &models.Media{})
	i := len(e.items) - 1
	if err := e.Select(i); err != nil {
		e.items = e.items[:i]
		return -1, err
	}
	e.added = true
	if kind != "" {
		if err := e.Media.SelectType(kind, webAddress); err != nil {
			return i, err
		}
	}
	e.status.Set(true)
	return i, nil
}

// Select opens item i in the media editor. Unsaved edits to the item open
// before are dropped.
func (e *CollectionEditor) Select(i int) error {
	if e.canonical == nil {
		return editor.ErrNotEditing
	}
	if err := e.index(i); err != nil {
		return err
	}
	if e.added && e.selected >= 0 {
		if i == e.selected {
			return nil
		}
		if e.selected < i {
			i--
		}
		e.dropAdded()
	}
	if err := e.Media.Open(e.items[i]); err != nil {
		return err
	}
	e.selected = i
	return nil
}

// SaveItem commits the open item into the working list.
func (e *CollectionEditor) SaveItem() error {
	if err := e.mutable(); err != nil {
		return err
	}
	if e.selected < 0 {
		return editor.ErrNotEditing
	}
	if _, err := e.Media.Commit(); err != nil {
		return err
	}
	e.Media.Cancel()
	e.selected = -1
	e.added = false
	return nil
}

// CancelItem closes the open item. An item Add created that was never saved
// is taken out of the list again.
func (e *CollectionEditor) CancelItem() {
	e.dropAdded()
	e.Media.Cancel()
	e.selected = -1
	e.status.Set(len(e.items) > 0)
}

func (e *CollectionEditor) dropAdded() {
	if !e.added || e.selected < 0 {
		return
	}
	e.items = append(e.items[:e.selected], e.items[e.selected+1:]...)
	e.Media.Cancel()
	e.selected = -1
	e.added = false
}

// Remove takes item i out of the list.
func (e *CollectionEditor) Remove(i int) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if err := e.index(i); err != nil {
		return err
	}
	switch {
	case i == e.selected:
		e.Media.Cancel()
		e.selected = -1
		e.added = false
	case i < e.selected:
		e.selected--
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	e.status.Set(len(e.items) > 0)
	return nil
}

// Move puts item from at position to, shifting the items between.
func (e *CollectionEditor) Move(from, to int) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if err := e.index(from); err != nil {
		return err
	}
	if err := e.index(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	item := e.items[from]
	e.items = append(e.items[:from], e.items[from+1:]...)
	e.items = append(e.items[:to], append([]*models.Media{item}, e.items[to:]...)...)

	switch {
	case e.selected == from:
		e.selected = to
	case from < e.selected && e.selected <= to:
		e.selected--
	case to <= e.selected && e.selected < from:
		e.selected++
	}
	return nil
}

// filePath is the workspace path of a file-backed item, or "" for items
// that live on the web.
func (e *CollectionEditor) filePath(m *models.Media) string {
	if m == nil || strings.TrimSpace(m.URI) == "" || m.IsWebAddress() || m.RequestsSessionState() {
		return ""
	}
	if m.Properties.Kind == models.KindYoutubeVideo {
		return ""
	}
	return path.Join(e.env.CourseFolder, m.URI)
}

// ValidateFiles asks the workspace whether every file-backed item's file is
// still there. The answer arrives on the editing loop; a failure raises a
// dialog and keeps the previous answer. It is allowed while read only.
func (e *CollectionEditor) ValidateFiles(ctx context.Context) error {
	if e.canonical == nil {
		return editor.ErrNotEditing
	}
	var paths []string
	for _, m := range e.items {
		if p := e.filePath(m); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 || e.env.Workspace == nil {
		return nil
	}

	e.checks++
	check := e.checks
	e.validating = true

	var (
		exists map[string]bool
		err    error
	)
	e.env.Go(func() {
		exists, err = e.env.Workspace.FilesExist(ctx, e.env.Username, paths)
	}, func() {
		if check != e.checks {
			return
		}
		e.validating = false
		if err != nil {
			e.log.WithError(err).Warn("Unable to validate the media files")
			e.env.Notify(titleValidateCollection, err.Error(), fmt.Sprintf("%+v", err))
			return
		}
		for p, ok := range exists {
			e.exists[p] = ok
		}
	})
	return nil
}

// Missing reports whether the last files-exist answer said m's file is gone.
func (e *CollectionEditor) Missing(m *models.Media) bool {
	p := e.filePath(m)
	if p == "" {
		return false
	}
	ok, checked := e.exists[p]
	return checked && !ok
}

// Valid reports whether the list holds at least one item.
func (e *CollectionEditor) Valid() bool {
	return e.canonical != nil && len(e.items) > 0
}

// Apply saves the open item, if any, then replaces the canonical media list
// with the working one.
func (e *CollectionEditor) Apply() (*models.MidLessonMedia, error) {
	if err := e.mutable(); err != nil {
		return nil, err
	}
	if e.selected >= 0 {
		if err := e.SaveItem(); err != nil {
			return nil, err
		}
	}
	e.status.Set(len(e.items) > 0)
	if len(e.items) == 0 {
		return nil, ErrEmptyCollection
	}
	media := make([]*models.Media, 0, len(e.items))
	for _, m := range e.items {
		media = append(media, m.Clone())
	}
	e.canonical.Media = media
	return e.canonical, nil
}

// Cancel discards the working list.
func (e *CollectionEditor) Cancel() {
	e.reset()
}

// CollectionItem is one row of the media list.
type CollectionItem struct {
	Name    string      `json:"name"`
	URI     string      `json:"uri"`
	Kind    models.Kind `json:"kind,omitempty"`
	Missing bool        `json:"missing"`
}

type CollectionView struct {
	Editing    bool                `json:"editing"`
	Items      []CollectionItem    `json:"items"`
	Selected   int                 `json:"selected"`
	Item       *editor.MediaView   `json:"item,omitempty"`
	Statuses   []validation.Status `json:"statuses,omitempty"`
	Valid      bool                `json:"valid"`
	Validating bool                `json:"validating"`
	ReadOnly   bool                `json:"read_only"`
}

// View copies the editor state. Call it on the editing loop.
func (e *CollectionEditor) View() CollectionView {
	v := CollectionView{
		Editing:    e.canonical != nil,
		Items:      make([]CollectionItem, 0, len(e.items)),
		Selected:   e.selected,
		Statuses:   validation.Snapshot(e.status),
		Valid:      e.Valid(),
		Validating: e.validating,
		ReadOnly:   e.readOnly,
	}
	for _, m := range e.items {
		name := m.Name
		if strings.TrimSpace(name) == "" {
			name = "UNKNOWN"
		}
		uri := m.URI
		if strings.TrimSpace(uri) == "" {
			uri = "UNKNOWN"
		}
		v.Items = append(v.Items, CollectionItem{Name: name, URI: uri, Kind: m.Properties.Kind, Missing: e.Missing(m)})
	}
	if e.selected >= 0 {
		item := e.Media.View()
		item.Media = item.Media.Clone()
		v.Item = &item
	}
	return v
}
