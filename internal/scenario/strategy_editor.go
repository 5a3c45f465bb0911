package scenario

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"media-editor/internal/editor"
	"media-editor/internal/metrics"
	"media-editor/internal/models"
)

// StrategyEditor edits one strategy at a time and keeps its panel in step
// with the rest of the scenario.
type StrategyEditor struct {
	env   editor.Env
	panel *StrategyPanel
	log   *logrus.Entry

	strategy *models.Strategy
	loading  bool
}

func NewStrategyEditor(env editor.Env) *StrategyEditor {
	return &StrategyEditor{
		env:   env,
		panel: NewStrategyPanel(),
		log:   env.Logger().WithField("component", "strategy_editor"),
	}
}

func (e *StrategyEditor) Panel() *StrategyPanel { return e.panel }

func (e *StrategyEditor) Strategy() *models.Strategy { return e.strategy }

// Loading reports whether the handler list is still being fetched.
func (e *StrategyEditor) Loading() bool { return e.loading }

// EditObject starts editing strategy. The panel is loaded once the strategy
// handler class names arrive; if they cannot be fetched the panel is loaded
// with none. referencedBy names the state transitions applying strategy.
func (e *StrategyEditor) EditObject(ctx context.Context, strategy *models.Strategy, referencedBy []string) error {
	if strategy == nil {
		return errors.Wrap(editor.ErrInvalidArgument, "the parameter 'strategy' cannot be null")
	}
	e.strategy = strategy
	e.loading = true

	if e.env.Workspace == nil {
		e.load(strategy, nil, referencedBy)
		return nil
	}

	var (
		handlers []string
		err      error
	)
	e.env.Go(func() {
		handlers, err = e.env.Workspace.StrategyHandlerClassNames(ctx)
	}, func() {
		if e.strategy != strategy {
			return
		}
		if err != nil {
			e.log.WithError(err).Warn("Unable to retrieve the strategy handlers, continuing without them")
			handlers = nil
		}
		e.load(strategy, handlers, referencedBy)
	})
	return nil
}

func (e *StrategyEditor) load(strategy *models.Strategy, handlers, referencedBy []string) {
	e.loading = false
	e.panel.Load(strategy, handlers, referencedBy)
}

// Close stops editing.
func (e *StrategyEditor) Close() {
	e.strategy = nil
	e.loading = false
	e.panel.Load(nil, nil, nil)
}

// ProcessEvent forwards ev to the panel when it concerns the strategy being
// edited or an object that strategy references. Other events are dropped,
// as are events that arrive before the panel has loaded.
func (e *StrategyEditor) ProcessEvent(ev Event) {
	handled := e.strategy != nil && !e.loading && e.route(ev)
	label := "false"
	if handled {
		label = "true"
	}
	metrics.ScenarioEvents.WithLabelValues(ev.EventName(), label).Inc()
}

func (e *StrategyEditor) route(ev Event) bool {
	name := e.strategy.Name
	switch ev := ev.(type) {
	case ObjectCreated:
		if ev.Object.Type != ObjectStateTransition || !contains(ev.References, name) {
			return false
		}
		e.panel.AddReferencer(ev.Object.Name)
		return true

	case ObjectDeleted:
		switch {
		case ev.Object.Type == ObjectStrategy && ev.Object.Name == name:
			e.Close()
			return true
		case References(e.strategy, ev.Object.Type, ev.Object.Name):
			e.panel.RemoveReference(ev.Object.Type, ev.Object.Name)
			if ev.Object.Type == ObjectStateTransition {
				e.panel.RemoveReferencer(ev.Object.Name)
			}
			return true
		case ev.Object.Type == ObjectStateTransition && contains(e.panel.ReferencedBy(), ev.Object.Name):
			e.panel.RemoveReferencer(ev.Object.Name)
			return true
		}
		return false

	case ObjectRenamed:
		switch {
		case ev.Object.Type == ObjectStrategy && ev.OldName == name:
			e.panel.RenameStrategy(ev.Object.Name)
			e.panel.Refresh()
			return true
		case References(e.strategy, ev.Object.Type, ev.OldName):
			e.panel.RenameReference(ev.Object.Type, ev.OldName, ev.Object.Name)
			return true
		case ev.Object.Type == ObjectStateTransition && contains(e.panel.ReferencedBy(), ev.OldName):
			e.panel.RenameReferencer(ev.OldName, ev.Object.Name)
			return true
		}
		return false

	case ReferenceChanged:
		if ev.Referenced.Type != ObjectStrategy || ev.Referenced.Name != name {
			return false
		}
		if ev.Added {
			e.panel.AddReferencer(ev.Referencer.Name)
		} else {
			e.panel.RemoveReferencer(ev.Referencer.Name)
		}
		return true

	case PlaceOfInterestEdited:
		if !References(e.strategy, ObjectPlaceOfInterest, ev.Name) {
			return false
		}
		e.panel.Refresh()
		return true
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

type StrategyView struct {
	Editing      bool             `json:"editing"`
	Loading      bool             `json:"loading"`
	Strategy     *models.Strategy `json:"strategy,omitempty"`
	Handlers     []string         `json:"handlers"`
	ReferencedBy []string         `json:"referenced_by"`
	Refreshes    int              `json:"refreshes"`
}

// View copies the editor state. Call it on the editing loop.
func (e *StrategyEditor) View() StrategyView {
	return StrategyView{
		Editing:      e.strategy != nil,
		Loading:      e.loading,
		Strategy:     e.strategy.Clone(),
		Handlers:     e.panel.Handlers(),
		ReferencedBy: e.panel.ReferencedBy(),
		Refreshes:    e.panel.Refreshes(),
	}
}
