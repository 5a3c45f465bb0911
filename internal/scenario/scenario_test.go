package scenario_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-editor/internal/bus"
	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/scenario"
)

type handlerSource struct {
	handlers []string
	err      error

	// existing lists the workspace paths FilesExist reports as present.
	existing  map[string]bool
	existsErr error
	checked   [][]string
}

func (h *handlerSource) DeleteWorkspaceFiles(context.Context, string, []string) (*models.ServiceResult, error) {
	return &models.ServiceResult{Success: true}, nil
}

func (h *handlerSource) StrategyHandlerClassNames(context.Context) ([]string, error) {
	return h.handlers, h.err
}

func (h *handlerSource) ServerProperty(context.Context, string) (string, error) { return "", nil }

func (h *handlerSource) FilesExist(_ context.Context, _ string, paths []string) (map[string]bool, error) {
	h.checked = append(h.checked, paths)
	if h.existsErr != nil {
		return nil, h.existsErr
	}
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = h.existing[p]
	}
	return out, nil
}

func testEnv(ws *handlerSource) editor.Env {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return editor.Env{Workspace: ws, Log: logrus.NewEntry(l), CourseFolder: "course"}
}

func sampleStrategy() *models.Strategy {
	return &models.Strategy{
		Name: "Remediate",
		Activities: []models.Activity{{
			Kind: models.ActivityInstructionalIntervention,
			InstructionalIntervention: &models.InstructionalIntervention{
				Feedback:                   models.Feedback{Kind: models.PresentationMessage, Message: "Try again"},
				ReferencedTasks:            []string{"Clear room"},
				ReferencedPlacesOfInterest: []string{"Gate"},
			},
		}},
	}
}

func TestEditObjectLoadsHandlers(t *testing.T) {
	e := scenario.NewStrategyEditor(testEnv(&handlerSource{handlers: []string{"domain.DefaultHandler"}}))
	s := sampleStrategy()

	require.NoError(t, e.EditObject(context.Background(), s, []string{"Start"}))

	assert.False(t, e.Loading())
	assert.Same(t, s, e.Panel().Strategy())
	assert.Equal(t, []string{"domain.DefaultHandler"}, e.Panel().Handlers())
	assert.Equal(t, []string{"Start"}, e.Panel().ReferencedBy())
}

func TestEditObjectToleratesHandlerFailure(t *testing.T) {
	e := scenario.NewStrategyEditor(testEnv(&handlerSource{err: errors.New("server down")}))
	s := sampleStrategy()

	require.NoError(t, e.EditObject(context.Background(), s, nil))

	assert.Same(t, s, e.Panel().Strategy())
	assert.Empty(t, e.Panel().Handlers())
}

func TestEditObjectNil(t *testing.T) {
	e := scenario.NewStrategyEditor(testEnv(&handlerSource{}))
	assert.ErrorIs(t, e.EditObject(context.Background(), nil, nil), editor.ErrInvalidArgument)
}

func TestEditObjectIgnoresStaleHandlers(t *testing.T) {
	q := bus.NewQueue()
	env := testEnv(&handlerSource{handlers: []string{"h"}})
	env.Runner = q
	e := scenario.NewStrategyEditor(env)

	first, second := sampleStrategy(), sampleStrategy()
	second.Name = "Reinforce"
	require.NoError(t, e.EditObject(context.Background(), first, nil))
	require.NoError(t, e.EditObject(context.Background(), second, nil))
	require.Eventually(t, func() bool { return q.Len() == 2 }, time.Second, time.Millisecond)
	q.Drain()

	assert.Same(t, second, e.Panel().Strategy())
	assert.False(t, e.Loading())
}

func TestProcessEventRouting(t *testing.T) {
	e := scenario.NewStrategyEditor(testEnv(&handlerSource{}))
	s := sampleStrategy()
	require.NoError(t, e.EditObject(context.Background(), s, []string{"Start"}))
	iv := s.Interventions()[0]

	// A transition applying another strategy is not ours.
	e.ProcessEvent(scenario.ObjectCreated{
		Object:     scenario.Object{Type: scenario.ObjectStateTransition, Name: "Other"},
		References: []string{"Reinforce"},
	})
	assert.Equal(t, []string{"Start"}, e.Panel().ReferencedBy())

	e.ProcessEvent(scenario.ObjectCreated{
		Object:     scenario.Object{Type: scenario.ObjectStateTransition, Name: "Failed"},
		References: []string{"Remediate"},
	})
	assert.Equal(t, []string{"Failed", "Start"}, e.Panel().ReferencedBy())

	e.ProcessEvent(scenario.ObjectRenamed{
		Object:  scenario.Object{Type: scenario.ObjectTask, Name: "Clear building"},
		OldName: "Clear room",
	})
	assert.Equal(t, []string{"Clear building"}, iv.ReferencedTasks)

	e.ProcessEvent(scenario.ObjectRenamed{
		Object:  scenario.Object{Type: scenario.ObjectStateTransition, Name: "Begin"},
		OldName: "Start",
	})
	assert.Equal(t, []string{"Begin", "Failed"}, e.Panel().ReferencedBy())

	e.ProcessEvent(scenario.ReferenceChanged{
		Referencer: scenario.Object{Type: scenario.ObjectStateTransition, Name: "Failed"},
		Referenced: scenario.Object{Type: scenario.ObjectStrategy, Name: "Remediate"},
		Added:      false,
	})
	assert.Equal(t, []string{"Begin"}, e.Panel().ReferencedBy())

	before := e.Panel().Refreshes()
	e.ProcessEvent(scenario.PlaceOfInterestEdited{Name: "Elsewhere"})
	assert.Equal(t, before, e.Panel().Refreshes())
	e.ProcessEvent(scenario.PlaceOfInterestEdited{Name: "Gate"})
	assert.Equal(t, before+1, e.Panel().Refreshes())

	e.ProcessEvent(scenario.ObjectDeleted{Object: scenario.Object{Type: scenario.ObjectPlaceOfInterest, Name: "Gate"}})
	assert.Empty(t, iv.ReferencedPlacesOfInterest)

	e.ProcessEvent(scenario.ObjectRenamed{
		Object:  scenario.Object{Type: scenario.ObjectStrategy, Name: "Remediate more"},
		OldName: "Remediate",
	})
	assert.Equal(t, "Remediate more", s.Name)

	e.ProcessEvent(scenario.ObjectDeleted{Object: scenario.Object{Type: scenario.ObjectStrategy, Name: "Remediate more"}})
	assert.Nil(t, e.Strategy())
	assert.Nil(t, e.Panel().Strategy())
}

func TestProcessEventWhileIdle(t *testing.T) {
	e := scenario.NewStrategyEditor(testEnv(&handlerSource{}))
	assert.NotPanics(t, func() {
		e.ProcessEvent(scenario.ObjectDeleted{Object: scenario.Object{Type: scenario.ObjectTask, Name: "x"}})
	})
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	q := bus.NewQueue()
	d := scenario.NewDispatcher(q)
	rec := &recorder{}
	d.Subscribe(rec)

	d.Publish(scenario.ObjectDeleted{})
	d.Publish(scenario.PlaceOfInterestEdited{})
	assert.Empty(t, rec.names)

	q.Drain()
	assert.Equal(t, []string{"object_deleted", "place_of_interest_edited"}, rec.names)

	d.Unsubscribe(rec)
	d.Publish(scenario.ObjectCreated{})
	q.Drain()
	assert.Len(t, rec.names, 2)
}

type recorder struct{ names []string }

func (r *recorder) ProcessEvent(ev scenario.Event) { r.names = append(r.names, ev.EventName()) }

func TestProcessEventIgnoredWhileLoading(t *testing.T) {
	q := bus.NewQueue()
	env := testEnv(&handlerSource{handlers: []string{"h"}})
	env.Runner = q
	e := scenario.NewStrategyEditor(env)

	strategy := sampleStrategy()
	require.NoError(t, e.EditObject(context.Background(), strategy, nil))
	e.ProcessEvent(scenario.ObjectRenamed{
		Object:  scenario.Object{Type: scenario.ObjectStrategy, Name: "Renamed"},
		OldName: strategy.Name,
	})
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, time.Millisecond)
	q.Drain()

	assert.NotEqual(t, "Renamed", e.Panel().Strategy().Name)
}
