package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"

	"media-editor/internal/editor"
	"media-editor/internal/models"
	"media-editor/internal/scenario"
)

var errInvalidIndex = errors.New("invalid media item index")

type strategyRequest struct {
	Strategy     *models.Strategy `json:"strategy" validate:"required"`
	ReferencedBy []string         `json:"referenced_by"`
}

// Activity picks an activity of the open strategy. Without it the body's own
// object is edited.
type interventionRequest struct {
	Activity     *int                              `json:"activity" validate:"omitempty,min=0"`
	Intervention *models.InstructionalIntervention `json:"intervention" validate:"required_without=Activity"`
}

type collectionRequest struct {
	Activity       *int                   `json:"activity" validate:"omitempty,min=0"`
	MidLessonMedia *models.MidLessonMedia `json:"mid_lesson_media" validate:"required_without=Activity"`
}

type scenarioFieldRequest struct {
	Field      string `json:"field" validate:"required"`
	Value      string `json:"value"`
	WebAddress bool   `json:"web_address"`
}

type addItemRequest struct {
	Kind       models.Kind `json:"kind" validate:"omitempty,oneof=image pdf webpage video youtube_video slide_show"`
	WebAddress bool        `json:"web_address"`
}

type moveRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type eventRequest struct {
	Event      string          `json:"event" validate:"required,oneof=object_created object_deleted object_renamed reference_changed place_of_interest_edited"`
	Object     scenario.Object `json:"object"`
	OldName    string          `json:"old_name"`
	References []string        `json:"references"`
	Referencer scenario.Object `json:"referencer"`
	Referenced scenario.Object `json:"referenced"`
	Added      bool            `json:"added"`
	Name       string          `json:"name"`
}

func (req eventRequest) event() scenario.Event {
	switch req.Event {
	case "object_created":
		return scenario.ObjectCreated{Object: req.Object, References: req.References}
	case "object_deleted":
		return scenario.ObjectDeleted{Object: req.Object}
	case "object_renamed":
		return scenario.ObjectRenamed{Object: req.Object, OldName: req.OldName}
	case "reference_changed":
		return scenario.ReferenceChanged{Referencer: req.Referencer, Referenced: req.Referenced, Added: req.Added}
	}
	return scenario.PlaceOfInterestEdited{Name: req.Name}
}

// scenarioResponse is what every scenario endpoint answers with.
type scenarioResponse struct {
	SessionID    uuid.UUID                 `json:"session_id"`
	Strategy     scenario.StrategyView     `json:"strategy"`
	Intervention scenario.InterventionView `json:"intervention"`
	Collection   scenario.CollectionView   `json:"collection"`
	Dialogs      []editor.Dialog           `json:"dialogs,omitempty"`
}

// scenarioSnapshot copies the scenario editors' state. Call it on the
// session loop.
func scenarioSnapshot(live *liveSession) scenarioResponse {
	return scenarioResponse{
		SessionID:    live.id,
		Strategy:     live.strategies.View(),
		Intervention: live.intervention.View(),
		Collection:   live.collection.View(),
		Dialogs:      live.dialogs.Take(),
	}
}

// editScenario runs fn on the session loop. A refusal because of invalid
// input still answers with the editors' state, as a 422.
func (h *EditorHandler) editScenario(w http.ResponseWriter, r *http.Request, fn func(*liveSession) error) {
	_, live, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp scenarioResponse
	err = live.do(r.Context(), func() error {
		err := fn(live)
		resp = scenarioSnapshot(live)
		return err
	})
	if err != nil && statusFor(err) == http.StatusUnprocessableEntity {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// activity returns activity i of the open strategy, which must be of kind.
func (live *liveSession) activity(i int, kind models.ActivityKind) (*models.Activity, error) {
	s := live.strategies.Strategy()
	if s == nil {
		return nil, editor.ErrNotEditing
	}
	if i < 0 || i >= len(s.Activities) {
		return nil, pkgerrors.Wrapf(editor.ErrInvalidArgument, "the strategy has no activity %d", i)
	}
	a := &s.Activities[i]
	if a.Kind != kind {
		return nil, pkgerrors.Wrapf(editor.ErrInvalidArgument, "activity %d is a %s", i, a.Kind)
	}
	return a, nil
}

func (h *EditorHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(*liveSession) error { return nil })
}

// OpenStrategy starts editing a strategy. The handler class names load in
// the background; the panel fills in on a later response.
func (h *EditorHandler) OpenStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		live.intervention.Cancel()
		live.collection.Cancel()
		live.strategy = req.Strategy
		return live.strategies.EditObject(live.ctx, live.strategy, req.ReferencedBy)
	})
}

func (h *EditorHandler) CloseStrategy(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		live.intervention.Cancel()
		live.collection.Cancel()
		live.strategies.Close()
		live.strategy = nil
		return nil
	})
}

// PublishEvent hands a scenario notification to the session's subscribers.
// The response reflects the state after the event was processed.
func (h *EditorHandler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	_, live, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	live.dispatcher.Publish(req.event())

	// The queue is FIFO, so the snapshot runs after the event.
	var resp scenarioResponse
	err = live.do(r.Context(), func() error {
		resp = scenarioSnapshot(live)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) OpenIntervention(w http.ResponseWriter, r *http.Request) {
	var req interventionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		iv := req.Intervention
		if req.Activity != nil {
			a, err := live.activity(*req.Activity, models.ActivityInstructionalIntervention)
			if err != nil {
				return err
			}
			if a.InstructionalIntervention == nil {
				a.InstructionalIntervention = &models.InstructionalIntervention{
					Feedback: models.Feedback{Kind: models.PresentationMessage},
				}
			}
			iv = a.InstructionalIntervention
		}
		return live.intervention.EditObject(iv)
	})
}

// SetInterventionField changes the feedback or, with any other field name,
// the feedback media.
func (h *EditorHandler) SetInterventionField(w http.ResponseWriter, r *http.Request) {
	var req scenarioFieldRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		iv := live.intervention
		switch req.Field {
		case "presentation":
			return iv.SetPresentation(models.PresentationKind(req.Value))
		case "message":
			return iv.SetMessage(req.Value)
		case "file":
			return iv.SetFile(req.Value)
		case "strategy_handler":
			return iv.SetStrategyHandler(req.Value)
		}

		working := iv.Working()
		if working == nil {
			return editor.ErrNotEditing
		}
		if working.Feedback.Kind != models.PresentationMedia {
			return pkgerrors.Wrap(editor.ErrInvalidArgument, "the feedback is not presented as media")
		}
		switch req.Field {
		case "media_type":
			return iv.Media.SelectType(models.Kind(req.Value), req.WebAddress)
		case "media_file":
			return iv.Media.SelectFile(req.Value)
		}
		return iv.Media.SetField(req.Field, req.Value)
	})
}

// ApplyIntervention writes the working intervention back. Incomplete
// feedback is refused with 422.
func (h *EditorHandler) ApplyIntervention(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		if _, err := live.intervention.Apply(); err != nil {
			return err
		}
		if live.strategies.Strategy() != nil {
			live.strategies.Panel().Refresh()
		}
		return nil
	})
}

func (h *EditorHandler) CancelIntervention(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		live.intervention.Cancel()
		return nil
	})
}

func (h *EditorHandler) OpenCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		mlm := req.MidLessonMedia
		if req.Activity != nil {
			a, err := live.activity(*req.Activity, models.ActivityMidLessonMedia)
			if err != nil {
				return err
			}
			if a.MidLessonMedia == nil {
				a.MidLessonMedia = &models.MidLessonMedia{}
			}
			mlm = a.MidLessonMedia
		}
		return live.collection.EditObject(mlm)
	})
}

// ApplyCollection writes the working media list back. An empty list is
// refused with 422.
func (h *EditorHandler) ApplyCollection(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		if _, err := live.collection.Apply(); err != nil {
			return err
		}
		if live.strategies.Strategy() != nil {
			live.strategies.Panel().Refresh()
		}
		return nil
	})
}

func (h *EditorHandler) CancelCollection(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		live.collection.Cancel()
		return nil
	})
}

func (h *EditorHandler) AddCollectionItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		_, err := live.collection.Add(req.Kind, req.WebAddress)
		return err
	})
}

func (h *EditorHandler) RemoveCollectionItem(w http.ResponseWriter, r *http.Request) {
	i, err := itemIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		return live.collection.Remove(i)
	})
}

func (h *EditorHandler) SelectCollectionItem(w http.ResponseWriter, r *http.Request) {
	i, err := itemIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		return live.collection.Select(i)
	})
}

func (h *EditorHandler) MoveCollectionItem(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		return live.collection.Move(req.From, req.To)
	})
}

// SetCollectionItemField edits the open media item.
func (h *EditorHandler) SetCollectionItemField(w http.ResponseWriter, r *http.Request) {
	var req scenarioFieldRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.editScenario(w, r, func(live *liveSession) error {
		c := live.collection
		if c.Selected() < 0 {
			return editor.ErrNotEditing
		}
		switch req.Field {
		case "type":
			return c.Media.SelectType(models.Kind(req.Value), req.WebAddress)
		case "file":
			return c.Media.SelectFile(req.Value)
		}
		return c.Media.SetField(req.Field, req.Value)
	})
}

func (h *EditorHandler) SaveCollectionItem(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		return live.collection.SaveItem()
	})
}

func (h *EditorHandler) CancelCollectionItem(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		live.collection.CancelItem()
		return nil
	})
}

// ValidateCollection checks that the listed files still exist. The answer
// shows up on a later response.
func (h *EditorHandler) ValidateCollection(w http.ResponseWriter, r *http.Request) {
	h.editScenario(w, r, func(live *liveSession) error {
		return live.collection.ValidateFiles(live.ctx)
	})
}

func itemIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || i < 0 {
		return 0, errInvalidIndex
	}
	return i, nil
}
