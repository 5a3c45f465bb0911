// Package scenario holds the editors for scenario objects that embed media:
// strategies and their instructional interventions. They react to
// notifications about other objects of the scenario being created, deleted,
// renamed or re-referenced.
package scenario

import "media-editor/internal/bus"

// ObjectType is the kind of scenario object an event is about.
type ObjectType string

const (
	ObjectStrategy        ObjectType = "strategy"
	ObjectTask            ObjectType = "task"
	ObjectStateTransition ObjectType = "state_transition"
	ObjectLearnerAction   ObjectType = "learner_action"
	ObjectPlaceOfInterest ObjectType = "place_of_interest"
)

// Object identifies a scenario object by type and name.
type Object struct {
	Type ObjectType `json:"type" validate:"omitempty,oneof=strategy task state_transition learner_action place_of_interest"`
	Name string     `json:"name"`
}

// Event is a scenario-wide notification.
type Event interface {
	EventName() string
}

// ObjectCreated reports a new object. References lists the names of the
// objects it refers to.
type ObjectCreated struct {
	Object     Object
	References []string
}

type ObjectDeleted struct {
	Object Object
}

// ObjectRenamed reports that Object, now carrying its new name, used to be
// called OldName.
type ObjectRenamed struct {
	Object  Object
	OldName string
}

// ReferenceChanged reports that Referencer started (Added) or stopped
// referring to Referenced.
type ReferenceChanged struct {
	Referencer Object
	Referenced Object
	Added      bool
}

// PlaceOfInterestEdited reports a change to a place of interest's contents.
type PlaceOfInterestEdited struct {
	Name string
}

func (ObjectCreated) EventName() string         { return "object_created" }
func (ObjectDeleted) EventName() string         { return "object_deleted" }
func (ObjectRenamed) EventName() string         { return "object_renamed" }
func (ReferenceChanged) EventName() string      { return "reference_changed" }
func (PlaceOfInterestEdited) EventName() string { return "place_of_interest_edited" }

// Processor consumes scenario events.
type Processor interface {
	ProcessEvent(ev Event)
}

// Dispatcher fans events out to every subscribed processor on one ordered
// queue, so processors see events in publish order and never concurrently.
type Dispatcher struct {
	queue      *bus.Queue
	processors []Processor
}

func NewDispatcher(queue *bus.Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// Subscribe adds p. Call it from the queue's loop.
func (d *Dispatcher) Subscribe(p Processor) {
	d.processors = append(d.processors, p)
}

// Unsubscribe removes p. Call it from the queue's loop.
func (d *Dispatcher) Unsubscribe(p Processor) {
	for i, sub := range d.processors {
		if sub == p {
			d.processors = append(d.processors[:i], d.processors[i+1:]...)
			return
		}
	}
}

// Publish queues ev for delivery. It is safe to call from any goroutine.
func (d *Dispatcher) Publish(ev Event) {
	d.queue.Post(func() {
		for _, p := range d.processors {
			p.ProcessEvent(ev)
		}
	})
}
