package models

type ActivityKind string

const (
	ActivityInstructionalIntervention ActivityKind = "instructional_intervention"
	ActivityMidLessonMedia            ActivityKind = "mid_lesson_media"
)

// Strategy is a named, ordered collection of activities applied when the
// learner's assessment changes.
type Strategy struct {
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
}

// Activity is a tagged union over the activities a strategy can hold.
type Activity struct {
	Kind                      ActivityKind               `json:"kind"`
	InstructionalIntervention *InstructionalIntervention `json:"instructional_intervention,omitempty"`
	MidLessonMedia            *MidLessonMedia            `json:"mid_lesson_media,omitempty"`
}

type InstructionalIntervention struct {
	StrategyHandler string   `json:"strategy_handler,omitempty"`
	Feedback        Feedback `json:"feedback"`

	// Names of scenario objects this intervention reacts to.
	ReferencedTasks            []string `json:"referenced_tasks,omitempty"`
	ReferencedStateTransitions []string `json:"referenced_state_transitions,omitempty"`
	ReferencedLearnerActions   []string `json:"referenced_learner_actions,omitempty"`
	ReferencedPlacesOfInterest []string `json:"referenced_places_of_interest,omitempty"`
}

type MidLessonMedia struct {
	StrategyHandler string   `json:"strategy_handler,omitempty"`
	Media           []*Media `json:"media"`
}

type PresentationKind string

const (
	PresentationMessage PresentationKind = "message"
	PresentationFile    PresentationKind = "file"
	PresentationMedia   PresentationKind = "media"
)

type Feedback struct {
	Kind    PresentationKind `json:"kind"`
	Message string           `json:"message,omitempty"`
	File    string           `json:"file,omitempty"`
	Media   *Media           `json:"media,omitempty"`
}

func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	c := &Strategy{Name: s.Name, Activities: make([]Activity, 0, len(s.Activities))}
	for _, a := range s.Activities {
		ca := Activity{Kind: a.Kind}
		if a.InstructionalIntervention != nil {
			ca.InstructionalIntervention = a.InstructionalIntervention.Clone()
		}
		if a.MidLessonMedia != nil {
			mlm := &MidLessonMedia{StrategyHandler: a.MidLessonMedia.StrategyHandler}
			for _, m := range a.MidLessonMedia.Media {
				mlm.Media = append(mlm.Media, m.Clone())
			}
			ca.MidLessonMedia = mlm
		}
		c.Activities = append(c.Activities, ca)
	}
	return c
}

func (i *InstructionalIntervention) Clone() *InstructionalIntervention {
	if i == nil {
		return nil
	}
	c := *i
	c.Feedback.Media = i.Feedback.Media.Clone()
	c.ReferencedTasks = append([]string(nil), i.ReferencedTasks...)
	c.ReferencedStateTransitions = append([]string(nil), i.ReferencedStateTransitions...)
	c.ReferencedLearnerActions = append([]string(nil), i.ReferencedLearnerActions...)
	c.ReferencedPlacesOfInterest = append([]string(nil), i.ReferencedPlacesOfInterest...)
	return &c
}

// Interventions returns the instructional interventions of the strategy in order.
func (s *Strategy) Interventions() []*InstructionalIntervention {
	var out []*InstructionalIntervention
	for _, a := range s.Activities {
		if a.Kind == ActivityInstructionalIntervention && a.InstructionalIntervention != nil {
			out = append(out, a.InstructionalIntervention)
		}
	}
	return out
}
