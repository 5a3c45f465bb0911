package scenario

import (
	"sort"

	"media-editor/internal/models"
)

// StrategyPanel shows one strategy: its activities, the handlers an
// activity can be assigned, and the state transitions that apply it.
type StrategyPanel struct {
	strategy     *models.Strategy
	handlers     []string
	referencedBy map[string]struct{}
	refreshes    int
}

func NewStrategyPanel() *StrategyPanel {
	return &StrategyPanel{referencedBy: map[string]struct{}{}}
}

// Load binds strategy and the available handler class names.
func (p *StrategyPanel) Load(strategy *models.Strategy, handlers []string, referencedBy []string) {
	p.strategy = strategy
	p.handlers = append([]string{}, handlers...)
	p.referencedBy = map[string]struct{}{}
	for _, name := range referencedBy {
		p.referencedBy[name] = struct{}{}
	}
	p.refreshes = 0
}

func (p *StrategyPanel) Strategy() *models.Strategy { return p.strategy }

func (p *StrategyPanel) Handlers() []string { return append([]string(nil), p.handlers...) }

// AddReferencer lists a state transition that applies the strategy.
func (p *StrategyPanel) AddReferencer(name string) {
	p.referencedBy[name] = struct{}{}
}

func (p *StrategyPanel) RemoveReferencer(name string) {
	delete(p.referencedBy, name)
}

func (p *StrategyPanel) RenameReferencer(oldName, newName string) {
	if _, ok := p.referencedBy[oldName]; !ok {
		return
	}
	delete(p.referencedBy, oldName)
	p.referencedBy[newName] = struct{}{}
}

// ReferencedBy returns the state transitions applying the strategy, sorted.
func (p *StrategyPanel) ReferencedBy() []string {
	out := make([]string, 0, len(p.referencedBy))
	for name := range p.referencedBy {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RenameStrategy updates the displayed strategy name.
func (p *StrategyPanel) RenameStrategy(name string) {
	if p.strategy != nil {
		p.strategy.Name = name
	}
}

// RenameReference replaces oldName with newName in every intervention's
// references of the given type.
func (p *StrategyPanel) RenameReference(t ObjectType, oldName, newName string) {
	p.eachReferenceList(t, func(refs []string) []string {
		for i, r := range refs {
			if r == oldName {
				refs[i] = newName
			}
		}
		return refs
	})
}

// RemoveReference drops name from every intervention's references of the
// given type.
func (p *StrategyPanel) RemoveReference(t ObjectType, name string) {
	p.eachReferenceList(t, func(refs []string) []string {
		kept := refs[:0]
		for _, r := range refs {
			if r != name {
				kept = append(kept, r)
			}
		}
		return kept
	})
}

// Refresh redraws the panel from the bound strategy.
func (p *StrategyPanel) Refresh() { p.refreshes++ }

// Refreshes returns how many times the panel has been redrawn since Load.
func (p *StrategyPanel) Refreshes() int { return p.refreshes }

func (p *StrategyPanel) eachReferenceList(t ObjectType, fn func([]string) []string) {
	if p.strategy == nil {
		return
	}
	for _, iv := range p.strategy.Interventions() {
		switch t {
		case ObjectTask:
			iv.ReferencedTasks = fn(iv.ReferencedTasks)
		case ObjectStateTransition:
			iv.ReferencedStateTransitions = fn(iv.ReferencedStateTransitions)
		case ObjectLearnerAction:
			iv.ReferencedLearnerActions = fn(iv.ReferencedLearnerActions)
		case ObjectPlaceOfInterest:
			iv.ReferencedPlacesOfInterest = fn(iv.ReferencedPlacesOfInterest)
		case ObjectStrategy:
		}
	}
	p.Refresh()
}

// References reports whether any intervention of the strategy refers to the
// named object.
func References(s *models.Strategy, t ObjectType, name string) bool {
	if s == nil {
		return false
	}
	for _, iv := range s.Interventions() {
		var refs []string
		switch t {
		case ObjectTask:
			refs = iv.ReferencedTasks
		case ObjectStateTransition:
			refs = iv.ReferencedStateTransitions
		case ObjectLearnerAction:
			refs = iv.ReferencedLearnerActions
		case ObjectPlaceOfInterest:
			refs = iv.ReferencedPlacesOfInterest
		case ObjectStrategy:
		}
		for _, r := range refs {
			if r == name {
				return true
			}
		}
	}
	return false
}
