package goap

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidActionCost is returned for a cost that is negative, NaN or
// infinite. Such a cost would break the optimality of the search.
var ErrInvalidActionCost = errors.New("goap: invalid action cost")

// Action is a costed transformation between world states.
//
// Implementations must be immutable for the duration of a planning call, and
// every method must return the same value each time it is called. The
// planner only reads actions; it never performs them.
type Action interface {
	// Name identifies the action in plans and logs.
	Name() string
	// Preconditions are the facts that must hold before the action.
	Preconditions() FactMask
	// Effects are the facts guaranteed to hold after the action.
	Effects() FactMask
	// Cost is the fixed, non-negative cost of performing the action once.
	Cost() float64
}

// ValidateCost checks that cost is usable as a search edge weight.
func ValidateCost(cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidActionCost, cost)
	}
	return nil
}

// BasicAction is a plain data [Action].
type BasicAction struct {
	name string
	pre  FactMask
	eff  FactMask
	cost float64
}

var _ Action = (*BasicAction)(nil)

// NewAction creates an action, rejecting invalid costs up front.
func NewAction(name string, preconditions, effects FactMask, cost float64) (*BasicAction, error) {
	if err := ValidateCost(cost); err != nil {
		return nil, fmt.Errorf("action %q: %w", name, err)
	}
	return &BasicAction{
		name: name,
		pre:  preconditions,
		eff:  effects,
		cost: cost,
	}, nil
}

// MustAction is like [NewAction] but panics on error.
func MustAction(name string, preconditions, effects FactMask, cost float64) *BasicAction {
	a, err := NewAction(name, preconditions, effects, cost)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *BasicAction) Name() string            { return a.name }
func (a *BasicAction) Preconditions() FactMask { return a.pre }
func (a *BasicAction) Effects() FactMask       { return a.eff }
func (a *BasicAction) Cost() float64           { return a.cost }

func (a *BasicAction) String() string {
	return fmt.Sprintf("%s(pre=%v eff=%v cost=%g)", a.name, a.pre, a.eff, a.cost)
}

// Applicable reports whether a can run forward from s.
func Applicable(s WorldState, a Action) bool {
	return s.Contains(a.Preconditions())
}

// Apply plays a forward from s. ok is false if a precondition is unmet, in
// which case s is returned unchanged.
func Apply(s WorldState, a Action) (next WorldState, ok bool) {
	if !Applicable(s, a) {
		return s, false
	}
	return s.Union(a.Effects()), true
}

// Relevant reports whether a is a valid backward edge into the required
// state s, i.e. playing a forward establishes at least the facts s needs.
func Relevant(s WorldState, a Action) bool {
	return s.Contains(a.Effects())
}

// Regress returns the state required before a so that, after a, the
// required state s holds. ok is false if a is not relevant to s.
func Regress(s WorldState, a Action) (prev WorldState, ok bool) {
	if !Relevant(s, a) {
		return s, false
	}
	return s.Difference(a.Effects()).Union(a.Preconditions()), true
}
