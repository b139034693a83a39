package goap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPreconditionUnmet is returned by [Plan.Simulate] when a step cannot be
// applied to the state reached so far.
var ErrPreconditionUnmet = errors.New("goap: precondition unmet")

// PlanStep is one action of a [Plan], along with its index in the action
// slice passed to the planner.
type PlanStep struct {
	Index  int
	Action Action
}

// Plan is an ordered sequence of actions, in execution order, that takes
// Start to a state containing Goal.
type Plan struct {
	Steps []PlanStep
	// Cost is the sum of the step costs.
	Cost  float64
	Start WorldState
	Goal  WorldState
	// Expanded is the number of search nodes expanded to find the plan.
	Expanded int
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.Steps) }

// Empty reports whether the start state already satisfies the goal.
func (p *Plan) Empty() bool { return len(p.Steps) == 0 }

// Actions returns the plan's actions in execution order.
func (p *Plan) Actions() []Action {
	out := make([]Action, len(p.Steps))
	for i, step := range p.Steps {
		out[i] = step.Action
	}
	return out
}

// Indices returns the action indexes in execution order.
func (p *Plan) Indices() []int {
	out := make([]int, len(p.Steps))
	for i, step := range p.Steps {
		out[i] = step.Index
	}
	return out
}

// Names returns the action names in execution order.
func (p *Plan) Names() []string {
	out := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		out[i] = step.Action.Name()
	}
	return out
}

// Simulate plays the plan forward from start and returns the final state.
func (p *Plan) Simulate(start WorldState) (WorldState, error) {
	s := start
	for i, step := range p.Steps {
		next, ok := Apply(s, step.Action)
		if !ok {
			return s, fmt.Errorf("%w: step %d (%s) requires %v, have %v",
				ErrPreconditionUnmet, i, step.Action.Name(), step.Action.Preconditions(), s)
		}
		s = next
	}
	return s, nil
}

func (p *Plan) String() string {
	return fmt.Sprintf("[%s] cost=%g", strings.Join(p.Names(), " -> "), p.Cost)
}
