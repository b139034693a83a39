// Package executor runs a goap.Plan against an agent, one action at a time,
// as a go-behaviortree tree.
//
// The planner only decides what to do. Performing an action on the agent is
// the job of a Performer, and reading the agent's facts back is the job of
// a StateSource. Before each step starts, its preconditions are checked
// against the agent's real state, so a plan invalidated by the world fails
// fast instead of running on stale assumptions.
package executor

import (
	"context"
	"errors"
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/goap/internal/goap"
)

var (
	// ErrStepInvalidated is returned when a step's preconditions no longer
	// hold in the agent's state at the moment the step starts.
	ErrStepInvalidated = errors.New("executor: step preconditions no longer hold")

	// ErrStepFailed is returned when a performer reports failure without
	// an error of its own.
	ErrStepFailed = errors.New("executor: step failed")
)

// StateSource derives planner facts from the agent's real state.
type StateSource interface {
	WorldState() (goap.WorldState, error)
}

// Performer carries out an action on the agent. It returns bt.Running
// while the action is in progress, and is called again on the next tick.
type Performer interface {
	Perform(ctx context.Context, action goap.Action) (bt.Status, error)
}

// StepFunc is called each time a step finishes, with its position in the
// plan and the final status.
type StepFunc func(index int, step goap.PlanStep, status bt.Status, err error)

// NewPlanNode builds a behavior tree that performs the plan's steps in
// order. Finished steps are memorized, so each one runs to completion once
// per execution of the tree.
func NewPlanNode(ctx context.Context, plan *goap.Plan, source StateSource, performer Performer, onStep StepFunc) bt.Node {
	children := make([]bt.Node, len(plan.Steps))
	for i, step := range plan.Steps {
		children[i] = newStepNode(ctx, i, step, source, performer, onStep)
	}
	return bt.New(bt.Memorize(bt.Sequence), children...)
}

func newStepNode(ctx context.Context, index int, step goap.PlanStep, source StateSource, performer Performer, onStep StepFunc) bt.Node {
	var started bool
	finish := func(status bt.Status, err error) (bt.Status, error) {
		started = false
		if onStep != nil {
			onStep(index, step, status, err)
		}
		return status, err
	}
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if !started {
			state, err := source.WorldState()
			if err != nil {
				return finish(bt.Failure, fmt.Errorf("step %d (%s): reading state: %w", index, step.Action.Name(), err))
			}
			if !goap.Applicable(state, step.Action) {
				return finish(bt.Failure, fmt.Errorf("%w: step %d (%s) requires %v, have %v",
					ErrStepInvalidated, index, step.Action.Name(), step.Action.Preconditions(), state))
			}
			started = true
		}
		status, err := performer.Perform(ctx, step.Action)
		switch {
		case err != nil:
			return finish(bt.Failure, fmt.Errorf("step %d (%s): %w", index, step.Action.Name(), err))
		case status == bt.Running:
			return bt.Running, nil
		case status == bt.Success:
			return finish(bt.Success, nil)
		default:
			return finish(bt.Failure, fmt.Errorf("%w: step %d (%s)", ErrStepFailed, index, step.Action.Name()))
		}
	})
}
