package goap

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoPlan is returned when no sequence of the given actions leads
	// from the start state to the goal. It is an ordinary outcome, not a
	// failure of the planner.
	ErrNoPlan = errors.New("goap: no plan found")

	// ErrSearchLimit is returned when the expansion budget set by
	// [WithMaxExpansions] runs out before the search completes.
	ErrSearchLimit = errors.New("goap: search limit reached")
)

// Option configures a [Planner].
type Option func(*Planner)

// WithObserver installs an observer for search events. A nil observer
// disables tracing.
func WithObserver(o Observer) Option {
	return func(p *Planner) { p.observer = o }
}

// WithMaxExpansions caps the number of nodes expanded per search. Zero or
// less means no cap.
func WithMaxExpansions(n int) Option {
	return func(p *Planner) { p.maxExpansions = n }
}

// WithExactStart makes the search stop only at a node whose required state
// equals the start state, instead of any node the start state satisfies.
func WithExactStart(exact bool) Option {
	return func(p *Planner) { p.exactStart = exact }
}

// Planner finds minimum-cost plans. It holds configuration only and is
// safe for concurrent use.
type Planner struct {
	observer      Observer
	maxExpansions int
	exactStart    bool
}

// NewPlanner returns a planner with the given options applied.
func NewPlanner(opts ...Option) *Planner {
	p := new(Planner)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FindPath plans with a default [Planner].
func FindPath(ctx context.Context, start, goal WorldState, actions []Action) (*Plan, error) {
	return NewPlanner().FindPath(ctx, start, goal, actions)
}

// arrival records the cheapest known way of reaching a required state.
type arrival struct {
	cost   float64
	action int
	// next is the state this one was regressed from, toward the goal.
	next WorldState
}

// FindPath searches backward from goal for the cheapest sequence of actions
// that, played forward from start, reaches a state containing goal.
//
// The returned error is [ErrNoPlan] when the goal is unreachable, wraps
// [ErrInvalidActionCost] when an action has an unusable cost, is
// [ErrSearchLimit] when the expansion cap is hit, and wraps ctx.Err() on
// cancellation. The actions slice is only read.
func (p *Planner) FindPath(ctx context.Context, start, goal WorldState, actions []Action) (*Plan, error) {
	for i, a := range actions {
		if a == nil {
			return nil, fmt.Errorf("goap: action %d is nil", i)
		}
		if err := ValidateCost(a.Cost()); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a.Name(), err)
		}
	}

	obs := p.observer
	if e, ok := obs.(observerEnabler); ok && !e.Enabled(ctx) {
		obs = nil
	}

	var (
		open     frontier
		seq      uint64
		best     = map[WorldState]arrival{goal: {action: NoAction}}
		settled  = make(map[WorldState]struct{})
		expanded int
	)
	heap.Push(&open, &frontierItem{step: Step{State: goal, Action: NoAction}})

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("goap: search interrupted: %w", err)
		}

		item := heap.Pop(&open).(*frontierItem)
		node := item.step
		if _, ok := settled[node.State]; ok {
			continue
		}
		if b := best[node.State]; item.cost > b.cost {
			continue
		}
		settled[node.State] = struct{}{}
		if obs != nil {
			obs.Settled(node, item.cost)
		}

		if p.reached(start, node.State) {
			return p.buildPlan(start, goal, node, item.cost, best, actions, expanded), nil
		}

		if p.maxExpansions > 0 && expanded >= p.maxExpansions {
			return nil, ErrSearchLimit
		}
		expanded++
		if obs != nil {
			obs.Expanded(node, item.cost)
		}

		for i, a := range actions {
			prev, ok := Regress(node.State, a)
			if !ok {
				continue
			}
			if _, ok := settled[prev]; ok {
				continue
			}
			cost := item.cost + a.Cost()
			if b, ok := best[prev]; ok && b.cost <= cost {
				continue
			}
			best[prev] = arrival{cost: cost, action: i, next: node.State}
			seq++
			step := Step{State: prev, Action: i}
			heap.Push(&open, &frontierItem{step: step, cost: cost, seq: seq})
			if obs != nil {
				obs.Discovered(step, a, cost)
			}
		}
	}

	return nil, ErrNoPlan
}

func (p *Planner) reached(start, required WorldState) bool {
	if p.exactStart {
		return start == required
	}
	return start.Contains(required)
}

// buildPlan follows the arrival chain from the terminal node to the goal.
// Each arrival's action leads toward the goal, so the walk yields steps in
// execution order.
func (p *Planner) buildPlan(start, goal WorldState, terminal Step, cost float64, best map[WorldState]arrival, actions []Action, expanded int) *Plan {
	plan := &Plan{
		Cost:     cost,
		Start:    start,
		Goal:     goal,
		Expanded: expanded,
	}
	state := terminal.State
	for {
		a := best[state]
		if a.action == NoAction {
			return plan
		}
		plan.Steps = append(plan.Steps, PlanStep{Index: a.action, Action: actions[a.action]})
		state = a.next
	}
}
