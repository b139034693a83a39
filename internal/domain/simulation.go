package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	bt "github.com/joeycumines/go-behaviortree"
	btmod "github.com/joeycumines/goap/internal/bt"
	"github.com/joeycumines/goap/internal/goap"
)

// Simulation is an in-memory agent for a compiled domain. Its variables
// live on a blackboard, facts are derived from them with the domain's
// rules, and performing an action applies the action's assignments.
//
// Simulation is safe for concurrent use.
type Simulation struct {
	domain *Compiled
	bb     *btmod.Blackboard

	mu      sync.Mutex
	pending map[string]int
}

// NewSimulation starts a simulation from the domain's initial variables.
func (c *Compiled) NewSimulation() *Simulation {
	bb := new(btmod.Blackboard)
	bb.Merge(c.agent)
	return &Simulation{
		domain:  c,
		bb:      bb,
		pending: make(map[string]int),
	}
}

// Blackboard returns the blackboard holding the agent's variables.
func (s *Simulation) Blackboard() *btmod.Blackboard { return s.bb }

// Variables returns a snapshot of the agent's variables.
func (s *Simulation) Variables() map[string]any { return s.bb.Snapshot() }

// WorldState derives the current facts.
func (s *Simulation) WorldState() (goap.WorldState, error) {
	return s.domain.Mapper.Map(s.bb.Snapshot())
}

// Perform runs one tick of action. An action with ticks configured reports
// bt.Running that many times before it completes. Preconditions are checked
// when the action starts.
func (s *Simulation) Perform(ctx context.Context, action goap.Action) (bt.Status, error) {
	if err := ctx.Err(); err != nil {
		return bt.Failure, err
	}
	name := action.Name()
	apply, ok := s.domain.applies[name]
	if !ok {
		return bt.Failure, fmt.Errorf("simulation: unknown action %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, started := s.pending[name]
	if !started {
		state, err := s.domain.Mapper.Map(s.bb.Snapshot())
		if err != nil {
			return bt.Failure, err
		}
		if !goap.Applicable(state, action) {
			return bt.Failure, fmt.Errorf("simulation: %s: %w: requires %s, have %s", name, goap.ErrPreconditionUnmet,
				s.domain.Universe.Format(action.Preconditions()), s.domain.Universe.Format(state))
		}
		remaining = s.domain.ticks[name]
	}
	if remaining > 0 {
		s.pending[name] = remaining - 1
		return bt.Running, nil
	}
	delete(s.pending, name)

	err := s.bb.Update(func(data map[string]any) error {
		updates, err := apply.Eval(data)
		if err != nil {
			return err
		}
		for k, v := range updates {
			data[k] = v
		}
		return nil
	})
	if err != nil {
		return bt.Failure, fmt.Errorf("simulation: %s: %w", name, err)
	}
	slog.Debug("[Simulation] performed", "domain", s.domain.Name, "action", name)
	return bt.Success, nil
}
