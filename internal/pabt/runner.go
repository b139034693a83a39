package pabt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"
	btmod "github.com/joeycumines/goap/internal/bt"
	"github.com/joeycumines/goap/internal/executor"
	"github.com/joeycumines/goap/internal/goap"
)

// ErrPlanFailed is returned when the reactive tree fails, which happens
// when no registered action can make a failing condition hold.
var ErrPlanFailed = errors.New("pabt: plan failed")

// NewPlan builds the PA-BT tree that achieves every fact of goal.
func NewPlan(state *State, goal goap.WorldState) (bt.Node, error) {
	var goals []pabtpkg.IConditions
	if facts := goal.Facts(); len(facts) > 0 {
		group := make(pabtpkg.IConditions, len(facts))
		for i, f := range facts {
			group[i] = &FactCondition{Name: state.Universe().Name(f), Want: true}
		}
		goals = append(goals, group)
	}
	plan, err := pabtpkg.INew(state, goals)
	if err != nil {
		return nil, fmt.Errorf("pabt: creating plan: %w", err)
	}
	return plan.Node(), nil
}

// Runner ticks a reactive tree until its goal holds.
type Runner struct {
	// Interval is the delay between ticks. Zero ticks again immediately.
	Interval time.Duration
	// MaxTicks bounds the ticks per run. Zero means unbounded.
	MaxTicks int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Report describes a finished reactive run.
type Report struct {
	RunID string
	Ticks int
	// Performed lists the actions that completed, in order.
	Performed []string
	Final     goap.WorldState
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run pursues goal with actions, reading the agent through source and
// acting through performer. The state is re-read after every action, so
// changes made by the world between ticks are picked up.
func (r *Runner) Run(ctx context.Context, universe *goap.Universe, actions []goap.Action, goal goap.WorldState, source executor.StateSource, performer executor.Performer) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := r.logger().With("run", report.RunID)

	state := NewState(new(btmod.Blackboard), universe)
	for _, a := range actions {
		state.RegisterAction(NewAction(universe, a, r.performNode(ctx, state, a, source, performer, report, log)))
	}
	if err := state.Sync(source); err != nil {
		return report, err
	}

	report.Final = state.Load()
	if report.Final.Contains(goal) {
		log.Info("pabt: goal already holds", "goal", universe.Format(goal))
		return report, nil
	}

	node, err := NewPlan(state, goal)
	if err != nil {
		return report, err
	}

	log.Info("pabt: run started", "goal", universe.Format(goal), "actions", state.Registry().Len())

	var timer *time.Timer
	if r.Interval > 0 {
		timer = time.NewTimer(r.Interval)
		defer timer.Stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("pabt: run interrupted: %w", err)
		}
		if r.MaxTicks > 0 && report.Ticks >= r.MaxTicks {
			log.Warn("pabt: tick limit reached", "ticks", report.Ticks)
			return report, executor.ErrTickLimit
		}

		report.Ticks++
		status, err := node.Tick()
		if err != nil {
			return report, fmt.Errorf("pabt: tick %d: %w", report.Ticks, err)
		}
		if status == bt.Failure {
			log.Warn("pabt: plan failed", "ticks", report.Ticks, "state", universe.Format(state.Load()))
			return report, ErrPlanFailed
		}
		if status == bt.Success {
			break
		}

		if timer != nil {
			timer.Reset(r.Interval)
			select {
			case <-ctx.Done():
				return report, fmt.Errorf("pabt: run interrupted: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}

	if err := state.Sync(source); err != nil {
		return report, err
	}
	report.Final = state.Load()
	if !report.Final.Contains(goal) {
		return report, fmt.Errorf("%w: have %s, want %s", executor.ErrGoalNotReached, universe.Format(report.Final), universe.Format(goal))
	}

	log.Info("pabt: run finished", "ticks", report.Ticks, "performed", report.Performed)
	return report, nil
}

func (r *Runner) performNode(ctx context.Context, state *State, action goap.Action, source executor.StateSource, performer executor.Performer, report *Report, log *slog.Logger) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		status, err := performer.Perform(ctx, action)
		if err != nil {
			return bt.Failure, fmt.Errorf("pabt: %s: %w", action.Name(), err)
		}
		if status == bt.Running {
			return bt.Running, nil
		}
		if err := state.Sync(source); err != nil {
			return bt.Failure, err
		}
		if status == bt.Success {
			report.Performed = append(report.Performed, action.Name())
		}
		log.Debug("pabt: action finished", "action", action.Name(), "status", status)
		return status, nil
	})
}
