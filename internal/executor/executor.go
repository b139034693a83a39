package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/goap/internal/goap"
)

var (
	// ErrGoalNotReached is returned when every step succeeded but the
	// agent's final state does not contain the plan's goal.
	ErrGoalNotReached = errors.New("executor: goal not reached")

	// ErrTickLimit is returned when the tick budget runs out while the plan
	// is still running.
	ErrTickLimit = errors.New("executor: tick limit reached")
)

// Executor ticks plan trees until they finish.
type Executor struct {
	// Interval is the delay between ticks while a step is running. Zero
	// ticks again immediately.
	Interval time.Duration
	// MaxTicks bounds the number of ticks per run. Zero means unbounded.
	MaxTicks int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Report describes a finished run.
type Report struct {
	// RunID correlates the log records of one run.
	RunID string
	Ticks int
	// Completed is the number of steps that succeeded.
	Completed int
	Final     goap.WorldState
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Run executes plan against the agent behind source and performer. The
// report is returned even on error, describing how far the run got.
func (e *Executor) Run(ctx context.Context, plan *goap.Plan, source StateSource, performer Performer) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := e.logger().With("run", report.RunID)

	log.Info("executor: run started", "steps", plan.Len(), "cost", plan.Cost)

	node := NewPlanNode(ctx, plan, source, performer, func(index int, step goap.PlanStep, status bt.Status, err error) {
		if status == bt.Success {
			report.Completed++
		}
		log.Debug("executor: step finished",
			"index", index,
			"action", step.Action.Name(),
			"status", status,
			"error", err)
	})

	var timer *time.Timer
	if e.Interval > 0 {
		timer = time.NewTimer(e.Interval)
		defer timer.Stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("executor: run interrupted: %w", err)
		}
		if e.MaxTicks > 0 && report.Ticks >= e.MaxTicks {
			log.Warn("executor: tick limit reached", "ticks", report.Ticks, "completed", report.Completed)
			return report, ErrTickLimit
		}

		report.Ticks++
		status, err := node.Tick()
		if err != nil || status == bt.Failure {
			if err == nil {
				err = ErrStepFailed
			}
			log.Warn("executor: run failed", "ticks", report.Ticks, "completed", report.Completed, "error", err)
			return report, err
		}
		if status == bt.Success {
			break
		}

		if timer != nil {
			timer.Reset(e.Interval)
			select {
			case <-ctx.Done():
				return report, fmt.Errorf("executor: run interrupted: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}

	final, err := source.WorldState()
	if err != nil {
		return report, fmt.Errorf("executor: reading final state: %w", err)
	}
	report.Final = final
	if !final.Contains(plan.Goal) {
		log.Warn("executor: goal not reached", "final", final, "goal", plan.Goal)
		return report, fmt.Errorf("%w: have %v, want %v", ErrGoalNotReached, final, plan.Goal)
	}

	log.Info("executor: run finished", "ticks", report.Ticks, "completed", report.Completed)
	return report, nil
}
