package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/goap/internal/goap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	factA goap.Fact = iota
	factB
	factC
)

// agent is a fact set that actions are applied to, taking a configurable
// number of ticks each.
type agent struct {
	state     goap.WorldState
	ticks     map[string]int
	remaining map[string]int
	performed []string
	fail      map[string]error
	sabotage  func(name string, s goap.WorldState) goap.WorldState
}

func newAgent(start goap.WorldState) *agent {
	return &agent{
		state:     start,
		ticks:     map[string]int{},
		remaining: map[string]int{},
		fail:      map[string]error{},
	}
}

func (a *agent) WorldState() (goap.WorldState, error) { return a.state, nil }

func (a *agent) Perform(_ context.Context, action goap.Action) (bt.Status, error) {
	name := action.Name()
	if err := a.fail[name]; err != nil {
		return bt.Failure, err
	}
	if _, ok := a.remaining[name]; !ok {
		a.remaining[name] = a.ticks[name]
	}
	if a.remaining[name] > 0 {
		a.remaining[name]--
		return bt.Running, nil
	}
	delete(a.remaining, name)
	a.state = a.state.Union(action.Effects())
	if a.sabotage != nil {
		a.state = a.sabotage(name, a.state)
	}
	a.performed = append(a.performed, name)
	return bt.Success, nil
}

func chain(t *testing.T) *goap.Plan {
	t.Helper()
	actions := []goap.Action{
		goap.MustAction("MakeB", goap.Of(factA), goap.Of(factB), 1),
		goap.MustAction("MakeC", goap.Of(factB), goap.Of(factC), 1),
		goap.MustAction("MakeA", goap.New(), goap.Of(factA), 1),
	}
	plan, err := goap.FindPath(context.Background(), goap.New(), goap.Of(factC), actions)
	require.NoError(t, err)
	require.Equal(t, []string{"MakeA", "MakeB", "MakeC"}, plan.Names())
	return plan
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestExecutor_RunsPlanInOrder(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())

	report, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"MakeA", "MakeB", "MakeC"}, a.performed)
	assert.Equal(t, 3, report.Completed)
	assert.Equal(t, 1, report.Ticks)
	assert.Equal(t, goap.Of(factA, factB, factC), report.Final)
	assert.NotEmpty(t, report.RunID)
}

func TestExecutor_RunningStepsSpanTicks(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	a.ticks["MakeB"] = 2

	report, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.NoError(t, err)
	// each step runs exactly once, even though the sequence is re-ticked
	assert.Equal(t, []string{"MakeA", "MakeB", "MakeC"}, a.performed)
	assert.Equal(t, 3, report.Ticks)
}

func TestExecutor_EmptyPlan(t *testing.T) {
	t.Parallel()

	plan, err := goap.FindPath(context.Background(), goap.Of(factC), goap.Of(factC), nil)
	require.NoError(t, err)
	require.True(t, plan.Empty())

	a := newAgent(goap.Of(factC))
	report, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Completed)
	assert.Empty(t, a.performed)
}

func TestExecutor_StepInvalidated(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	// MakeA's effect is lost before MakeB can start
	a.sabotage = func(name string, s goap.WorldState) goap.WorldState {
		if name == "MakeA" {
			return s.Without(factA)
		}
		return s
	}

	report, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.ErrorIs(t, err, ErrStepInvalidated)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, []string{"MakeA"}, a.performed)
}

func TestExecutor_PerformerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	plan := chain(t)
	a := newAgent(goap.New())
	a.fail["MakeB"] = boom

	_, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "MakeB")
}

type failingPerformer struct{}

func (failingPerformer) Perform(context.Context, goap.Action) (bt.Status, error) {
	return bt.Failure, nil
}

func TestExecutor_FailureWithoutError(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	_, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, failingPerformer{})
	require.ErrorIs(t, err, ErrStepFailed)
}

func TestExecutor_GoalNotReached(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	a.sabotage = func(name string, s goap.WorldState) goap.WorldState {
		if name == "MakeC" {
			return s.Without(factC)
		}
		return s
	}

	report, err := (&Executor{Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.ErrorIs(t, err, ErrGoalNotReached)
	assert.Equal(t, 3, report.Completed)
	assert.Equal(t, goap.Of(factA, factB), report.Final)
}

func TestExecutor_TickLimit(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	a.ticks["MakeA"] = 10

	report, err := (&Executor{MaxTicks: 3, Logger: quietLogger()}).Run(context.Background(), plan, a, a)
	require.ErrorIs(t, err, ErrTickLimit)
	assert.Equal(t, 3, report.Ticks)
	assert.Equal(t, 0, report.Completed)
}

func TestExecutor_Cancelled(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())
	a.ticks["MakeA"] = 1000

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := (&Executor{Interval: time.Millisecond, Logger: quietLogger()}).Run(ctx, plan, a, a)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewPlanNode_ReportsSteps(t *testing.T) {
	t.Parallel()

	plan := chain(t)
	a := newAgent(goap.New())

	var got []int
	node := NewPlanNode(context.Background(), plan, a, a, func(index int, _ goap.PlanStep, status bt.Status, err error) {
		assert.Equal(t, bt.Success, status)
		assert.NoError(t, err)
		got = append(got, index)
	})

	status, err := node.Tick()
	require.NoError(t, err)
	require.Equal(t, bt.Success, status)
	require.Equal(t, []int{0, 1, 2}, got)
}
