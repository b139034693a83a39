package goap

import (
	"context"
	"log/slog"
)

// Observer receives search events from [Planner.FindPath].
// Calls happen synchronously on the searching goroutine.
type Observer interface {
	// Expanded is called before the predecessors of node are generated.
	Expanded(node Step, cost float64)
	// Discovered is called when node is reached with a new best cost.
	Discovered(node Step, action Action, cost float64)
	// Settled is called when the cost of node becomes final.
	Settled(node Step, cost float64)
}

// observerEnabler may be implemented by an [Observer] to opt out of a
// search entirely. It is consulted once per FindPath call.
type observerEnabler interface {
	Enabled(ctx context.Context) bool
}

// SlogObserver logs search events as structured records.
type SlogObserver struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Level defaults to slog.LevelDebug.
	Level slog.Leveler
	// Universe, if set, is used to name facts.
	Universe *Universe
}

var _ Observer = (*SlogObserver)(nil)

func (o *SlogObserver) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *SlogObserver) level() slog.Level {
	if o.Level == nil {
		return slog.LevelDebug
	}
	return o.Level.Level()
}

// Enabled reports whether the logger would emit at the configured level.
func (o *SlogObserver) Enabled(ctx context.Context) bool {
	return o.logger().Enabled(ctx, o.level())
}

func (o *SlogObserver) state(s WorldState) string {
	if o.Universe != nil {
		return o.Universe.Format(s)
	}
	return s.String()
}

func (o *SlogObserver) Expanded(node Step, cost float64) {
	o.logger().Log(context.Background(), o.level(), "goap: expand",
		"state", o.state(node.State),
		"cost", cost)
}

func (o *SlogObserver) Discovered(node Step, action Action, cost float64) {
	o.logger().Log(context.Background(), o.level(), "goap: discover",
		"state", o.state(node.State),
		"action", action.Name(),
		"cost", cost)
}

// Settled logs the index of the step's action within the searched slice,
// as the action itself is not passed to it.
func (o *SlogObserver) Settled(node Step, cost float64) {
	attrs := []any{"state", o.state(node.State)}
	if node.HasAction() {
		attrs = append(attrs, "action_index", node.Action)
	}
	attrs = append(attrs, "cost", cost)
	o.logger().Log(context.Background(), o.level(), "goap: settle", attrs...)
}
