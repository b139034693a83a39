/*
Package goap implements goal-oriented action planning over a closed universe
of boolean facts.

# Model

A [WorldState] is a 64-bit set of facts. An [Action] declares the facts it
requires ([Action.Preconditions]), the facts it guarantees afterward
([Action.Effects]) and a fixed, non-negative [Action.Cost]. The set of action
kinds is open: anything implementing [Action] can be planned with.

Forward application adds an action's effects to a state that contains its
preconditions. Regression runs the other way: for a required state that
contains an action's effects, the state required before the action is

	(required - effects) | preconditions

# Search

[Planner.FindPath] runs a Dijkstra search backward from the goal. Nodes are
[Step] values identified by their required state alone; the action stored on
a step is bookkeeping used to rebuild the plan. The search stops at the first
settled node whose required facts all hold in the start state, and the plan
is the chain of actions from that node back to the goal, which is already in
execution order.

Ties in accumulated cost go to the node discovered first, so for a fixed
action order the chosen plan is stable. Different action orders may select
different plans of the same cost; both are optimal.

An action is a backward edge only into a required state that holds all of
its effects. With single-fact effects this loses no plans; an action with
several effects is only chosen when every one of them is required.

# Bounds

The fact universe is capped at [MaxFacts]. The reachable state space is at
most 2^n for n facts referenced by the actions, which is small for the
hand-authored domains this package targets. [WithMaxExpansions] and context
cancellation bound the search when that is not the case.

# Concurrency

A [Planner] holds only configuration. Every FindPath call allocates its own
frontier and settled set, so one Planner and one action slice may be shared
by concurrent callers as long as the actions themselves are immutable.
*/
package goap
