package goap

import (
	"container/heap"
)

// NoAction marks a [Step] that carries no action (the goal node).
const NoAction = -1

// Step is a search node of the backward search: a required state, and the
// index of the action that, played forward from State, leads to the node
// this step was regressed from.
//
// Only State identifies a step. Two steps with equal State and different
// Action are the same search node.
type Step struct {
	State  WorldState
	Action int
}

// HasAction reports whether the step carries an action.
func (s Step) HasAction() bool { return s.Action != NoAction }

// frontierItem is an entry in the search frontier. Entries are never
// updated in place; a cheaper arrival pushes a new entry and the old one
// is skipped when popped.
type frontierItem struct {
	step  Step
	cost  float64
	seq   uint64
	index int
}

// frontier is a min-heap on cost, ties broken by insertion order.
type frontier []*frontierItem

var _ heap.Interface = (*frontier)(nil)

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*f = old[:n-1]
	return item
}
