package pabt

import (
	"fmt"
	"sort"
	"sync"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"
	"github.com/joeycumines/goap/internal/goap"
)

// ActionRegistry is a thread-safe set of actions keyed by name.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]*Action)}
}

// Register adds an action, replacing any with the same name.
func (r *ActionRegistry) Register(action *Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[action.Name()] = action
}

// Get returns the action with the given name, or nil.
func (r *ActionRegistry) Get(name string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Len returns the number of registered actions.
func (r *ActionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// All returns the actions sorted by name, so that tree expansion is
// reproducible.
func (r *ActionRegistry) All() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Action, 0, len(names))
	for _, name := range names {
		out = append(out, r.actions[name])
	}
	return out
}

// Action adapts a goap.Action to pabtpkg.IAction.
type Action struct {
	action     goap.Action
	conditions []pabtpkg.IConditions
	effects    pabtpkg.Effects
	node       bt.Node
}

var _ pabtpkg.IAction = (*Action)(nil)

// NewAction builds the PA-BT form of action. Its conditions are one group
// requiring every precondition fact, and its effects set every effect fact.
// The node performs the action; it panics if nil.
func NewAction(universe *goap.Universe, action goap.Action, node bt.Node) *Action {
	if node == nil {
		panic(fmt.Sprintf("pabt.NewAction: nil node (action=%s)", action.Name()))
	}

	conditions := []pabtpkg.IConditions{}
	if pre := action.Preconditions().Facts(); len(pre) > 0 {
		group := make(pabtpkg.IConditions, len(pre))
		for i, f := range pre {
			group[i] = &FactCondition{Name: universe.Name(f), Want: true}
		}
		conditions = append(conditions, group)
	}

	effects := pabtpkg.Effects{}
	for _, f := range action.Effects().Facts() {
		effects = append(effects, NewFactEffect(universe.Name(f), true))
	}

	return &Action{
		action:     action,
		conditions: conditions,
		effects:    effects,
		node:       node,
	}
}

// Name returns the wrapped action's name.
func (a *Action) Name() string { return a.action.Name() }

// Goap returns the wrapped action.
func (a *Action) Goap() goap.Action { return a.action }

// Conditions implements pabtpkg.IAction.
func (a *Action) Conditions() []pabtpkg.IConditions { return a.conditions }

// Effects implements pabtpkg.IAction.
func (a *Action) Effects() pabtpkg.Effects { return a.effects }

// Node implements pabtpkg.IAction.
func (a *Action) Node() bt.Node { return a.node }
