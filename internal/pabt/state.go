package pabt

import (
	"fmt"
	"log/slog"

	pabtpkg "github.com/joeycumines/go-pabt"
	btmod "github.com/joeycumines/goap/internal/bt"
	"github.com/joeycumines/goap/internal/executor"
	"github.com/joeycumines/goap/internal/goap"
)

var _ pabtpkg.IState = (*State)(nil)

// State implements pabtpkg.IState over a blackboard holding one boolean per
// fact name, and serves the actions registered with it.
type State struct {
	*btmod.Blackboard

	universe *goap.Universe
	actions  *ActionRegistry
}

// NewState creates a State backed by bb, with every fact of universe
// initially false.
func NewState(bb *btmod.Blackboard, universe *goap.Universe) *State {
	s := &State{
		Blackboard: bb,
		universe:   universe,
		actions:    NewActionRegistry(),
	}
	s.Store(goap.New())
	return s
}

// Universe returns the fact universe the blackboard keys come from.
func (s *State) Universe() *goap.Universe { return s.universe }

// Variable implements pabtpkg.IState. Keys are fact names; anything else is
// an error. A name missing from the blackboard yields (nil, nil).
func (s *State) Variable(key any) (any, error) {
	var name string
	switch k := key.(type) {
	case string:
		name = k
	case goap.Fact:
		name = s.universe.Name(k)
	case fmt.Stringer:
		name = k.String()
	default:
		return nil, fmt.Errorf("pabt: unsupported key type %T", key)
	}
	return s.Get(name), nil
}

// Actions implements pabtpkg.IState. It returns the registered actions with
// an effect that satisfies failed, in name order. A nil condition returns
// every action.
func (s *State) Actions(failed pabtpkg.Condition) ([]pabtpkg.IAction, error) {
	all := s.actions.All()
	out := make([]pabtpkg.IAction, 0, len(all))
	for _, a := range all {
		if failed == nil || satisfies(a, failed) {
			out = append(out, a)
		}
	}
	if failed != nil {
		slog.Debug("[PA-BT] actions", "key", failed.Key(), "count", len(out))
	}
	return out, nil
}

func satisfies(a pabtpkg.IAction, failed pabtpkg.Condition) bool {
	key := failed.Key()
	for _, e := range a.Effects() {
		if e != nil && e.Key() == key && failed.Match(e.Value()) {
			return true
		}
	}
	return false
}

// RegisterAction adds an action to the state's registry.
func (s *State) RegisterAction(action *Action) {
	s.actions.Register(action)
}

// Registry returns the state's action registry.
func (s *State) Registry() *ActionRegistry { return s.actions }

// Store writes every fact of the universe to the blackboard.
func (s *State) Store(ws goap.WorldState) {
	facts := make(map[string]any, s.universe.Len())
	for i, name := range s.universe.Names() {
		facts[name] = ws.Has(goap.Fact(i))
	}
	s.Merge(facts)
}

// Load reads the universe's facts back from the blackboard.
func (s *State) Load() goap.WorldState {
	ws := goap.New()
	for i, name := range s.universe.Names() {
		if s.GetBool(name) {
			ws = ws.With(goap.Fact(i))
		}
	}
	return ws
}

// Sync refreshes the blackboard from source.
func (s *State) Sync(source executor.StateSource) error {
	ws, err := source.WorldState()
	if err != nil {
		return fmt.Errorf("pabt: syncing state: %w", err)
	}
	s.Store(ws)
	return nil
}
