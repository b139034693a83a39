// Package woodcutter is the reference planning domain: a character that
// needs wood, and can either collect branches or fetch an axe and chop.
//
// Each action is its own type implementing goap.Action, to show the action
// set is open. Character is the agent model the actions are executed
// against; it maps itself to planner facts with ToWorldState.
package woodcutter

import (
	"context"
	"errors"
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/goap/internal/goap"
)

// Facts of the domain, in universe order.
const (
	HasAxe goap.Fact = iota
	HasWood
	AxeAvailable
)

// ErrCannotPerform is returned when the character's real state does not
// allow an action, even though the planner expected it to.
var ErrCannotPerform = errors.New("woodcutter: cannot perform action")

// Universe returns the named fact universe of the domain.
func Universe() *goap.Universe {
	return goap.MustUniverse("HAS_AXE", "HAS_WOOD", "AXE_AVAILABLE")
}

// ChopWood needs an axe and yields wood.
type ChopWood struct{}

func (ChopWood) Name() string                 { return "ChopWood" }
func (ChopWood) Preconditions() goap.FactMask { return goap.Of(HasAxe) }
func (ChopWood) Effects() goap.FactMask       { return goap.Of(HasWood) }
func (ChopWood) Cost() float64                { return 4 }

// CollectBranches yields wood without tools, slowly.
type CollectBranches struct{}

func (CollectBranches) Name() string                 { return "CollectBranches" }
func (CollectBranches) Preconditions() goap.FactMask { return goap.New() }
func (CollectBranches) Effects() goap.FactMask       { return goap.Of(HasWood) }
func (CollectBranches) Cost() float64                { return 8 }

// GetAxe picks up an available axe.
type GetAxe struct{}

func (GetAxe) Name() string                 { return "GetAxe" }
func (GetAxe) Preconditions() goap.FactMask { return goap.Of(AxeAvailable) }
func (GetAxe) Effects() goap.FactMask       { return goap.Of(HasAxe) }
func (GetAxe) Cost() float64                { return 2 }

// Actions returns the domain's actions.
func Actions() []goap.Action {
	return []goap.Action{ChopWood{}, CollectBranches{}, GetAxe{}}
}

// Character is the agent model. It is not safe for concurrent use.
type Character struct {
	HasAxe        bool
	Wood          uint8
	AxesAvailable uint8
}

// ToWorldState derives the planner facts from the character.
func (c *Character) ToWorldState() goap.WorldState {
	s := goap.New()
	if c.HasAxe {
		s = s.With(HasAxe)
	}
	if c.Wood > 0 {
		s = s.With(HasWood)
	}
	if c.AxesAvailable > 0 {
		s = s.With(AxeAvailable)
	}
	return s
}

// WorldState implements the executor's state source.
func (c *Character) WorldState() (goap.WorldState, error) {
	return c.ToWorldState(), nil
}

// Perform carries out one action on the character. Every action completes
// within a single tick.
func (c *Character) Perform(_ context.Context, action goap.Action) (bt.Status, error) {
	switch action.(type) {
	case ChopWood:
		if !c.HasAxe {
			return bt.Failure, fmt.Errorf("%w: %s without an axe", ErrCannotPerform, action.Name())
		}
		c.Wood++
	case CollectBranches:
		c.Wood++
	case GetAxe:
		if c.HasAxe || c.AxesAvailable == 0 {
			return bt.Failure, fmt.Errorf("%w: %s (holding=%v, available=%d)", ErrCannotPerform, action.Name(), c.HasAxe, c.AxesAvailable)
		}
		c.HasAxe = true
		c.AxesAvailable--
	default:
		return bt.Failure, fmt.Errorf("%w: unknown action %s", ErrCannotPerform, action.Name())
	}
	return bt.Success, nil
}
