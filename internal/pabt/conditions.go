package pabt

import (
	pabtpkg "github.com/joeycumines/go-pabt"
)

// FactCondition holds when the fact named Name has the value Want. A fact
// missing from the blackboard counts as false.
type FactCondition struct {
	Name string
	Want bool
}

var _ pabtpkg.Condition = (*FactCondition)(nil)

// Key implements pabtpkg.Condition.
func (c *FactCondition) Key() any { return c.Name }

// Match implements pabtpkg.Condition.
func (c *FactCondition) Match(value any) bool {
	v, _ := value.(bool)
	return v == c.Want
}

func (c *FactCondition) String() string {
	if c.Want {
		return c.Name
	}
	return "!" + c.Name
}

// FactEffect sets a fact to a value.
type FactEffect struct {
	name  string
	value bool
}

var _ pabtpkg.Effect = (*FactEffect)(nil)

// NewFactEffect returns an effect setting the fact named name to value.
func NewFactEffect(name string, value bool) *FactEffect {
	return &FactEffect{name: name, value: value}
}

// Key implements pabtpkg.Effect.
func (e *FactEffect) Key() any { return e.name }

// Value implements pabtpkg.Effect.
func (e *FactEffect) Value() any { return e.value }
