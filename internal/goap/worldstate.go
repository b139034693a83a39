package goap

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxFacts is the size of the fact universe.
const MaxFacts = 64

// Fact indexes a single boolean proposition within a [WorldState].
// Valid facts are in [0, MaxFacts).
type Fact uint8

// WorldState is an immutable set of facts, held as a bitmask.
// The zero value is the empty state. Two states are equal iff every fact
// agrees, so WorldState may be compared with == and used as a map key.
type WorldState uint64

// FactMask is the type of action preconditions and effects.
type FactMask = WorldState

// New returns the empty state.
func New() WorldState { return 0 }

// WithState returns the state whose bits are exactly mask.
func WithState(mask uint64) WorldState { return WorldState(mask) }

// Of returns the state containing exactly the given facts.
// It panics if a fact is out of range.
func Of(facts ...Fact) WorldState {
	var s WorldState
	for _, f := range facts {
		s = s.With(f)
	}
	return s
}

// Union returns a | b.
func Union(a, b WorldState) WorldState { return a | b }

// Difference returns a with every fact in b cleared.
func Difference(a, b WorldState) WorldState { return a &^ b }

// Contains reports whether every fact set in b is also set in a.
func Contains(a, b WorldState) bool { return a&b == b }

// Contains reports whether every fact in other is also in s.
func (s WorldState) Contains(other WorldState) bool { return Contains(s, other) }

// Union returns s with every fact in other set.
func (s WorldState) Union(other WorldState) WorldState { return Union(s, other) }

// Difference returns s with every fact in other cleared.
func (s WorldState) Difference(other WorldState) WorldState { return Difference(s, other) }

// Has reports whether f is set.
func (s WorldState) Has(f Fact) bool {
	return f < MaxFacts && s&(1<<f) != 0
}

// With returns s with f set. It panics if f is out of range.
func (s WorldState) With(f Fact) WorldState {
	if f >= MaxFacts {
		panic("goap: fact out of range: " + strconv.Itoa(int(f)))
	}
	return s | 1<<f
}

// Without returns s with f cleared.
func (s WorldState) Without(f Fact) WorldState {
	if f >= MaxFacts {
		return s
	}
	return s &^ (1 << f)
}

// IsEmpty reports whether no fact is set.
func (s WorldState) IsEmpty() bool { return s == 0 }

// Len returns the number of facts set.
func (s WorldState) Len() int { return bits.OnesCount64(uint64(s)) }

// Bits returns the raw bitmask.
func (s WorldState) Bits() uint64 { return uint64(s) }

// Facts returns the set facts in ascending order.
func (s WorldState) Facts() []Fact {
	if s == 0 {
		return nil
	}
	out := make([]Fact, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, Fact(bits.TrailingZeros64(v)))
	}
	return out
}

// String formats the state as the set of fact indexes, e.g. "{#0, #2}".
// Use [Universe.Format] for named output.
func (s WorldState) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Facts() {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(int(f)))
	}
	b.WriteByte('}')
	return b.String()
}
