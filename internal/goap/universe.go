package goap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownFact is returned when a fact name is not part of a [Universe].
var ErrUnknownFact = errors.New("goap: unknown fact")

// Universe is the closed, enumerated set of named facts a domain plans over.
// It is fixed once constructed. Fact indexes follow declaration order.
type Universe struct {
	names []string
	index map[string]Fact
}

// NewUniverse declares the named facts, in order. Names must be non-empty
// and unique, and there can be at most [MaxFacts] of them.
func NewUniverse(names ...string) (*Universe, error) {
	if len(names) > MaxFacts {
		return nil, fmt.Errorf("goap: %d facts declared, at most %d supported", len(names), MaxFacts)
	}
	u := &Universe{
		names: make([]string, len(names)),
		index: make(map[string]Fact, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("goap: fact %d has an empty name", i)
		}
		if _, ok := u.index[name]; ok {
			return nil, fmt.Errorf("goap: duplicate fact name %q", name)
		}
		u.names[i] = name
		u.index[name] = Fact(i)
	}
	return u, nil
}

// MustUniverse is like [NewUniverse] but panics on error.
func MustUniverse(names ...string) *Universe {
	u, err := NewUniverse(names...)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the number of declared facts.
func (u *Universe) Len() int { return len(u.names) }

// Names returns the fact names in declaration order.
func (u *Universe) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Fact looks up a fact by name.
func (u *Universe) Fact(name string) (Fact, bool) {
	f, ok := u.index[name]
	return f, ok
}

// Name returns the name of f, or "#n" for an undeclared index.
func (u *Universe) Name(f Fact) string {
	if int(f) < len(u.names) {
		return u.names[f]
	}
	return "#" + strconv.Itoa(int(f))
}

// All returns the state with every declared fact set.
func (u *Universe) All() WorldState {
	if len(u.names) == MaxFacts {
		return ^WorldState(0)
	}
	return WorldState(1)<<len(u.names) - 1
}

// Parse builds the state containing the named facts.
func (u *Universe) Parse(names []string) (WorldState, error) {
	var s WorldState
	for _, name := range names {
		f, ok := u.index[strings.TrimSpace(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFact, name)
		}
		s = s.With(f)
	}
	return s, nil
}

// Format renders s as "{NAME, ...}" in declaration order.
func (u *Universe) Format(s WorldState) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Facts() {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(u.Name(f))
	}
	b.WriteByte('}')
	return b.String()
}
