// Package domain loads planning domains from YAML files.
//
// A domain names its facts, the agent's initial variables, the rules that
// derive facts from those variables, a goal, and the actions available:
//
//	name: woodcutter
//	facts: [HAS_AXE, HAS_WOOD, AXE_AVAILABLE]
//	agent: {has_axe: false, wood: 0, axes_available: 1}
//	derive:
//	  HAS_WOOD: wood > 0
//	goal: [HAS_WOOD]
//	actions:
//	  - name: CollectBranches
//	    effects: [HAS_WOOD]
//	    cost: 8
//	    apply: {wood: wood + 1}
//
// A fact with no derive rule is tracked as a boolean agent variable of the
// same name, which the action's effects set. Such facts must be valid
// expression identifiers. A start list, when present, is used as the
// planning start instead of the derived state, and seeds those flags.
package domain

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/joeycumines/goap/internal/goap"
	"github.com/joeycumines/goap/internal/statemap"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("domain: invalid")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// File is the YAML form of a domain.
type File struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Facts       []string          `yaml:"facts"`
	Agent       map[string]any    `yaml:"agent,omitempty"`
	Derive      map[string]string `yaml:"derive,omitempty"`
	Start       []string          `yaml:"start,omitempty"`
	Goal        []string          `yaml:"goal"`
	Actions     []ActionSpec      `yaml:"actions"`
}

// ActionSpec is the YAML form of an action.
type ActionSpec struct {
	Name    string   `yaml:"name"`
	Pre     []string `yaml:"pre,omitempty"`
	Effects []string `yaml:"effects"`
	Cost    float64  `yaml:"cost"`
	// Ticks is how many extra ticks the simulated action stays running.
	Ticks int `yaml:"ticks,omitempty"`
	// Apply updates agent variables when the simulated action completes.
	Apply map[string]string `yaml:"apply,omitempty"`
}

// Load reads and validates a domain file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("domain: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a domain. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("domain: decoding: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every structural problem in the domain at once.
// Expressions are only checked by Build.
func (f *File) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if strings.TrimSpace(f.Name) == "" {
		add("missing name")
	}

	facts := make(map[string]bool, len(f.Facts))
	if _, err := goap.NewUniverse(f.Facts...); err != nil {
		add("facts: %v", err)
	}
	for _, name := range f.Facts {
		facts[name] = true
	}
	for name := range f.Derive {
		if !facts[name] {
			add("derive: unknown fact %q", name)
		}
	}
	for _, name := range f.Facts {
		if _, derived := f.Derive[name]; !derived && !identifier.MatchString(name) {
			add("fact %q has no derive rule and is not a valid identifier", name)
		}
	}

	checkFacts := func(where string, names []string) {
		for _, name := range names {
			if !facts[name] {
				add("%s: unknown fact %q", where, name)
			}
		}
	}
	checkFacts("start", f.Start)
	checkFacts("goal", f.Goal)

	seen := make(map[string]bool, len(f.Actions))
	for i, a := range f.Actions {
		where := fmt.Sprintf("action %d (%s)", i, a.Name)
		switch {
		case strings.TrimSpace(a.Name) == "":
			add("action %d: missing name", i)
		case seen[a.Name]:
			add("%s: duplicate name", where)
		}
		seen[a.Name] = true
		checkFacts(where+" pre", a.Pre)
		checkFacts(where+" effects", a.Effects)
		if err := goap.ValidateCost(a.Cost); err != nil {
			add("%s: %v", where, err)
		}
		if a.Ticks < 0 {
			add("%s: negative ticks", where)
		}
	}

	return errors.Join(errs...)
}

// Compiled is a domain ready for planning and simulation.
type Compiled struct {
	Name     string
	Universe *goap.Universe
	Actions  []goap.Action
	Start    goap.WorldState
	Goal     goap.WorldState
	Mapper   *statemap.Mapper

	agent   map[string]any
	applies map[string]*statemap.Assign
	ticks   map[string]int
}

// Build compiles a validated domain. The start state is the explicit start
// list when present, and otherwise derived from the agent's variables.
func (f *File) Build() (*Compiled, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	u, err := goap.NewUniverse(f.Facts...)
	if err != nil {
		return nil, err
	}

	c := &Compiled{
		Name:     f.Name,
		Universe: u,
		Actions:  make([]goap.Action, 0, len(f.Actions)),
		agent:    make(map[string]any, len(f.Agent)+len(f.Facts)),
		applies:  make(map[string]*statemap.Assign, len(f.Actions)),
		ticks:    make(map[string]int, len(f.Actions)),
	}

	var explicit goap.WorldState
	if f.Start != nil {
		if explicit, err = u.Parse(f.Start); err != nil {
			return nil, err
		}
	}

	for k, v := range f.Agent {
		c.agent[k] = v
	}
	rules := make(statemap.Rules, len(f.Facts))
	for i, name := range f.Facts {
		if rule, ok := f.Derive[name]; ok {
			rules[name] = rule
			continue
		}
		rules[name] = name + " == true"
		if _, ok := c.agent[name]; !ok {
			c.agent[name] = explicit.Has(goap.Fact(i))
		}
	}
	if c.Mapper, err = statemap.Compile(u, rules); err != nil {
		return nil, fmt.Errorf("domain %s: %w", f.Name, err)
	}

	for _, spec := range f.Actions {
		pre, err := u.Parse(spec.Pre)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", spec.Name, err)
		}
		eff, err := u.Parse(spec.Effects)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", spec.Name, err)
		}
		a, err := goap.NewAction(spec.Name, pre, eff, spec.Cost)
		if err != nil {
			return nil, err
		}
		apply, err := statemap.CompileAssign(f.flagUpdates(spec))
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", spec.Name, err)
		}
		c.Actions = append(c.Actions, a)
		c.applies[spec.Name] = apply
		c.ticks[spec.Name] = spec.Ticks
	}

	if c.Goal, err = u.Parse(f.Goal); err != nil {
		return nil, err
	}
	if f.Start != nil {
		c.Start = explicit
	} else if c.Start, err = c.Mapper.Map(c.agent); err != nil {
		return nil, fmt.Errorf("domain %s: deriving start: %w", f.Name, err)
	}
	return c, nil
}

// flagUpdates returns the action's apply block plus an assignment setting
// each underived effect fact.
func (f *File) flagUpdates(spec ActionSpec) map[string]string {
	out := make(map[string]string, len(spec.Apply)+len(spec.Effects))
	for k, v := range spec.Apply {
		out[k] = v
	}
	for _, name := range spec.Effects {
		if _, derived := f.Derive[name]; !derived {
			out[name] = "true"
		}
	}
	return out
}

// Action returns the compiled action with the given name.
func (c *Compiled) Action(name string) (goap.Action, bool) {
	for _, a := range c.Actions {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Agent returns a copy of the agent's initial variables, including the
// flags of underived facts.
func (c *Compiled) Agent() map[string]any {
	out := make(map[string]any, len(c.agent))
	for k, v := range c.agent {
		out[k] = v
	}
	return out
}

// ActionNames returns the action names sorted.
func (c *Compiled) ActionNames() []string {
	out := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		out[i] = a.Name()
	}
	sort.Strings(out)
	return out
}
