// Package statemap derives planner facts from agent variables with
// expr-lang expressions, and computes variable updates for simulated
// actions.
//
// A rule such as
//
//	HAS_WOOD: wood > 0
//
// sets the fact when the expression is true of the agent's variables. The
// expressions see the variables as top-level identifiers; an identifier the
// agent does not define evaluates to nil. A bare identifier always names a
// variable, even one called count or len, while calls such as len(items)
// still reach the expr-lang builtins.
package statemap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/joeycumines/goap/internal/goap"
)

// ErrNotBool is returned when a rule's expression yields a non-boolean.
var ErrNotBool = errors.New("statemap: rule did not yield a boolean")

// Rules maps fact names to boolean expressions.
type Rules map[string]string

type rule struct {
	fact       goap.Fact
	name       string
	expression string
	program    *vm.Program
}

// Mapper evaluates compiled rules. It is safe for concurrent use.
type Mapper struct {
	universe *goap.Universe
	rules    []rule
}

func compile(expression string, asBool bool) (*vm.Program, error) {
	key := "any:" + expression
	opts := []expr.Option{expr.Env(map[string]any{}), expr.AllowUndefinedVariables()}
	if asBool {
		key = "bool:" + expression
		opts = append(opts, expr.AsBool())
	}
	if program, ok := programs.Get(key); ok {
		return program, nil
	}
	for _, name := range identifiers(expression) {
		opts = append(opts, expr.DisableBuiltin(name))
	}
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}
	programs.Put(key, program)
	return program, nil
}

// identifiers returns the bare identifiers of expression. Builtin calls
// parse to their own node type, so they are not included. The key of a
// cached program is derived from the expression alone, as this set is.
func identifiers(expression string) []string {
	tree, err := parser.Parse(expression)
	if err != nil {
		// expr.Compile reports it
		return nil
	}
	var v identifierVisitor
	ast.Walk(&tree.Node, &v)
	return v.names
}

type identifierVisitor struct {
	names []string
}

func (v *identifierVisitor) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IdentifierNode); ok {
		v.names = append(v.names, n.Value)
	}
}

// Compile checks every rule against universe and compiles its expression.
// Facts with no rule are always false.
func Compile(universe *goap.Universe, rules Rules) (*Mapper, error) {
	m := &Mapper{universe: universe, rules: make([]rule, 0, len(rules))}
	for name, expression := range rules {
		f, ok := universe.Fact(name)
		if !ok {
			return nil, fmt.Errorf("statemap: rule %q: %w", name, goap.ErrUnknownFact)
		}
		program, err := compile(expression, true)
		if err != nil {
			return nil, fmt.Errorf("statemap: rule %q: %w", name, err)
		}
		m.rules = append(m.rules, rule{fact: f, name: name, expression: expression, program: program})
	}
	sort.Slice(m.rules, func(i, j int) bool { return m.rules[i].fact < m.rules[j].fact })
	return m, nil
}

// Universe returns the universe the rules were compiled against.
func (m *Mapper) Universe() *goap.Universe { return m.universe }

// Len returns the number of rules.
func (m *Mapper) Len() int { return len(m.rules) }

// Map evaluates every rule against env.
func (m *Mapper) Map(env map[string]any) (goap.WorldState, error) {
	if env == nil {
		env = map[string]any{}
	}
	s := goap.New()
	for _, r := range m.rules {
		out, err := expr.Run(r.program, env)
		if err != nil {
			return 0, fmt.Errorf("statemap: rule %q (%s): %w", r.name, r.expression, err)
		}
		v, ok := out.(bool)
		if !ok {
			return 0, fmt.Errorf("%w: rule %q (%s) yielded %T", ErrNotBool, r.name, r.expression, out)
		}
		if v {
			s = s.With(r.fact)
		}
	}
	return s, nil
}

type assignment struct {
	variable   string
	expression string
	program    *vm.Program
}

// Assign is a compiled set of variable updates.
type Assign struct {
	assignments []assignment
}

// CompileAssign compiles updates given as variable to expression.
func CompileAssign(updates map[string]string) (*Assign, error) {
	a := &Assign{assignments: make([]assignment, 0, len(updates))}
	for variable, expression := range updates {
		if variable == "" {
			return nil, errors.New("statemap: assignment to empty variable name")
		}
		program, err := compile(expression, false)
		if err != nil {
			return nil, fmt.Errorf("statemap: assignment %q: %w", variable, err)
		}
		a.assignments = append(a.assignments, assignment{variable: variable, expression: expression, program: program})
	}
	sort.Slice(a.assignments, func(i, j int) bool { return a.assignments[i].variable < a.assignments[j].variable })
	return a, nil
}

// Len returns the number of assignments.
func (a *Assign) Len() int { return len(a.assignments) }

// Eval evaluates every right-hand side against the same env and returns
// the new values. env is not modified.
func (a *Assign) Eval(env map[string]any) (map[string]any, error) {
	if env == nil {
		env = map[string]any{}
	}
	out := make(map[string]any, len(a.assignments))
	for _, as := range a.assignments {
		v, err := expr.Run(as.program, env)
		if err != nil {
			return nil, fmt.Errorf("statemap: assignment %q (%s): %w", as.variable, as.expression, err)
		}
		out[as.variable] = v
	}
	return out, nil
}
