package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/goap"
)

// PlanCommand finds the cheapest plan for a domain and prints it.
type PlanCommand struct {
	*BaseCommand
	domainOptions
	start         factList
	goal          factList
	exactStart    bool
	maxExpansions int
	trace         bool
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand(cfg *config.Config) *PlanCommand {
	return &PlanCommand{
		BaseCommand: NewBaseCommand(
			"plan",
			"Find the cheapest plan from a domain's start to its goal",
			"plan [options] [domain-file]",
		),
		domainOptions: newDomainOptions(cfg),
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	c.setupFlags(fs)
	fs.Var(&c.start, "start", "Comma separated facts true at the start, overriding the domain")
	fs.Var(&c.goal, "goal", "Comma separated facts to achieve, overriding the domain")
	fs.BoolVar(&c.exactStart, "exact-start", false, "Only stop at a node equal to the start state")
	fs.IntVar(&c.maxExpansions, "max-expansions", 0, "Max search nodes expanded, 0 for the planner.max-expansions option")
	fs.BoolVar(&c.trace, "trace", false, "Log every search event")
}

// Execute plans and prints the result. A goal that cannot be reached
// prints "no plan" and returns an error wrapping goap.ErrNoPlan.
func (c *PlanCommand) Execute(args []string, stdout, stderr io.Writer) error {
	lc, err := resolveLogConfig(c.logPath, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer lc.close()
	log := lc.logger(stderr)

	file, err := c.load(args)
	if err != nil {
		return err
	}
	compiled, err := file.Build()
	if err != nil {
		return err
	}
	start, err := c.start.resolve(compiled.Universe, compiled.Start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	goal, err := c.goal.resolve(compiled.Universe, compiled.Goal)
	if err != nil {
		return fmt.Errorf("-goal: %w", err)
	}

	opts, err := c.plannerOptions(c.maxExpansions, c.exactStart)
	if err != nil {
		return err
	}
	trace := c.trace
	if !trace {
		if trace, err = config.DefaultSchema().ResolveCommandBool(c.config, "plan", "trace"); err != nil {
			return err
		}
	}
	if trace {
		opts = append(opts, goap.WithObserver(&goap.SlogObserver{
			Logger:   log,
			Level:    slog.LevelInfo,
			Universe: compiled.Universe,
		}))
	}

	ctx, cancel := c.context()
	defer cancel()

	_, _ = fmt.Fprintf(stdout, "domain: %s\n", compiled.Name)
	_, _ = fmt.Fprintf(stdout, "start: %s\n", compiled.Universe.Format(start))
	_, _ = fmt.Fprintf(stdout, "goal: %s\n", compiled.Universe.Format(goal))

	plan, err := goap.NewPlanner(opts...).FindPath(ctx, start, goal, compiled.Actions)
	if errors.Is(err, goap.ErrNoPlan) {
		_, _ = fmt.Fprintln(stdout, "no plan")
		return err
	}
	if err != nil {
		return err
	}
	log.Debug("[Plan] plan found", "domain", compiled.Name, "plan", plan.String(), "expanded", plan.Expanded)
	printPlan(stdout, plan)
	return nil
}

func printPlan(w io.Writer, plan *goap.Plan) {
	if plan.Empty() {
		_, _ = fmt.Fprintln(w, "plan: goal already satisfied (cost 0)")
		return
	}
	_, _ = fmt.Fprintf(w, "plan: cost %g, %d step(s), %d node(s) expanded\n", plan.Cost, plan.Len(), plan.Expanded)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i, step := range plan.Steps {
		_, _ = fmt.Fprintf(tw, "  %d.\t%s\tcost %g\n", i+1, step.Action.Name(), step.Action.Cost())
	}
	_ = tw.Flush()
}
