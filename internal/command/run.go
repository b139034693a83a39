package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
	"github.com/joeycumines/goap/internal/executor"
	"github.com/joeycumines/goap/internal/goap"
	"github.com/joeycumines/goap/internal/pabt"
)

// Execution modes of the run command.
const (
	ModePlan     = "plan"
	ModeReactive = "reactive"
)

// ErrInvalidMode is returned for an unknown -mode.
var ErrInvalidMode = errors.New("invalid mode")

// RunCommand plans for a domain and executes the result against a
// simulated agent, or pursues the goal reactively.
type RunCommand struct {
	*BaseCommand
	domainOptions
	goal          factList
	mode          string
	interval      time.Duration
	maxTicks      int
	exactStart    bool
	maxExpansions int
}

// NewRunCommand creates a new run command.
func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Execute a domain's goal against a simulated agent",
			"run [options] [domain-file]",
		),
		domainOptions: newDomainOptions(cfg),
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	c.setupFlags(fs)
	fs.Var(&c.goal, "goal", "Comma separated facts to achieve, overriding the domain")
	fs.StringVar(&c.mode, "mode", "", "Execution mode: plan (plan once, then execute) or reactive (PA-BT)")
	fs.DurationVar(&c.interval, "interval", 0, "Delay between ticks, 0 for the executor.interval option")
	fs.IntVar(&c.maxTicks, "max-ticks", 0, "Max ticks, 0 for the executor.max-ticks option")
	fs.BoolVar(&c.exactStart, "exact-start", false, "Only stop at a node equal to the start state")
	fs.IntVar(&c.maxExpansions, "max-expansions", 0, "Max search nodes expanded, 0 for the planner.max-expansions option")
}

// Execute runs the simulation and prints the outcome. The final state is
// printed even when the run fails.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	lc, err := resolveLogConfig(c.logPath, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer lc.close()
	log := lc.logger(stderr)

	schema := config.DefaultSchema()
	mode := c.mode
	if mode == "" {
		mode = schema.ResolveCommand(c.config, "run", "mode")
	}
	if mode != ModePlan && mode != ModeReactive {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	interval := c.interval
	if interval == 0 {
		if interval, err = schema.ResolveDuration(c.config, "executor.interval"); err != nil {
			return err
		}
	}
	maxTicks := c.maxTicks
	if maxTicks == 0 {
		if maxTicks, err = schema.ResolveInt(c.config, "executor.max-ticks"); err != nil {
			return err
		}
	}

	file, err := c.load(args)
	if err != nil {
		return err
	}
	compiled, err := file.Build()
	if err != nil {
		return err
	}
	goal, err := c.goal.resolve(compiled.Universe, compiled.Goal)
	if err != nil {
		return fmt.Errorf("-goal: %w", err)
	}

	ctx, cancel := c.context()
	defer cancel()

	sim := compiled.NewSimulation()
	_, _ = fmt.Fprintf(stdout, "domain: %s (%s mode)\n", compiled.Name, mode)

	var runErr error
	switch mode {
	case ModePlan:
		opts, err := c.plannerOptions(c.maxExpansions, c.exactStart)
		if err != nil {
			return err
		}
		start, err := sim.WorldState()
		if err != nil {
			return err
		}
		plan, err := goap.NewPlanner(opts...).FindPath(ctx, start, goal, compiled.Actions)
		if errors.Is(err, goap.ErrNoPlan) {
			_, _ = fmt.Fprintln(stdout, "no plan")
			return err
		}
		if err != nil {
			return err
		}
		printPlan(stdout, plan)

		ex := &executor.Executor{Interval: interval, MaxTicks: maxTicks, Logger: log}
		report, err := ex.Run(ctx, plan, sim, sim)
		_, _ = fmt.Fprintf(stdout, "run %s: %d/%d step(s) completed in %d tick(s)\n",
			report.RunID, report.Completed, plan.Len(), report.Ticks)
		runErr = err

	case ModeReactive:
		runner := &pabt.Runner{Interval: interval, MaxTicks: maxTicks, Logger: log}
		report, err := runner.Run(ctx, compiled.Universe, compiled.Actions, goal, sim, sim)
		_, _ = fmt.Fprintf(stdout, "run %s: performed %v in %d tick(s)\n",
			report.RunID, report.Performed, report.Ticks)
		runErr = err
	}

	printOutcome(stdout, compiled, sim)
	if runErr != nil {
		_, _ = fmt.Fprintln(stdout, "result: failed")
		return runErr
	}
	_, _ = fmt.Fprintln(stdout, "result: goal reached")
	return nil
}

func printOutcome(w io.Writer, compiled *domain.Compiled, sim *domain.Simulation) {
	if final, err := sim.WorldState(); err == nil {
		_, _ = fmt.Fprintf(w, "final: %s\n", compiled.Universe.Format(final))
	} else {
		_, _ = fmt.Fprintf(w, "final: unavailable (%v)\n", err)
	}
	vars := sim.Variables()
	for _, k := range sortedKeys(vars) {
		_, _ = fmt.Fprintf(w, "  %s = %v\n", k, vars[k])
	}
}
