package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
	"github.com/joeycumines/goap/internal/goap"
)

// CheckCommand validates a domain and reports whether its goal is
// reachable.
type CheckCommand struct {
	*BaseCommand
	domainOptions
}

// NewCheckCommand creates a new check command.
func NewCheckCommand(cfg *config.Config) *CheckCommand {
	return &CheckCommand{
		BaseCommand: NewBaseCommand(
			"check",
			"Validate a domain file and summarize it",
			"check [options] [domain-file]",
		),
		domainOptions: newDomainOptions(cfg),
	}
}

// SetupFlags configures the flags for the check command.
func (c *CheckCommand) SetupFlags(fs *flag.FlagSet) {
	c.setupFlags(fs)
}

// Execute validates the domain. Every validation problem is listed on
// stderr; an unreachable goal is an error as well.
func (c *CheckCommand) Execute(args []string, stdout, stderr io.Writer) error {
	lc, err := resolveLogConfig(c.logPath, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer lc.close()
	log := lc.logger(stderr)

	file, err := c.load(args)
	if errors.Is(err, domain.ErrInvalid) {
		_, _ = fmt.Fprintln(stderr, "Domain is invalid:")
		for _, line := range strings.Split(err.Error(), "\n") {
			_, _ = fmt.Fprintf(stderr, "  - %s\n", line)
		}
		return err
	}
	if err != nil {
		return err
	}
	compiled, err := file.Build()
	if err != nil {
		return err
	}

	u := compiled.Universe
	_, _ = fmt.Fprintf(stdout, "domain %s: ok\n", compiled.Name)
	_, _ = fmt.Fprintf(stdout, "  facts:   %d %s\n", u.Len(), u.Format(u.All()))
	_, _ = fmt.Fprintf(stdout, "  actions: %d [%s]\n", len(compiled.Actions), strings.Join(compiled.ActionNames(), ", "))
	_, _ = fmt.Fprintf(stdout, "  start:   %s\n", u.Format(compiled.Start))
	_, _ = fmt.Fprintf(stdout, "  goal:    %s\n", u.Format(compiled.Goal))

	ctx, cancel := c.context()
	defer cancel()

	opts, err := c.plannerOptions(0, false)
	if err != nil {
		return err
	}
	plan, err := goap.NewPlanner(opts...).FindPath(ctx, compiled.Start, compiled.Goal, compiled.Actions)
	if err != nil {
		if errors.Is(err, goap.ErrNoPlan) {
			_, _ = fmt.Fprintln(stdout, "  plan:    none, goal unreachable from start")
		}
		return err
	}
	log.Debug("[Check] goal reachable", "domain", compiled.Name, "plan", plan.String())
	_, _ = fmt.Fprintf(stdout, "  plan:    cost %g, %d step(s)\n", plan.Cost, plan.Len())
	return nil
}
