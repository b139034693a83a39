package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joeycumines/goap/internal/config"
	"github.com/joeycumines/goap/internal/domain"
	"github.com/joeycumines/goap/internal/goap"
)

// ErrNoDomain is returned when a command needs a domain and none was named
// by flag, argument or the domain.path option.
var ErrNoDomain = errors.New("no domain given")

// domainOptions are the flags shared by the commands that operate on a
// domain.
type domainOptions struct {
	config   *config.Config
	path     string
	builtin  string
	logPath  string
	logLevel string
	// ctxFactory creates the execution context. If nil, the context is
	// cancelled on interrupt signals.
	ctxFactory func() (context.Context, context.CancelFunc)
}

func newDomainOptions(cfg *config.Config) domainOptions {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return domainOptions{config: cfg}
}

func (o *domainOptions) setupFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.path, "domain", "", "Domain file (YAML); defaults to the domain.path option")
	fs.StringVar(&o.builtin, "builtin", "", "Embedded domain: "+strings.Join(domain.BuiltinNames(), ", "))
	fs.StringVar(&o.logPath, "log-file", "", "Path to log file (JSON output)")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// load reads the domain named by -builtin, -domain, a single positional
// argument or the domain.path option, in that order.
func (o *domainOptions) load(args []string) (*domain.File, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedArgs, args[1:])
	}
	if o.builtin != "" {
		if o.path != "" || len(args) != 0 {
			return nil, errors.New("-builtin cannot be combined with a domain file")
		}
		return domain.Builtin(o.builtin)
	}
	path := o.path
	if len(args) == 1 {
		if path != "" {
			return nil, errors.New("domain given both by -domain and as an argument")
		}
		path = args[0]
	}
	if path == "" {
		path = config.DefaultSchema().Resolve(o.config, "domain.path")
	}
	if path == "" {
		return nil, ErrNoDomain
	}
	return domain.Load(path)
}

// plannerOptions resolves the planner settings from the config, letting
// set flags win.
func (o *domainOptions) plannerOptions(maxExpansions int, exactStart bool) ([]goap.Option, error) {
	schema := config.DefaultSchema()
	if maxExpansions == 0 {
		n, err := schema.ResolveInt(o.config, "planner.max-expansions")
		if err != nil {
			return nil, err
		}
		maxExpansions = n
	}
	if !exactStart {
		b, err := schema.ResolveBool(o.config, "planner.exact-start")
		if err != nil {
			return nil, err
		}
		exactStart = b
	}
	return []goap.Option{
		goap.WithMaxExpansions(maxExpansions),
		goap.WithExactStart(exactStart),
	}, nil
}

func (o *domainOptions) context() (context.Context, context.CancelFunc) {
	if o.ctxFactory != nil {
		return o.ctxFactory()
	}
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// factList is a comma separated list of fact names. It records whether it
// was set, so an empty list can override a default.
type factList struct {
	set   bool
	names []string
}

var _ flag.Value = (*factList)(nil)

func (l *factList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.names, ",")
}

func (l *factList) Set(value string) error {
	l.set = true
	l.names = l.names[:0]
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			l.names = append(l.names, name)
		}
	}
	return nil
}

// resolve returns the state named by the list, or def when it was not set.
func (l *factList) resolve(u *goap.Universe, def goap.WorldState) (goap.WorldState, error) {
	if !l.set {
		return def, nil
	}
	return u.Parse(l.names)
}
