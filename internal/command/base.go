// Package command implements the goap command line: planning, checking and
// simulating domains, plus configuration management.
package command

import (
	"flag"
	"io"
)

// Command is one goap subcommand.
type Command interface {
	// Name is the word used to invoke the command.
	Name() string

	// Description is the one-line summary shown by help.
	Description() string

	// Usage is the synopsis shown by help, without the program name.
	Usage() string

	// SetupFlags registers the command's flags. It is called once, before
	// the command's arguments are parsed.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command with the positional arguments left over
	// after flag parsing.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the metadata of a command, for embedding.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{
		name:        name,
		description: description,
		usage:       usage,
	}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags registers no flags.
func (c *BaseCommand) SetupFlags(fs *flag.FlagSet) {}
