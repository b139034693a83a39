package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/goap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Empty(t, r.List())

	r.Register(NewVersionCommand("1.0.0"))
	r.Register(NewHelpCommand(r))
	assert.Equal(t, []string{"help", "version"}, r.List())

	cmd, err := r.Get("version")
	require.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())

	_, err = r.Get("frobnicate")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.ErrorContains(t, err, "frobnicate")
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	help := NewHelpCommand(r)
	r.Register(help)
	r.Register(NewVersionCommand("1.0.0"))
	r.Register(NewPlanCommand(config.NewConfig()))

	t.Run("general", func(t *testing.T) {
		out, _, err := runCommand(t, help)
		require.NoError(t, err)
		assert.Contains(t, out, "Usage: goap <command>")
		assert.Contains(t, out, "Available commands:")
		assert.Contains(t, out, "version")
		assert.Contains(t, out, "Find the cheapest plan")
	})

	t.Run("command with flags", func(t *testing.T) {
		out, _, err := runCommand(t, help, "plan")
		require.NoError(t, err)
		assert.Contains(t, out, "Command: plan")
		assert.Contains(t, out, "Usage: goap plan [options] [domain-file]")
		assert.Contains(t, out, "Flags:")
		assert.Contains(t, out, "-max-expansions")
		assert.Contains(t, out, "woodcutter")
	})

	t.Run("command without flags", func(t *testing.T) {
		out, _, err := runCommand(t, help, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "Command: version")
		assert.NotContains(t, out, "Flags:")
	})

	t.Run("unknown", func(t *testing.T) {
		_, errOut, err := runCommand(t, help, "nope")
		assert.ErrorIs(t, err, ErrUnknownCommand)
		assert.Contains(t, errOut, "Unknown command: nope")
	})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCommand("1.2.3")
	out, _, err := runCommand(t, cmd)
	require.NoError(t, err)
	assert.Equal(t, "goap version 1.2.3\n", out)

	_, errOut, err := runCommand(t, cmd, "extra")
	assert.ErrorIs(t, err, ErrUnexpectedArgs)
	assert.Contains(t, errOut, "unexpected arguments")
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	newCmd := func(t *testing.T) (*ConfigCommand, *config.Config, string) {
		cfg := config.NewConfig()
		cfg.SetGlobalOption("log.level", "debug")
		cfg.SetCommandOption("run", "mode", "reactive")
		path := filepath.Join(t.TempDir(), "config")
		return NewConfigCommand(cfg, path), cfg, path
	}

	t.Run("usage", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		out, _, err := runCommand(t, cmd)
		require.NoError(t, err)
		assert.Contains(t, out, "config validate")
	})

	t.Run("show all", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		out, _, err := runCommand(t, cmd, "-all")
		require.NoError(t, err)
		assert.Contains(t, out, "log.level: debug")
		assert.Contains(t, out, "[run]")
		assert.Contains(t, out, "mode: reactive")
	})

	t.Run("show global", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		out, _, err := runCommand(t, cmd, "-global")
		require.NoError(t, err)
		assert.Contains(t, out, "log.level: debug")
		assert.NotContains(t, out, "[run]")
	})

	t.Run("get resolves defaults", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		out, _, err := runCommand(t, cmd, "executor.max-ticks")
		require.NoError(t, err)
		assert.Equal(t, "executor.max-ticks: 1000\n", out)

		out, _, err = runCommand(t, cmd, "no.such.key")
		require.NoError(t, err)
		assert.Contains(t, out, "not found")
	})

	t.Run("set persists", func(t *testing.T) {
		cmd, cfg, path := newCmd(t)
		out, _, err := runCommand(t, cmd, "planner.max-expansions", "500")
		require.NoError(t, err)
		assert.Contains(t, out, "Set configuration: planner.max-expansions = 500")

		v, ok := cfg.GetGlobalOption("planner.max-expansions")
		assert.True(t, ok)
		assert.Equal(t, "500", v)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "planner.max-expansions 500")
	})

	t.Run("validate", func(t *testing.T) {
		cmd, cfg, _ := newCmd(t)
		out, _, err := runCommand(t, cmd, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid.")

		cfg.SetGlobalOption("executor.interval", "soon")
		out, _, err = runCommand(t, cmd, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "1 issue(s)")
		assert.Contains(t, out, "executor.interval")
	})

	t.Run("schema", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		out, _, err := runCommand(t, cmd, "schema")
		require.NoError(t, err)
		assert.Contains(t, out, "Global Options:")
		assert.Contains(t, out, "domain.path")
	})

	t.Run("too many arguments", func(t *testing.T) {
		cmd, _, _ := newCmd(t)
		_, errOut, err := runCommand(t, cmd, "a", "b", "c")
		assert.ErrorIs(t, err, ErrUnexpectedArgs)
		assert.Contains(t, errOut, "Invalid number of arguments")
	})
}
