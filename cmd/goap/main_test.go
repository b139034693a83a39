package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/goap/internal/command"
	"github.com/joeycumines/goap/internal/goap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config at a fresh file, so the user's own
// configuration never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	t.Setenv("GOAP_CONFIG", path)
	for _, key := range []string{"GOAP_LOG_LEVEL", "GOAP_LOG_FILE", "GOAP_DOMAIN"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return path
}

func runArgs(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	isolate(t)

	t.Run("no command shows help", func(t *testing.T) {
		out, _, err := runArgs()
		require.NoError(t, err)
		assert.Contains(t, out, "Usage: goap <command>")
	})

	t.Run("help flags", func(t *testing.T) {
		for _, arg := range []string{"-h", "--help", "help"} {
			out, _, err := runArgs(arg)
			require.NoError(t, err, arg)
			assert.Contains(t, out, "Available commands:", arg)
		}
	})

	t.Run("version", func(t *testing.T) {
		out, _, err := runArgs("version")
		require.NoError(t, err)
		assert.Equal(t, "goap version "+version+"\n", out)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, errOut, err := runArgs("nonexistent")
		assert.ErrorIs(t, err, command.ErrUnknownCommand)
		assert.Contains(t, errOut, "goap help")
	})

	t.Run("command help flag", func(t *testing.T) {
		_, errOut, err := runArgs("plan", "-h")
		require.NoError(t, err)
		assert.Contains(t, errOut, "Usage: goap plan")
		assert.Contains(t, errOut, "-builtin")
	})

	t.Run("bad flag", func(t *testing.T) {
		_, _, err := runArgs("plan", "-no-such-flag")
		assert.Error(t, err)
	})
}

func TestRun_Plan(t *testing.T) {
	isolate(t)

	out, _, err := runArgs("plan", "-builtin", "woodcutter")
	require.NoError(t, err)
	assert.Contains(t, out, "plan: cost 6, 2 step(s)")

	out, _, err = runArgs("plan", "-builtin", "woodcutter", "-goal", "HAS_WOOD,HAS_AXE", "-start=")
	assert.ErrorIs(t, err, goap.ErrNoPlan)
	assert.Contains(t, out, "no plan")
}

func TestRun_ConfigRoundTrip(t *testing.T) {
	path := isolate(t)

	require.NoError(t, os.WriteFile(path, []byte("domain.path "+filepath.Join("..", "..", "internal", "domain", "builtin", "campfire.yaml")+"\n\n[run]\nmode reactive\n"), 0644))

	out, _, err := runArgs("config", "domain.path")
	require.NoError(t, err)
	assert.Contains(t, out, "campfire.yaml")

	out, _, err = runArgs("run")
	require.NoError(t, err)
	assert.Contains(t, out, "domain: campfire (reactive mode)")
	assert.Contains(t, out, "result: goal reached")

	_, _, err = runArgs("config", "executor.max-ticks", "7")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "executor.max-ticks 7\n[run]")
}
