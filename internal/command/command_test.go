package command

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCommand parses args with cmd's flags and executes it, the way the
// goap binary does.
func runCommand(t *testing.T, cmd Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	var out, errb bytes.Buffer
	err = cmd.Execute(fs.Args(), &out, &errb)
	return out.String(), errb.String(), err
}

// testContext keeps commands away from signal handling.
func testContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
