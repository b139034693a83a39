package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSetKeyInFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial string
		key     string
		value   string
		want    string
	}{
		{"empty file", "", "log.level", "debug", "log.level debug"},
		{"append keeps trailing newline", "log.level info\n", "domain.path", "a.yaml", "log.level info\ndomain.path a.yaml\n"},
		{"replace in place", "# logging\nlog.level info\nlog.file x\n", "log.level", "warn", "# logging\nlog.level warn\nlog.file x\n"},
		{"insert before section", "log.level info\n\n[run]\nmode reactive\n", "executor.max-ticks", "5", "log.level info\n\nexecutor.max-ticks 5\n[run]\nmode reactive\n"},
		{"section keys untouched", "[run]\nmode reactive\n", "mode", "plan", "mode plan\n[run]\nmode reactive\n"},
		{"empty value", "log.file out.json\n", "log.file", "", "log.file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config")
			if tt.initial != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.initial), 0644))
			}
			require.NoError(t, SetKeyInFile(path, tt.key, tt.value))
			assert.Equal(t, tt.want, readFile(t, path))
		})
	}
}

func TestSetKeyInFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "config")
	require.NoError(t, SetKeyInFile(path, "planner.max-expansions", "100"))
	require.NoError(t, SetKeyInFile(path, "executor.interval", "10ms"))
	require.NoError(t, SetKeyInFile(path, "planner.max-expansions", "200"))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.False(t, cfg.HasWarnings())
	v, _ := cfg.GetGlobalOption("planner.max-expansions")
	assert.Equal(t, "200", v)
	v, _ = cfg.GetGlobalOption("executor.interval")
	assert.Equal(t, "10ms", v)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
