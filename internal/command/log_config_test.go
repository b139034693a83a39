package command

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/goap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogConfig_Level(t *testing.T) {
	unsetEnv(t, "GOAP_LOG_LEVEL")
	unsetEnv(t, "GOAP_LOG_FILE")

	for _, tc := range []struct {
		name   string
		flag   string
		config string
		want   slog.Level
	}{
		{name: "default", want: slog.LevelInfo},
		{name: "config", config: "warn", want: slog.LevelWarn},
		{name: "flag wins", flag: "debug", config: "error", want: slog.LevelDebug},
		{name: "case insensitive", flag: "ERROR", want: slog.LevelError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewConfig()
			if tc.config != "" {
				cfg.SetGlobalOption("log.level", tc.config)
			}
			lc, err := resolveLogConfig("", tc.flag, cfg)
			require.NoError(t, err)
			defer lc.close()
			assert.Equal(t, tc.want, lc.level)
			assert.Nil(t, lc.logFile)
		})
	}

	_, err := resolveLogConfig("", "loud", config.NewConfig())
	assert.ErrorContains(t, err, "invalid log level: loud")
}

func TestResolveLogConfig_Env(t *testing.T) {
	t.Setenv("GOAP_LOG_LEVEL", "warn")
	unsetEnv(t, "GOAP_LOG_FILE")

	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "debug")
	lc, err := resolveLogConfig("", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lc.level)

	lc, err = resolveLogConfig("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lc.level)
}

func TestResolveLogConfig_File(t *testing.T) {
	unsetEnv(t, "GOAP_LOG_LEVEL")
	unsetEnv(t, "GOAP_LOG_FILE")

	path := filepath.Join(t.TempDir(), "goap.log")
	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.file", path)

	lc, err := resolveLogConfig("", "", cfg)
	require.NoError(t, err)
	require.NotNil(t, lc.logFile)

	var stderr bytes.Buffer
	lc.logger(&stderr).Info("hello", "n", 1)
	lc.close()
	assert.Zero(t, stderr.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, float64(1), record["n"])

	_, err = resolveLogConfig(filepath.Join(t.TempDir(), "missing", "dir", "goap.log"), "", cfg)
	assert.ErrorContains(t, err, "failed to open log file")
}

func TestLogConfig_TextOnStderr(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	log := logConfig{level: slog.LevelWarn}.logger(&stderr)
	log.Info("quiet")
	log.Warn("loud")
	assert.NotContains(t, stderr.String(), "quiet")
	assert.Contains(t, stderr.String(), "msg=loud")
}
