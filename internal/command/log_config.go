package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeycumines/goap/internal/config"
)

// logConfig holds the resolved logging configuration of a command.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration from flags and config
// defaults. Flag values take precedence; the log.level and log.file
// options (or their environment variables) are used when a flag is empty.
// The caller must Close() the returned logConfig.logFile when non-nil.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	resolveStr := func(key string) string {
		if cfg == nil {
			return ""
		}
		return schema.Resolve(cfg, key)
	}

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = resolveStr("log.level")
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	logPath := flagPath
	if logPath == "" {
		logPath = resolveStr("log.file")
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// logger builds the command's logger: JSON into the log file when one is
// configured, and text on stderr otherwise.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.logFile != nil {
		return slog.New(slog.NewJSONHandler(lc.logFile, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}

func (lc logConfig) close() {
	if lc.logFile != nil {
		_ = lc.logFile.Close()
	}
}
