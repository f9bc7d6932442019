// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hpn/hpn-cli-bridge/internal/config"
	"github.com/hpn/hpn-cli-bridge/internal/security"
)

// Setup creates the logger described by cfg, installs it as the slog default
// and returns a function that closes the log file, if any.
// Adapter debug mode forces the debug level so diagnostics are not filtered out.
func Setup(cfg *config.Configuration) (*slog.Logger, func() error, error) {
	var (
		out   io.Writer = os.Stdout
		closer          = func() error { return nil }
	)

	if path := cfg.Logging.OutputPath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.Logging.MaxSizeMB,  // megabytes
			MaxBackups: cfg.Logging.MaxBackups, // number of backups
			MaxAge:     cfg.Logging.MaxAgeDays, // days
			Compress:   cfg.Logging.Compress,
		}
		out = file
		closer = file.Close
	}

	level := ParseLevel(cfg.Logging.Level)
	if cfg.Adapter.Debug {
		level = slog.LevelDebug
	}

	logger := New(out, level, cfg.Logging.Format,
		security.WithMaxValueLength(cfg.Logging.MaxValueBytes))
	slog.SetDefault(logger)

	return logger, closer, nil
}

// New returns a logger writing to w in the given format ("json" or "text"),
// wrapped in a security.RedactedHandler configured by opts.
func New(w io.Writer, level slog.Level, format string, opts ...security.HandlerOption) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(security.NewRedactedHandler(handler, opts...))
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
