// Package log configures the application's structured logging on top of
// log/slog, with an optional colored handler for local development.
package log

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" (default) or "pretty"
}

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT from the environment.
func DefaultConfig() Config {
	return Config{
		Level:  levelFromEnv(),
		Format: strings.ToLower(os.Getenv("LOG_FORMAT")),
	}
}

// New builds a logger from the config. The "pretty" format uses tint for
// colored output; everything else falls back to the plain text handler.
func New(config Config) *slog.Logger {
	var handler slog.Handler
	switch config.Format {
	case "pretty":
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      config.Level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}
	return slog.New(handler)
}

// Setup builds the default-config logger and installs it process-wide.
func Setup() *slog.Logger {
	logger := New(DefaultConfig())
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
