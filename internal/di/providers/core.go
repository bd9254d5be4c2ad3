// Package providers contains the samber/do providers for the API server.
package providers

import (
	"log/slog"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/metrics"
)

// shutdownTimeout bounds each component's Shutdown call.
const shutdownTimeout = 10 * time.Second

// ProvideConfig loads configuration from the environment.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the process logger and installs it as the slog default.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return NewLogger(cfg.LogFormat, cfg.LogLevel), nil
}

// NewLogger returns a JSON or text logger writing to stdout.
func NewLogger(format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ProvideMetrics provides the in-memory metrics recorder.
func ProvideMetrics(i do.Injector) (*metrics.InMemoryRecorder, error) {
	return metrics.NewInMemory(), nil
}
