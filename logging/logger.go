// Package logging provides a tiny abstraction over slog so downstream
// code can depend on a minimal interface (Logger) while allowing users
// to plug any structured logger. It also offers a richer
// HealthMeshLogger with contextual helpers and domain specific logging
// for model calls, agent runs and retrieval lookups.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for HealthMesh.
// Users can provide their own implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger discards all log messages. Useful for testing or when
// logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// Config configures construction of a HealthMeshLogger.
type Config struct {
	Level     slog.Level
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns a baseline JSON info level configuration.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// HealthMeshLogger wraps slog.Logger adding contextual cloning helpers
// and domain convenience methods. It is cheap to copy via With* methods.
type HealthMeshLogger struct {
	logger    *slog.Logger
	component string
}

// NewLogger builds a HealthMeshLogger from a config (or defaults if nil).
func NewLogger(cfg *Config) *HealthMeshLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &HealthMeshLogger{logger: slog.New(handler), component: cfg.Component}
}

// WithComponent returns a copy bound to the given logical component
// (agent, selector, orchestrator, etc.).
func (l *HealthMeshLogger) WithComponent(c string) *HealthMeshLogger {
	return &HealthMeshLogger{logger: l.logger, component: c}
}

func (l *HealthMeshLogger) log(level slog.Level, msg string, args ...any) {
	if l.component != "" {
		args = append(args, "component", l.component)
	}
	l.logger.Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *HealthMeshLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

// Info logs at info level.
func (l *HealthMeshLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *HealthMeshLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

// Error logs at error level.
func (l *HealthMeshLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// LogLLMCall records model call latency and success.
func (l *HealthMeshLogger) LogLLMCall(model string, dur time.Duration, err error) {
	if err != nil {
		l.Error("LLM call failed", "model", model, "duration", dur, "error", err.Error())
		return
	}
	l.Info("LLM call completed", "model", model, "duration", dur)
}

// LogAgentRun records one specialist invocation.
func (l *HealthMeshLogger) LogAgentRun(role string, confidence float64, dur time.Duration, err error) {
	if err != nil {
		l.Error("Agent run degraded", "role", role, "confidence", confidence, "duration", dur, "error", err.Error())
		return
	}
	l.Info("Agent run completed", "role", role, "confidence", confidence, "duration", dur)
}

// LogRetrieval records one knowledge store lookup.
func (l *HealthMeshLogger) LogRetrieval(partitions []string, hits int, dur time.Duration, err error) {
	if err != nil {
		l.Error("Retrieval failed", "partitions", partitions, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("Retrieval completed", "partitions", partitions, "hits", hits, "duration", dur)
}
