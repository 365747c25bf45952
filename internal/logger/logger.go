package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey is a type for context keys used by the logger.
type ContextKey string

const (
	// RunIDKey is the context key for the current pipeline run id.
	RunIDKey ContextKey = "run_id"
)

var defaultLogger *slog.Logger

// Init initializes the global logger with the specified log level.
func Init(levelStr string) {
	level := parseLevel(levelStr)

	var handler slog.Handler

	// Use JSON format in production, text format in development.
	if os.Getenv("ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the default logger, initializing it at info level if needed.
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("info")
	}
	return defaultLogger
}

// WithRunID returns a logger tagged with the run id carried on ctx, if any.
func WithRunID(ctx context.Context) *slog.Logger {
	logger := Get()
	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// WithComponent returns a logger labelled with a subsystem name, e.g. "tree" or "registry".
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

// WithElement returns a logger labelled with the name and kind of a pipeline element.
func WithElement(kind, name string) *slog.Logger {
	return Get().With("element_kind", kind, "element", name)
}

// WithFields returns a logger with additional structured fields attached.
func WithFields(fields map[string]interface{}) *slog.Logger {
	logger := Get()
	for k, v := range fields {
		logger = logger.With(k, v)
	}
	return logger
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// DebugContext logs a debug message tagged with the run id on ctx.
func DebugContext(ctx context.Context, msg string, args ...any) {
	WithRunID(ctx).Debug(msg, args...)
}

// InfoContext logs an info message tagged with the run id on ctx.
func InfoContext(ctx context.Context, msg string, args ...any) {
	WithRunID(ctx).Info(msg, args...)
}

// WarnContext logs a warning message tagged with the run id on ctx.
func WarnContext(ctx context.Context, msg string, args ...any) {
	WithRunID(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message tagged with the run id on ctx.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithRunID(ctx).Error(msg, args...)
}
