package gowergo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pipeline-specific field helpers, providing
// structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))}
}

// WithRecords adds a record-count field to the logger.
func (l *Logger) WithRecords(n int) *Logger {
	return &Logger{Logger: l.Logger.With("records", n)}
}

// WithK adds a cluster-count field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// LogNormalize logs a normalization run.
func (l *Logger) LogNormalize(records, attributes int, err error) {
	if err != nil {
		l.Error("normalize failed", "records", records, "attributes", attributes, "error", err)
	} else {
		l.Debug("normalize completed", "records", records, "attributes", attributes)
	}
}

// LogMatrixBuild logs a dissimilarity-matrix build.
func (l *Logger) LogMatrixBuild(ctx context.Context, records int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "matrix build failed", "records", records, "error", err)
	} else {
		l.DebugContext(ctx, "matrix build completed", "records", records, "duration", duration)
	}
}

// LogPartition logs a PAM run.
func (l *Logger) LogPartition(ctx context.Context, k int, cost float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "partition failed", "k", k, "error", err)
	} else {
		l.DebugContext(ctx, "partition completed", "k", k, "total_cost", cost, "duration", duration)
	}
}

// LogScan logs a cluster-count scan.
func (l *Logger) LogScan(ctx context.Context, kMin, kMax int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "k scan failed", "k_min", kMin, "k_max", kMax, "error", err)
	} else {
		l.DebugContext(ctx, "k scan completed", "k_min", kMin, "k_max", kMax, "duration", duration)
	}
}

// LogEmbed logs a 2D embedding run.
func (l *Logger) LogEmbed(ctx context.Context, records int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedding failed", "records", records, "error", err)
	} else {
		l.DebugContext(ctx, "embedding completed", "records", records, "duration", duration)
	}
}
