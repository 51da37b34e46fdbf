package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. "teammate_missing").
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID is the standardized structured logging key for the analysis run identifier.
	FieldRunID = "run_id"
	// FieldSeason is the standardized structured logging key for championship seasons.
	FieldSeason = "season"
	// FieldRace is the standardized structured logging key for event names.
	FieldRace = "race"
	// FieldDriver is the standardized structured logging key for driver names.
	FieldDriver = "driver"
)

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID annotates the context with a fresh run identifier unless one is
// already present.
func WithRunID(ctx context.Context) context.Context {
	if _, ok := RunIDFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, uuid.NewString())
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(String(FieldRunID, id))
	}
	return logger
}
