package services

import "context"

type contextKey string

const (
	qidKey   contextKey = "qid"
	stageKey contextKey = "stage"
	runIDKey contextKey = "run_id"
)

// WithQID annotates context with the player QID being worked on.
func WithQID(ctx context.Context, qid string) context.Context {
	if qid == "" {
		return ctx
	}
	return context.WithValue(ctx, qidKey, qid)
}

// QIDFromContext extracts the player QID if present.
func QIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(qidKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with a fetch run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
