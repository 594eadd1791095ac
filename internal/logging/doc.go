// Package logging wraps log/slog with the handlers and attribute helpers
// used across the cleanup pipeline. Two formats are supported: a console
// handler emitting aligned key=value lines and a JSON handler for log files.
package logging
