// Package observability carries per-dispatch logging context.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/autobuilder/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	DispatchID string
	Platform   string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithDispatchID adds a dispatch ID to the context.
func WithDispatchID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.DispatchID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPlatform adds a platform label to the context.
func WithPlatform(ctx context.Context, platform string) context.Context {
	lc := extractLogContext(ctx)
	lc.Platform = platform
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.DispatchID != "" {
		attrs = append(attrs, logfields.DispatchID(lc.DispatchID))
	}
	if lc.Platform != "" {
		attrs = append(attrs, logfields.Platform(lc.Platform))
	}
	return attrs
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, all...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}
