// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"log/slog"
)

type contextKey string

const debugKey contextKey = "mattermost_debug"

// WithDebug returns a context with request debugging enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// Verbose returns a logger that writes through base's handler but passes
// debug records regardless of the level base was configured with.
func Verbose(base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.New(&levelHandler{level: slog.LevelDebug, handler: base.Handler()})
}

// levelHandler overrides the minimum level of the wrapped handler.
type levelHandler struct {
	level   slog.Leveler
	handler slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}
