// Package logging provides a slog.Handler that enriches records with
// attributes carried in the context.
package logging

import (
	"context"
	"fmt"
	"log/slog"
)

type contextKey string

const attrsContextKey contextKey = "slogAttrs"

// ContextHandler decorates an underlying slog.Handler with attributes stored
// in the context via WithAttrs.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler wraps h so that attributes attached to the context with
// WithAttrs show up on every record logged through the returned handler.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// Enabled delegates to the underlying handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds the context-carried attributes to the record before delegating.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsContextKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

// WithAttrs returns a ContextHandler wrapping the underlying handler with the
// given attributes.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a ContextHandler wrapping the underlying handler with the
// given group.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs attaches attributes to the context so that ContextHandler includes
// them in every log record emitted under that context.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(attrsContextKey).([]slog.Attr); ok {
		combined := make([]slog.Attr, 0, len(existing)+len(attrs))
		combined = append(combined, existing...)
		combined = append(combined, attrs...)
		return context.WithValue(ctx, attrsContextKey, combined)
	}
	return context.WithValue(ctx, attrsContextKey, attrs)
}
