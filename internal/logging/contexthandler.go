package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ContextProvider is a function that returns dynamic context attributes.
type ContextProvider func() []slog.Attr

// ContextHandler wraps another handler and injects dynamic context attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds dynamic context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds dynamic context attributes and delegates to the inner handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		attrs := h.provider()
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler with the given attributes.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner:    h.inner.WithAttrs(attrs),
		provider: h.provider,
	}
}

// WithGroup returns a new ContextHandler with the given group.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner:    h.inner.WithGroup(name),
		provider: h.provider,
	}
}

// RunContext holds attributes describing the export in progress. Its
// Provider can be passed to NewContextHandler.
type RunContext struct {
	mu    sync.RWMutex
	attrs []slog.Attr
}

// Set replaces the current attributes with key-value pairs.
func (c *RunContext) Set(keysAndValues ...any) {
	r := slog.NewRecord(time.Time{}, 0, "", 0)
	r.Add(keysAndValues...)

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	c.mu.Lock()
	c.attrs = attrs
	c.mu.Unlock()
}

// Clear removes every attribute.
func (c *RunContext) Clear() {
	c.mu.Lock()
	c.attrs = nil
	c.mu.Unlock()
}

// Provider returns a ContextProvider reading the current attributes.
func (c *RunContext) Provider() ContextProvider {
	return func() []slog.Attr {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return append([]slog.Attr(nil), c.attrs...)
	}
}
