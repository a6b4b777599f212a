package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context.
// Return false when the context has nothing to contribute.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

// WithContextAttrs wraps next so that every record logged with a context
// gets the attributes the extractors find in it. Nil extractors are
// dropped; with none left, next is returned as is.
func WithContextAttrs(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	var keep []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			keep = append(keep, ex)
		}
	}
	if len(keep) == 0 {
		return next
	}
	return &contextHandler{Handler: next, extractors: keep}
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if attr, ok := ex(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
