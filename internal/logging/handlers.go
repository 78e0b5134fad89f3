package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Sink is one log destination. Records below Level are not sent to it; a nil
// Level leaves filtering to the handler.
type Sink struct {
	Handler slog.Handler
	Level   slog.Leveler
}

func (s Sink) admits(ctx context.Context, lvl slog.Level) bool {
	if s.Level != nil && lvl < s.Level.Level() {
		return false
	}
	return s.Handler.Enabled(ctx, lvl)
}

// Tee sends every record to each sink that admits its level.
type Tee struct {
	sinks []Sink
}

// NewTee creates a Tee over sinks. Sinks without a handler are skipped.
func NewTee(sinks ...Sink) *Tee {
	valid := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s.Handler != nil {
			valid = append(valid, s)
		}
	}
	return &Tee{sinks: valid}
}

func (t *Tee) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, s := range t.sinks {
		if s.admits(ctx, lvl) {
			return true
		}
	}
	return false
}

// Handle writes r to every admitting sink. A failing sink does not stop the
// others; their errors are joined.
func (t *Tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if !s.admits(ctx, r.Level) {
			continue
		}
		if err := s.Handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *Tee) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *Tee) derive(fn func(slog.Handler) slog.Handler) *Tee {
	sinks := make([]Sink, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = Sink{Handler: fn(s.Handler), Level: s.Level}
	}
	return &Tee{sinks: sinks}
}

type attrsKey struct{}

// ContextWith returns a copy of ctx carrying attrs in addition to any it
// already carries. Loggers from SlogManager add them to records logged with
// that context, e.g. the carousel being mounted.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFrom(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// contextHandler adds the attributes carried by the record's context.
type contextHandler struct {
	inner slog.Handler
}

func (h contextHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.inner.Enabled(ctx, lvl)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFrom(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return contextHandler{inner: h.inner.WithGroup(name)}
}
