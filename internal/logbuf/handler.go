package logbuf

import (
	"context"
	"log/slog"
)

// ComponentKey is the attribute promoted to Entry.Component.
const ComponentKey = "component"

// Handler tees records into a Buffer and forwards them to an inner handler.
// The buffer sees every level; the inner handler keeps its own level filter.
type Handler struct {
	inner  slog.Handler
	buf    *Buffer
	attrs  []slog.Attr
	prefix string
}

// NewHandler wraps inner so that every record is also written to buf.
func NewHandler(inner slog.Handler, buf *Buffer) *Handler {
	return &Handler{inner: inner, buf: buf}
}

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	e := Entry{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	for _, a := range h.attrs {
		e.add(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		e.add(h.prefix+a.Key, a.Value)
		return true
	})
	h.buf.Write(e)

	if !h.inner.Enabled(ctx, r.Level) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (e *Entry) add(key string, v slog.Value) {
	if key == ComponentKey {
		e.Component = v.String()
		return
	}
	if e.Attrs == nil {
		e.Attrs = make(map[string]any)
	}
	e.Attrs[key] = plain(v)
}

// plain converts a value to something that JSON-encodes usefully;
// errors would otherwise marshal as {}.
func plain(v slog.Value) any {
	raw := v.Resolve().Any()
	if err, ok := raw.(error); ok {
		return err.Error()
	}
	return raw
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.inner = h.inner.WithAttrs(attrs)
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.inner = h.inner.WithGroup(name)
	next.prefix = h.prefix + name + "."
	return &next
}
