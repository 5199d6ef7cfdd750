package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
)

// SpanContext carries the id of the enclosing span across goroutines.
type SpanContext struct {
	SpanID uint64
}

func lookup[T any](ctx context.Context, key ctxKey) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// FromContext returns the Tracer stored by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := lookup[Tracer](ctx, tracerKey); ok && t != nil {
		return t
	}
	return Nop
}

// WithTracer stores t in ctx; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// CurrentSpan returns the span stored by WithSpanContext, or the zero value.
func CurrentSpan(ctx context.Context) SpanContext {
	sc, _ := lookup[SpanContext](ctx, spanKey)
	return sc
}

// WithSpanContext makes sc the parent for spans started under ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey, sc)
}
