package trace

import "context"

type ctxKey struct{}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil tracer attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanContext is what nested spans and instant events inherit: the parent
// span and the file being processed.
type SpanContext struct {
	SpanID uint64
	GID    uint64
	File   string
}

type spanCtxKey struct{}

// CurrentSpan returns the span context of ctx, or the zero value.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// WithFile tags every event emitted under ctx with path.
func WithFile(ctx context.Context, path string) context.Context {
	if !FromContext(ctx).Enabled() {
		return ctx
	}
	sc := CurrentSpan(ctx)
	sc.File = path
	return WithSpanContext(ctx, sc)
}
