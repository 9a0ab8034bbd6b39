// Package tracing starts child spans under an active request span.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

// Scope starts spans for one instrumentation scope. Spans are only created
// when ctx already carries a valid span, so filtered routes such as /healthz
// and background jobs without a parent never produce standalone roots.
type Scope struct {
	tracer trace.Tracer
	keep   func(name string) bool
}

// NewScope returns a Scope using the global tracer provider. keep filters
// span names; nil keeps every non-empty name.
func NewScope(name string, keep func(string) bool) Scope {
	return Scope{tracer: otel.Tracer(name), keep: keep}
}

func (s Scope) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if name == "" || (s.keep != nil && !s.keep(name)) {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("pitch-booking")
	}
	return s.tracer.Start(ctx, name, opts...)
}
