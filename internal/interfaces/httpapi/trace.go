package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/pitch-booking/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Only handler entry points get spans; middleware and helpers ride on the
// otelhttp request span.
var apiTracer = tracing.NewScope("pitch-booking/internal/interfaces/httpapi", shouldCreateHTTPAPISpan)

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
