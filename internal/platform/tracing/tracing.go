package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const name = "oreledger"

// Start begins a span on the process tracer. With no SDK installed this is a
// no-op, so services can trace unconditionally.
func Start(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(name).Start(ctx, spanName)
}
