package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "otter/server"

// Tracer returns the tracer for MCP request handling. Without an installed
// SDK it is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// ToolMetrics records per-tool call counts and latencies.
type ToolMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewToolMetrics registers the tool instruments on the global meter provider.
func NewToolMetrics() *ToolMetrics {
	meter := otel.Meter(instrumentationName)

	calls, err := meter.Int64Counter("otter.tool.calls",
		metric.WithDescription("Number of tools/call invocations"),
		metric.WithUnit("{call}"))
	if err != nil {
		log.Printf("[observability] tool call counter: %v", err)
	}
	duration, err := meter.Float64Histogram("otter.tool.duration",
		metric.WithDescription("Duration of tools/call invocations"),
		metric.WithUnit("ms"))
	if err != nil {
		log.Printf("[observability] tool duration histogram: %v", err)
	}
	return &ToolMetrics{calls: calls, duration: duration}
}

// Record adds one call of tool with the given outcome.
func (m *ToolMetrics) Record(ctx context.Context, tool, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	)
	if m.calls != nil {
		m.calls.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
