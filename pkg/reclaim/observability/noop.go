package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordRegister does nothing.
func (NoopMetrics) RecordRegister(_ context.Context, _ string, _ error) {}

// RecordShutdown does nothing.
func (NoopMetrics) RecordShutdown(_ context.Context, _, _ int, _ time.Duration) {}

// RecordDestroyFault does nothing.
func (NoopMetrics) RecordDestroyFault(_ context.Context, _ string) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartShutdownSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartShutdownSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
