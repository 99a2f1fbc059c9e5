package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegister records a register call. A non-nil err counts as a failure.
	RecordRegister(ctx context.Context, kind string, err error)

	// RecordShutdown records a completed teardown.
	RecordShutdown(ctx context.Context, destroyed, faults int, duration time.Duration)

	// RecordDestroyFault records a destructor that panicked.
	RecordDestroyFault(ctx context.Context, kind string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registered      metric.Int64Counter
	registerFailed  metric.Int64Counter
	destroyed       metric.Int64Counter
	destroyFaults   metric.Int64Counter
	shutdowns       metric.Int64Counter
	shutdownLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("reclaim")

	registered, err := meter.Int64Counter("reclaim.entries.registered",
		metric.WithDescription("Number of values registered"),
	)
	if err != nil {
		return nil, err
	}

	registerFailed, err := meter.Int64Counter("reclaim.register.failures",
		metric.WithDescription("Number of register calls whose constructor failed"),
	)
	if err != nil {
		return nil, err
	}

	destroyed, err := meter.Int64Counter("reclaim.entries.destroyed",
		metric.WithDescription("Number of values destroyed at shutdown"),
	)
	if err != nil {
		return nil, err
	}

	destroyFaults, err := meter.Int64Counter("reclaim.destroy.faults",
		metric.WithDescription("Number of destructors that panicked"),
	)
	if err != nil {
		return nil, err
	}

	shutdowns, err := meter.Int64Counter("reclaim.shutdowns",
		metric.WithDescription("Number of registry shutdowns"),
	)
	if err != nil {
		return nil, err
	}

	shutdownLatency, err := meter.Float64Histogram("reclaim.shutdown.latency_ms",
		metric.WithDescription("Shutdown latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registered:      registered,
		registerFailed:  registerFailed,
		destroyed:       destroyed,
		destroyFaults:   destroyFaults,
		shutdowns:       shutdowns,
		shutdownLatency: shutdownLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRegister records a register call.
func (m *otelMetrics) RecordRegister(ctx context.Context, kind string, err error) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if err != nil {
		m.registerFailed.Add(ctx, 1, attrs)
		return
	}
	m.registered.Add(ctx, 1, attrs)
}

// RecordShutdown records a teardown.
func (m *otelMetrics) RecordShutdown(ctx context.Context, destroyed, faults int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("clean", faults == 0))
	m.shutdowns.Add(ctx, 1, attrs)
	m.destroyed.Add(ctx, int64(destroyed))
	m.shutdownLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordDestroyFault records a destructor panic.
func (m *otelMetrics) RecordDestroyFault(ctx context.Context, kind string) {
	m.destroyFaults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
