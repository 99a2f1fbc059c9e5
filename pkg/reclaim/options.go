package reclaim

import (
	"log/slog"

	"github.com/randalmurphal/reclaim/pkg/reclaim/observability"
	"github.com/randalmurphal/reclaim/pkg/reclaim/report"
)

// options holds registry configuration.
type options struct {
	id           string
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	store        report.Store
	retainFailed bool
}

func defaultOptions() options {
	return options{
		logger:  slog.New(slog.DiscardHandler),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Registry.
type Option func(*options)

// WithID sets the registry ID used in logs, spans, and reports.
// Default: a random UUID.
func WithID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.id = id
		}
	}
}

// WithLogger sets the structured logger. Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
//
// Example:
//
//	r := reclaim.New(reclaim.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used during shutdown.
func WithSpanManager(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithReportStore saves the shutdown report to store. The registry does not
// close the store.
func WithReportStore(store report.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRetainFailed keeps an entry holding a nil value when construction
// fails. Register still returns the error, and the destructor is later
// called with nil, so it must tolerate that.
//
// By default failed constructions leave no entry behind.
func WithRetainFailed() Option {
	return func(o *options) {
		o.retainFailed = true
	}
}
