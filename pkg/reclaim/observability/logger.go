// Package observability provides logging, metrics, and tracing for
// registry lifecycles.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger scopes a logger to one registry.
//
// Example:
//
//	enriched := EnrichLogger(logger, "4c1d...")
//	enriched.Info("doing work") // includes registry_id
func EnrichLogger(logger *slog.Logger, registryID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("registry_id", registryID))
}

// LogRegistered logs a successful registration.
func LogRegistered(logger *slog.Logger, kind string, seq uint64, live int) {
	if logger == nil {
		return
	}
	logger.Debug("value registered",
		slog.String("kind", kind),
		slog.Uint64("seq", seq),
		slog.Int("live", live),
	)
}

// LogRegisterFailed logs a failed construction. retained reports whether an
// empty entry was stored anyway.
func LogRegisterFailed(logger *slog.Logger, kind string, err error, retained bool) {
	if logger == nil {
		return
	}
	logger.Warn("register failed",
		slog.String("kind", kind),
		slog.String("error", err.Error()),
		slog.Bool("retained", retained),
	)
}

// LogShutdownStart logs the start of a teardown.
func LogShutdownStart(logger *slog.Logger, live int) {
	if logger == nil {
		return
	}
	logger.Info("registry shutdown starting",
		slog.Int("live", live),
	)
}

// LogShutdownComplete logs teardown completion.
func LogShutdownComplete(logger *slog.Logger, destroyed, faults int, durationMs float64) {
	if logger == nil {
		return
	}
	level := slog.LevelInfo
	if faults > 0 {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "registry shutdown completed",
		slog.Int("destroyed", destroyed),
		slog.Int("faults", faults),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDestroyFault logs a destructor that panicked.
func LogDestroyFault(logger *slog.Logger, kind string, seq uint64, err error) {
	if logger == nil {
		return
	}
	logger.Error("destructor failed",
		slog.String("kind", kind),
		slog.Uint64("seq", seq),
		slog.String("error", err.Error()),
	)
}

// LogReportError logs a report that could not be persisted (non-fatal).
func LogReportError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("shutdown report not saved",
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
