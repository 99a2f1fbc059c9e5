package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/randalmurphal/reclaim/pkg/reclaim"
	"github.com/randalmurphal/reclaim/pkg/reclaim/observability"
	"github.com/randalmurphal/reclaim/pkg/reclaim/report"
)

// Report store drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// ErrInvalid indicates settings that fail validation.
var ErrInvalid = errors.New("invalid settings")

// Settings configures a registry.
type Settings struct {
	LogLevel     string  `yaml:"log_level" json:"log_level"`
	LogFormat    string  `yaml:"log_format" json:"log_format"`
	RetainFailed bool    `yaml:"retain_failed" json:"retain_failed"`
	Metrics      bool    `yaml:"metrics" json:"metrics"`
	Tracing      bool    `yaml:"tracing" json:"tracing"`
	Reports      Reports `yaml:"reports" json:"reports"`
}

// Reports selects where shutdown reports are kept.
type Reports struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		LogLevel:  "info",
		LogFormat: "text",
		Reports:   Reports{Driver: DriverNone},
	}
}

// Validate checks the settings for errors.
func (s Settings) Validate() error {
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, s.LogFormat)
	}
	switch s.Reports.Driver {
	case "", DriverNone, DriverMemory:
	case DriverSQLite:
		if s.Reports.Path == "" {
			return fmt.Errorf("%w: reports.path is required for sqlite", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: reports.driver %q", ErrInvalid, s.Reports.Driver)
	}
	return nil
}

// Level returns the configured log level.
func (s Settings) Level() slog.Level {
	level, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger builds a logger writing to w in the configured format.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: s.Level()}
	if strings.EqualFold(s.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// OpenStore opens the configured report store. It returns nil when reports
// are disabled.
func (s Settings) OpenStore() (report.Store, error) {
	switch s.Reports.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		return report.NewMemoryStore(), nil
	case DriverSQLite:
		store, err := report.NewSQLiteStore(s.Reports.Path)
		if err != nil {
			return nil, fmt.Errorf("open report store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: reports.driver %q", ErrInvalid, s.Reports.Driver)
	}
}

// Options converts the settings into registry options, logging to w. The
// returned store is nil when reports are disabled; the caller closes it.
func (s Settings) Options(w io.Writer) ([]reclaim.Option, report.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	opts := []reclaim.Option{reclaim.WithLogger(s.Logger(w))}
	if s.RetainFailed {
		opts = append(opts, reclaim.WithRetainFailed())
	}
	if s.Metrics {
		opts = append(opts, reclaim.WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		opts = append(opts, reclaim.WithSpanManager(observability.NewSpanManager()))
	}

	store, err := s.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, reclaim.WithReportStore(store))
	}
	return opts, store, nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, name)
	}
	return level, nil
}
