// Package report records what happened when a registry was torn down.
package report

import (
	"errors"
	"time"
)

// Store persists teardown reports.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a report, keyed by its registry ID.
	// Overwrites an existing report for the same registry.
	Save(r *Report) error

	// Load retrieves the report for a registry.
	// Returns ErrNotFound if no report exists.
	Load(registryID string) (*Report, error)

	// List returns metadata for all reports, oldest first.
	// Returns an empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a report.
	// Returns nil if the report doesn't exist.
	Delete(registryID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without decoding the full report.
type Info struct {
	RegistryID string
	Sequence   int
	Registered int
	Faults     int
	FinishedAt time.Time
}

// Sentinel errors for report storage.
var (
	// ErrNotFound indicates a report doesn't exist.
	ErrNotFound = errors.New("report not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("report store closed")

	// ErrNilReport indicates Save was called with a nil report.
	ErrNilReport = errors.New("report is nil")
)
