package report

import (
	"encoding/json"
	"time"
)

// Version is the current report format version.
// Increment when making breaking changes to report structure.
const Version = 1

// Report summarizes one registry teardown.
type Report struct {
	Version    int    `json:"version"`
	RegistryID string `json:"registry_id"`

	// Registered is the number of entries owned when teardown began.
	Registered int `json:"registered"`

	// Destroyed is the number of destructors that returned normally.
	Destroyed int `json:"destroyed"`

	// Faults is the number of destructors that panicked.
	Faults int `json:"faults"`

	// Kinds counts entries per kind name. Entries registered without a
	// kind name are counted under the empty string.
	Kinds map[string]int `json:"kinds,omitempty"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// New creates an empty report for a registry, stamped with the current time.
func New(registryID string) *Report {
	return &Report{
		Version:    Version,
		RegistryID: registryID,
		Kinds:      make(map[string]int),
		StartedAt:  time.Now().UTC(),
	}
}

// Count records one entry of the given kind.
func (r *Report) Count(kind string) {
	if r.Kinds == nil {
		r.Kinds = make(map[string]int)
	}
	r.Registered++
	r.Kinds[kind]++
}

// Finish stamps the finish time and duration.
func (r *Report) Finish() *Report {
	r.FinishedAt = time.Now().UTC()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	return r
}

// Clean reports whether every entry was destroyed without a fault.
func (r *Report) Clean() bool {
	return r.Faults == 0 && r.Destroyed == r.Registered
}

// Marshal serializes a report to JSON.
func (r *Report) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a report from JSON.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
