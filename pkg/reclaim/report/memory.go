package report

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory report store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]storedReport
	seq     int
	closed  bool
}

type storedReport struct {
	data     []byte
	sequence int
	info     Info
}

// NewMemoryStore creates a new in-memory report store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]storedReport),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(r *Report) error {
	if r == nil {
		return ErrNilReport
	}
	// Stored encoded so callers can't mutate what we hold.
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.seq++
	m.reports[r.RegistryID] = storedReport{
		data:     data,
		sequence: m.seq,
		info: Info{
			RegistryID: r.RegistryID,
			Sequence:   m.seq,
			Registered: r.Registered,
			Faults:     r.Faults,
			FinishedAt: r.FinishedAt,
		},
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(registryID string) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored, ok := m.reports[registryID]
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(stored.data)
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.reports))
	for _, stored := range m.reports {
		infos = append(infos, stored.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Sequence < infos[j].Sequence
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(registryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.reports, registryID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.reports = nil
	return nil
}

// Len returns the number of stored reports.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}
