package report

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists reports to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a report database.
// The path should be a file path (e.g., "./reports.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database is per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			registry_id TEXT PRIMARY KEY,
			sequence INTEGER NOT NULL,
			registered INTEGER NOT NULL,
			faults INTEGER NOT NULL,
			finished_at TEXT NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(r *Report) error {
	if r == nil {
		return ErrNilReport
	}
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO reports (registry_id, sequence, registered, faults, finished_at, data)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM reports), 0) + 1,
			?, ?, ?, ?
		)
		ON CONFLICT(registry_id) DO UPDATE SET
			sequence = (SELECT MAX(sequence) FROM reports) + 1,
			registered = excluded.registered,
			faults = excluded.faults,
			finished_at = excluded.finished_at,
			data = excluded.data
	`, r.RegistryID, r.Registered, r.Faults, r.FinishedAt.UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(registryID string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM reports WHERE registry_id = ?
	`, registryID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	r, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT registry_id, sequence, registered, faults, finished_at
		FROM reports
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var finished string
		if err := rows.Scan(&info.RegistryID, &info.Sequence, &info.Registered, &info.Faults, &finished); err != nil {
			return nil, fmt.Errorf("scan report info: %w", err)
		}
		info.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(registryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM reports WHERE registry_id = ?`, registryID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
