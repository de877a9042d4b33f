package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/thisdougb/logattrs/internal/attr"
)

// ErrNotEnabled reports a persistence operation on a disabled manager.
var ErrNotEnabled = errors.New("persistence not enabled")

// Manager coordinates persistence between the registry and a storage
// backend. Saving is synchronous: a sink failure surfaces to the caller and
// never mutates registry state, because the registry is handed to the
// manager only as serialized records.
type Manager struct {
	backend Backend
	enabled bool
}

// NewManager creates a new persistence manager
func NewManager(backend Backend, enabled bool) *Manager {
	return &Manager{
		backend: backend,
		enabled: enabled,
	}
}

// NewManagerFromConfig creates a manager using environment variable
// configuration. A disabled configuration returns a no-op manager.
func NewManagerFromConfig() (*Manager, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !config.Enabled {
		return &Manager{backend: nil, enabled: false}, nil
	}

	return NewSQLiteManager(config.DBPath)
}

// NewSQLiteManager creates an enabled manager backed by the SQLite database
// at dbPath.
func NewSQLiteManager(dbPath string) (*Manager, error) {
	backend, err := NewSQLiteBackend(SQLiteConfig{DBPath: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
	}
	return &Manager{backend: backend, enabled: true}, nil
}

// SaveSnapshot persists one processing pass: the attribute metadata
// document, a batch row under a generated id, and the values row for that
// batch. It returns the batch id.
func (m *Manager) SaveSnapshot(records map[string]attr.Record) (string, error) {
	if !m.enabled || m.backend == nil {
		return "", ErrNotEnabled
	}

	doc, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode attribute metadata: %w", err)
	}
	if err := m.backend.SaveMetadata(doc); err != nil {
		return "", fmt.Errorf("failed to save attribute metadata: %w", err)
	}

	batchID := uuid.NewString()
	if err := m.backend.InsertBatch(batchID, time.Now()); err != nil {
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}

	values := make(map[string]any, len(records))
	for _, rec := range records {
		values[attr.ColumnName(rec.Name)] = rec.Value
	}
	if err := m.backend.InsertValues(batchID, values); err != nil {
		return "", fmt.Errorf("failed to insert batch values: %w", err)
	}

	return batchID, nil
}

// LoadAttributes rebuilds attributes from the most recently stored metadata
// document. Records with an unknown type tag are reported in the returned
// error but do not prevent the other attributes loading. Rebuilt attributes
// carry no-op strategies: only identity and value survive the round trip.
func (m *Manager) LoadAttributes() ([]attr.Attribute, error) {
	if !m.enabled || m.backend == nil {
		return nil, ErrNotEnabled
	}

	doc, err := m.backend.LoadMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to load attribute metadata: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var records map[string]attr.Record
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attribute metadata: %w", err)
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	var attrs []attr.Attribute
	var errs []error
	for _, name := range names {
		a, err := attr.FromRecord(records[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		attrs = append(attrs, a)
	}

	return attrs, errors.Join(errs...)
}

// Close gracefully shuts down the persistence manager
func (m *Manager) Close() error {
	if !m.enabled || m.backend == nil {
		return nil
	}
	return m.backend.Close()
}

// IsEnabled returns whether persistence is enabled
func (m *Manager) IsEnabled() bool {
	return m.enabled
}
