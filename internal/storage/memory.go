package storage

import (
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage. It is the
// development and test sink: same contract as SQLite, no file on disk.
type MemoryBackend struct {
	mu       sync.RWMutex
	metadata [][]byte
	batches  []BatchRow
	values   map[string]map[string]any // batch id -> column -> value
}

// NewMemoryBackend creates an empty in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string]map[string]any),
	}
}

// SaveMetadata appends a metadata document. LoadMetadata serves the latest.
func (m *MemoryBackend) SaveMetadata(doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(doc))
	copy(stored, doc)
	m.metadata = append(m.metadata, stored)
	return nil
}

// LoadMetadata returns the most recently saved metadata document.
func (m *MemoryBackend) LoadMetadata() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.metadata) == 0 {
		return nil, nil
	}
	latest := m.metadata[len(m.metadata)-1]
	doc := make([]byte, len(latest))
	copy(doc, latest)
	return doc, nil
}

// InsertBatch records one batch row.
func (m *MemoryBackend) InsertBatch(id string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, BatchRow{ID: id, CreatedAt: createdAt})
	return nil
}

// InsertValues records the values row for a batch. The batch must exist.
func (m *MemoryBackend) InsertValues(batchID string, values map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, batch := range m.batches {
		if batch.ID == batchID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown batch id: %q", batchID)
	}

	row := make(map[string]any, len(values))
	for column, value := range values {
		row[column] = value
	}
	m.values[batchID] = row
	return nil
}

// Close clears the stored data.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metadata = nil
	m.batches = nil
	m.values = make(map[string]map[string]any)
	return nil
}

// Batches returns the stored batch rows (for testing).
func (m *MemoryBackend) Batches() []BatchRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	batches := make([]BatchRow, len(m.batches))
	copy(batches, m.batches)
	return batches
}

// Values returns the values row for a batch (for testing).
func (m *MemoryBackend) Values(batchID string) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.values[batchID]
	if !ok {
		return nil
	}
	result := make(map[string]any, len(row))
	for column, value := range row {
		result[column] = value
	}
	return result
}
