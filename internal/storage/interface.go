package storage

import "time"

// Backend defines the interface for all storage implementations. It is a
// deliberately thin sink: one metadata document describing the registered
// attributes, one batch row per save keyed by a generated identifier, and
// one values row per batch with a column per attribute. No transactional or
// durability guarantee is part of the contract.
type Backend interface {
	// SaveMetadata stores one JSON document describing all currently
	// registered attributes.
	SaveMetadata(doc []byte) error

	// LoadMetadata returns the most recently stored metadata document, or
	// nil when none has been stored.
	LoadMetadata() ([]byte, error)

	// InsertBatch records one processing batch under a generated id.
	InsertBatch(id string, createdAt time.Time) error

	// InsertValues records one row of attribute values for a batch, keyed
	// by column name. Values are raw numbers, JSON-encoded strings for
	// complex attributes, or nil for unset attributes.
	InsertValues(batchID string, values map[string]any) error

	Close() error
}

// BatchRow is one stored processing batch.
type BatchRow struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
