package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/thisdougb/logattrs/internal/attr"
)

// failingBackend errors on every write, to observe sink failures surfacing.
type failingBackend struct {
	err error
}

func (f *failingBackend) SaveMetadata(doc []byte) error                       { return f.err }
func (f *failingBackend) LoadMetadata() ([]byte, error)                       { return nil, f.err }
func (f *failingBackend) InsertBatch(id string, createdAt time.Time) error    { return f.err }
func (f *failingBackend) InsertValues(id string, values map[string]any) error { return f.err }
func (f *failingBackend) Close() error                                        { return nil }

func testRecords() map[string]attr.Record {
	scalar := attr.NewScalar("LATENCY", attr.CriticalityRelaxed, attr.AlwaysOK{})
	scalar.SetValue(123.4)

	complexAttr := attr.NewComplex("RESPONSE TIME", attr.CriticalityCritical, attr.AlwaysOK{}, nil)
	complexAttr.SetValue(map[string]float64{"p50": 120})

	return map[string]attr.Record{
		"LATENCY":       scalar.Record(),
		"RESPONSE TIME": complexAttr.Record(),
	}
}

func TestSaveSnapshot(t *testing.T) {
	// Test a snapshot stores the metadata document, one batch row, and a
	// values row keyed by storage column names.

	backend := NewMemoryBackend()
	m := NewManager(backend, true)

	batchID, err := m.SaveSnapshot(testRecords())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if batchID == "" {
		t.Fatalf("expected a generated batch id")
	}

	doc, _ := backend.LoadMetadata()
	if doc == nil {
		t.Errorf("metadata document not stored")
	}

	batches := backend.Batches()
	if len(batches) != 1 || batches[0].ID != batchID {
		t.Fatalf("expected one batch under %s, got %v", batchID, batches)
	}

	row := backend.Values(batchID)
	if row["latency"] != 123.4 {
		t.Errorf("latency column: got %v, want 123.4", row["latency"])
	}
	if _, ok := row["response_time"].(string); !ok {
		t.Errorf("complex value should be stored JSON-encoded, got %T", row["response_time"])
	}
}

func TestSaveSnapshotUniqueBatchIDs(t *testing.T) {
	// Test each snapshot gets its own generated batch id.

	m := NewManager(NewMemoryBackend(), true)

	first, err := m.SaveSnapshot(testRecords())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	second, err := m.SaveSnapshot(testRecords())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if first == second {
		t.Errorf("batch ids should be unique, both were %s", first)
	}
}

func TestSaveSnapshotDisabled(t *testing.T) {
	// Test saving through a disabled manager fails with ErrNotEnabled.

	m := NewManager(nil, false)

	if _, err := m.SaveSnapshot(testRecords()); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("expected ErrNotEnabled, got: %v", err)
	}
}

func TestSaveSnapshotSinkFailureSurfaces(t *testing.T) {
	// Test a sink failure surfaces to the caller.

	sentinel := errors.New("disk full")
	m := NewManager(&failingBackend{err: sentinel}, true)

	if _, err := m.SaveSnapshot(testRecords()); !errors.Is(err, sentinel) {
		t.Errorf("expected sink failure to surface, got: %v", err)
	}
}

func TestLoadAttributesRoundTrip(t *testing.T) {
	// Test attributes rebuilt from stored metadata keep identity and
	// value.

	backend := NewMemoryBackend()
	m := NewManager(backend, true)

	if _, err := m.SaveSnapshot(testRecords()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	attrs, err := m.LoadAttributes()
	if err != nil {
		t.Fatalf("LoadAttributes failed: %v", err)
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}

	// sorted by name: LATENCY first
	if attrs[0].Name() != "LATENCY" {
		t.Errorf("got %s, want LATENCY", attrs[0].Name())
	}
	value, ok := attrs[0].Value()
	if !ok || value != 123.4 {
		t.Errorf("value not preserved: %v (set=%v)", value, ok)
	}
}

func TestLoadAttributesSkipsUnknownTypes(t *testing.T) {
	// Test an unknown type tag in stored metadata is reported without
	// preventing the valid attributes loading.

	backend := NewMemoryBackend()
	doc := `{
		"GOOD": {"name": "GOOD", "type": "numeric", "criticality": "RELAXED", "value": 1.5},
		"BAD":  {"name": "BAD", "type": "histogram", "criticality": "RELAXED", "value": null}
	}`
	if err := backend.SaveMetadata([]byte(doc)); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	m := NewManager(backend, true)

	attrs, err := m.LoadAttributes()
	if !errors.Is(err, attr.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType in joined error, got: %v", err)
	}
	if len(attrs) != 1 || attrs[0].Name() != "GOOD" {
		t.Errorf("valid attribute should still load, got %v", attrs)
	}
}

func TestLoadAttributesEmptyStore(t *testing.T) {
	// Test loading from a backend with no stored metadata returns nothing
	// without error.

	m := NewManager(NewMemoryBackend(), true)

	attrs, err := m.LoadAttributes()
	if err != nil {
		t.Fatalf("LoadAttributes failed: %v", err)
	}
	if attrs != nil {
		t.Errorf("expected no attributes, got %v", attrs)
	}
}

func TestLoadAttributesDisabled(t *testing.T) {
	// Test loading through a disabled manager fails with ErrNotEnabled.

	m := NewManager(nil, false)

	if _, err := m.LoadAttributes(); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("expected ErrNotEnabled, got: %v", err)
	}
}
