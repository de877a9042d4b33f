package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/thisdougb/logattrs/internal/attr"
	"github.com/thisdougb/logattrs/internal/logreader"
)

// stubAttribute implements attr.Attribute with scripted behavior, to observe
// how the registry drives its attributes.
type stubAttribute struct {
	name       string
	processErr error
	processed  []string
	previous   any
	status     attr.Status
}

func (s *stubAttribute) Name() string                  { return s.name }
func (s *stubAttribute) Criticality() attr.Criticality { return attr.CriticalityRelaxed }
func (s *stubAttribute) Kind() string                  { return attr.KindNumeric }
func (s *stubAttribute) Value() (any, bool)            { return nil, false }

func (s *stubAttribute) ProcessLog(reader *logreader.Reader, path string) (attr.ProcessResult, error) {
	if s.processErr != nil {
		return attr.ProcessResult{}, s.processErr
	}
	s.processed = append(s.processed, path)
	return attr.ProcessResult{}, nil
}

func (s *stubAttribute) Evaluate(previous any) attr.Status {
	s.previous = previous
	return s.status
}

func (s *stubAttribute) Record() attr.Record {
	return attr.Record{Name: s.name, Type: attr.KindNumeric, Criticality: "RELAXED"}
}

func writeLogFile(t *testing.T, lines string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("failed to write log fixture: %v", err)
	}
	return path
}

func TestRegisterAndGet(t *testing.T) {
	// Test registering an attribute and fetching it back by name.

	r := NewRegistry()
	r.Register(&stubAttribute{name: "LATENCY"})

	if _, ok := r.Get("LATENCY"); !ok {
		t.Errorf("registered attribute not found")
	}
	if _, ok := r.Get("MISSING"); ok {
		t.Errorf("unregistered name should not be found")
	}
}

func TestRegisterReplacesByName(t *testing.T) {
	// Test re-registering a name replaces the attribute, last registration
	// wins, and the processing position is kept.

	r := NewRegistry()
	first := &stubAttribute{name: "LATENCY", status: attr.StatusOK}
	second := &stubAttribute{name: "LATENCY", status: attr.StatusWarning}

	r.Register(first)
	r.Register(&stubAttribute{name: "MEMORY"})
	r.Register(second)

	if r.Len() != 2 {
		t.Errorf("expected 2 attributes, got %d", r.Len())
	}

	got, _ := r.Get("LATENCY")
	if got != attr.Attribute(second) {
		t.Errorf("last registration should win")
	}

	names := r.Names()
	if names[0] != "LATENCY" || names[1] != "MEMORY" {
		t.Errorf("replacement changed processing order: %v", names)
	}
}

func TestProcessLogRunsInRegistrationOrder(t *testing.T) {
	// Test a processing pass visits attributes in registration order.

	path := writeLogFile(t, "A: 1\n")

	var visited []string
	r := NewRegistry()
	for _, name := range []string{"C", "A", "B"} {
		a := &recordingAttribute{stubAttribute: stubAttribute{name: name}, visited: &visited}
		r.Register(a)
	}

	if err := r.ProcessLog(context.Background(), path); err != nil {
		t.Fatalf("ProcessLog failed: %v", err)
	}

	want := []string{"C", "A", "B"}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("processing order %v, want %v", visited, want)
		}
	}
}

// recordingAttribute appends its name to a shared slice on each pass.
type recordingAttribute struct {
	stubAttribute
	visited *[]string
}

func (a *recordingAttribute) ProcessLog(reader *logreader.Reader, path string) (attr.ProcessResult, error) {
	*a.visited = append(*a.visited, a.name)
	return attr.ProcessResult{}, nil
}

func TestProcessLogIsolatesFailures(t *testing.T) {
	// Test one attribute's extraction failure is reported but does not
	// abort the pass for the others.

	path := writeLogFile(t, "B: 1\n")

	failing := &stubAttribute{name: "A", processErr: fmt.Errorf("boom")}
	healthy := &stubAttribute{name: "B"}

	r := NewRegistry()
	r.Register(failing)
	r.Register(healthy)

	err := r.ProcessLog(context.Background(), path)
	if err == nil {
		t.Fatalf("expected joined error from failing attribute")
	}

	if len(healthy.processed) != 1 {
		t.Errorf("healthy attribute should still have processed")
	}
}

func TestProcessLogMissingFile(t *testing.T) {
	// Test a missing log file surfaces an error from real attributes but
	// the pass still completes.

	r := NewRegistry()
	r.Register(attr.NewScalar("STATUS", attr.CriticalityCritical, attr.AlwaysOK{}))
	r.Register(attr.NewCount("ERROR", attr.CriticalityCritical, attr.AlwaysOK{}))

	err := r.ProcessLog(context.Background(), "/no/such/file.log")
	if err == nil {
		t.Errorf("expected error for missing log file")
	}
}

func TestEvaluateAllPassesPreviousValues(t *testing.T) {
	// Test evaluateAll hands each attribute its entry from the previous
	// values map, or nil when absent.

	a := &stubAttribute{name: "LATENCY", status: attr.StatusOK}
	b := &stubAttribute{name: "MEMORY", status: attr.StatusOK}

	r := NewRegistry()
	r.Register(a)
	r.Register(b)

	r.EvaluateAll(map[string]any{"LATENCY": 250.0})

	if a.previous != 250.0 {
		t.Errorf("LATENCY should see previous value 250.0, got %v", a.previous)
	}
	if b.previous != nil {
		t.Errorf("MEMORY should see nil previous value, got %v", b.previous)
	}
}

func TestEvaluateAllCollectsStatuses(t *testing.T) {
	// Test evaluateAll maps each attribute name to its status.

	r := NewRegistry()
	r.Register(&stubAttribute{name: "A", status: attr.StatusOK})
	r.Register(&stubAttribute{name: "B", status: attr.StatusError})

	results := r.EvaluateAll(nil)

	if results["A"] != attr.StatusOK {
		t.Errorf("A: got %s, want OK", results["A"])
	}
	if results["B"] != attr.StatusError {
		t.Errorf("B: got %s, want ERROR", results["B"])
	}
}

func TestToRecords(t *testing.T) {
	// Test serializing the registry produces one record per attribute.

	r := NewRegistry()
	r.Register(&stubAttribute{name: "A"})
	r.Register(&stubAttribute{name: "B"})

	records := r.ToRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records["A"].Name != "A" {
		t.Errorf("record name mismatch: %v", records["A"])
	}
}

func TestReset(t *testing.T) {
	// Test reset clears all registered attributes.

	r := NewRegistry()
	r.Register(&stubAttribute{name: "A"})
	r.Reset()

	if r.Len() != 0 {
		t.Errorf("expected empty registry after reset, got %d", r.Len())
	}
	if len(r.Names()) != 0 {
		t.Errorf("expected no names after reset")
	}
}

func TestSharedReaderAcrossAttributes(t *testing.T) {
	// Test all attributes in a pass share the registry's single reader
	// cache: the file is read once however many attributes filter it.

	path := writeLogFile(t, "STATUS: 200\nERROR: timeout\n")

	reader := logreader.NewReader()
	r := NewRegistryWithReader(reader)
	r.Register(attr.NewScalar("STATUS", attr.CriticalityCritical, attr.AlwaysOK{}))
	r.Register(attr.NewCount("ERROR", attr.CriticalityCritical, attr.AlwaysOK{}))

	if err := r.ProcessLog(context.Background(), path); err != nil {
		t.Fatalf("ProcessLog failed: %v", err)
	}

	// both attributes extracted from one cached read
	status, _ := r.Get("STATUS")
	if value, ok := status.Value(); !ok || value != 200.0 {
		t.Errorf("STATUS: got %v (set=%v), want 200.0", value, ok)
	}
	count, _ := r.Get("ERROR")
	if value, ok := count.Value(); !ok || value != 1 {
		t.Errorf("ERROR: got %v (set=%v), want 1", value, ok)
	}
}

func TestProcessLogErrorWrapsAttributeName(t *testing.T) {
	// Test the joined pass error identifies which attribute failed.

	path := writeLogFile(t, "B: 1\n")

	sentinel := errors.New("bad extraction")
	r := NewRegistry()
	r.Register(&stubAttribute{name: "A", processErr: sentinel})

	err := r.ProcessLog(context.Background(), path)
	if !errors.Is(err, sentinel) {
		t.Errorf("joined error should wrap the attribute failure, got: %v", err)
	}
}
