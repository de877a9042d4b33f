package logattrs

import (
	"context"
	"encoding/json"
	"log"

	"github.com/thisdougb/logattrs/internal/attr"
	"github.com/thisdougb/logattrs/internal/core"
	"github.com/thisdougb/logattrs/internal/storage"
)

// Status is the tri-state evaluation outcome, ordered OK < WARNING < ERROR.
type Status = attr.Status

const (
	StatusOK      = attr.StatusOK
	StatusWarning = attr.StatusWarning
	StatusError   = attr.StatusError
)

// Criticality is an attribute's escalation policy.
type Criticality = attr.Criticality

const (
	CriticalityCritical = attr.CriticalityCritical
	CriticalityRelaxed  = attr.CriticalityRelaxed
)

// State is the public interface to one attribute monitoring flow: a registry
// of attributes, the shared log reader cache, and optional persistence.
type State struct {
	registry    *core.Registry
	persistence *storage.Manager
}

// NewState creates a new monitoring state instance. Persistence is
// initialized from environment configuration; a failure there logs a warning
// and continues without persistence.
func NewState() *State {
	persistence, err := storage.NewManagerFromConfig()
	if err != nil {
		log.Printf("Warning: Failed to initialize persistence: %v", err)
		persistence = storage.NewManager(nil, false)
	}

	return &State{
		registry:    core.NewRegistry(),
		persistence: persistence,
	}
}

// NewStateWithPersistence creates a state instance with the specified
// persistence manager.
func NewStateWithPersistence(persistence *storage.Manager) *State {
	return &State{
		registry:    core.NewRegistry(),
		persistence: persistence,
	}
}

// AddDefinition builds the attribute a definition describes and registers
// it. Registering a name twice replaces the earlier attribute.
func (s *State) AddDefinition(def Definition) error {
	a, err := buildAttribute(def)
	if err != nil {
		return err
	}
	s.registry.Register(a)
	return nil
}

// Names returns the registered attribute names in registration order.
func (s *State) Names() []string {
	return s.registry.Names()
}

// ProcessLog extracts every registered attribute's value from the log at
// path. The path's cache entry is invalidated first so each call observes
// the file's current contents; within the pass all attributes share one
// read. One attribute's failure does not stop the others; the returned
// error joins any individual failures.
func (s *State) ProcessLog(ctx context.Context, path string) error {
	s.registry.Reader().Invalidate(path)
	return s.registry.ProcessLog(ctx, path)
}

// EvaluateAll evaluates every registered attribute, passing each the
// corresponding entry from previous (or nil when absent), and returns a
// mapping of attribute name to final status.
func (s *State) EvaluateAll(previous map[string]any) map[string]Status {
	return s.registry.EvaluateAll(previous)
}

// Values returns the current extracted value of every attribute that has
// one.
func (s *State) Values() map[string]any {
	values := make(map[string]any)
	for name, a := range s.registry.List() {
		if value, ok := a.Value(); ok {
			values[name] = value
		}
	}
	return values
}

// reportEntry is the per-attribute shape of Dump() output.
type reportEntry struct {
	Kind        string `json:"kind"`
	Criticality string `json:"criticality"`
	Value       any    `json:"value"`
	Status      string `json:"status"`
}

// Dump returns a JSON byte-string of every attribute's identity, current
// value and status.
func (s *State) Dump() string {
	statuses := s.registry.EvaluateAll(nil)

	report := make(map[string]reportEntry)
	for name, a := range s.registry.List() {
		value, _ := a.Value()
		report[name] = reportEntry{
			Kind:        a.Kind(),
			Criticality: string(a.Criticality()),
			Value:       value,
			Status:      statuses[name].String(),
		}
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		log.Printf("JSON Marshalling failed: %s", err)
		return "{}"
	}
	return string(data)
}

// Save persists the attribute metadata document and one batch of current
// values, returning the generated batch id. A sink failure surfaces as the
// error and leaves in-memory state untouched.
func (s *State) Save() (string, error) {
	return s.persistence.SaveSnapshot(s.registry.ToRecords())
}

// SaveTo persists the metadata document and one batch of current values to
// the SQLite database at dbPath, returning the generated batch id. It opens
// and closes its own sink, independent of the state's configured
// persistence.
func (s *State) SaveTo(dbPath string) (string, error) {
	manager, err := storage.NewSQLiteManager(dbPath)
	if err != nil {
		return "", err
	}
	defer manager.Close()

	return manager.SaveSnapshot(s.registry.ToRecords())
}

// LoadAttributes rebuilds the attribute set from stored metadata and
// registers the result. Rebuilt attributes keep identity and value only;
// evaluator and extractor configuration does not survive a round trip.
func (s *State) LoadAttributes() error {
	attrs, err := s.persistence.LoadAttributes()
	for _, a := range attrs {
		s.registry.Register(a)
	}
	return err
}

// InvalidateCache drops one path from the log reader cache.
func (s *State) InvalidateCache(path string) {
	s.registry.Reader().Invalidate(path)
}

// ClearCache drops all cached log file content.
func (s *State) ClearCache() {
	s.registry.Reader().Clear()
}

// Reset clears all registered attributes and cached log content.
func (s *State) Reset() {
	s.registry.Reset()
}

// Close gracefully shuts down persistence.
func (s *State) Close() error {
	return s.persistence.Close()
}
