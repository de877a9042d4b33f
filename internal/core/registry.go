// Package core implements the attribute registry behind the public facade.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thisdougb/logattrs/internal/attr"
	"github.com/thisdougb/logattrs/internal/config"
	"github.com/thisdougb/logattrs/internal/logreader"
)

// Registry is the catalogue of attributes for one monitoring flow. It owns
// the shared log reader cache and drives batch extraction and evaluation
// across every registered attribute. Registries are constructed explicitly
// and passed by reference; there is no process-wide instance, so tests build
// their own instead of resetting shared state.
type Registry struct {
	mu     sync.Mutex
	reader *logreader.Reader
	order  []string
	attrs  map[string]attr.Attribute
}

// NewRegistry creates an empty registry with its own log reader cache.
func NewRegistry() *Registry {
	return NewRegistryWithReader(logreader.NewReader())
}

// NewRegistryWithReader creates an empty registry using the supplied reader,
// so registries can share one cache when they process the same files.
func NewRegistryWithReader(reader *logreader.Reader) *Registry {
	return &Registry{
		reader: reader,
		attrs:  make(map[string]attr.Attribute),
	}
}

// Reader returns the registry's log reader cache, for invalidation before a
// re-processing pass.
func (r *Registry) Reader() *logreader.Reader {
	return r.reader
}

// Register inserts an attribute, replacing any existing attribute with the
// same name. A replaced attribute keeps its original processing position so
// pass order stays deterministic.
func (r *Registry) Register(a attr.Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.attrs[a.Name()]; !exists {
		r.order = append(r.order, a.Name())
	}
	r.attrs[a.Name()] = a
}

// Get returns the attribute registered under name.
func (r *Registry) Get(name string) (attr.Attribute, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attrs[name]
	return a, ok
}

// List returns a snapshot mapping of all registered attributes.
func (r *Registry) List() map[string]attr.Attribute {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]attr.Attribute, len(r.attrs))
	for name, a := range r.attrs {
		snapshot[name] = a
	}
	return snapshot
}

// Names returns the attribute names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered attributes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attrs)
}

// ProcessLog runs every registered attribute's extraction against the log at
// path, in registration order. One attribute's failure does not abort the
// pass: failures are collected and returned joined, and every other
// attribute still processes.
func (r *Registry) ProcessLog(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range r.order {
		a := r.attrs[name]

		result, err := a.ProcessLog(r.reader, path)
		if err != nil {
			config.LogError(ctx, fmt.Sprintf("attribute %s: failed to process %s: %v", name, path, err))
			errs = append(errs, fmt.Errorf("attribute %q: %w", name, err))
			continue
		}

		if result.Skipped > 0 {
			config.LogDebug(ctx, fmt.Sprintf("attribute %s: skipped %d unparsable of %d matched lines",
				name, result.Skipped, result.Matched))
		}
	}

	return errors.Join(errs...)
}

// EvaluateAll evaluates every registered attribute, passing each the
// corresponding entry from previous (or nil when absent), and returns a
// mapping of attribute name to final status. Evaluation itself never fails:
// an unset value evaluates OK at worst.
func (r *Registry) EvaluateAll(previous map[string]any) map[string]attr.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := make(map[string]attr.Status, len(r.attrs))
	for name, a := range r.attrs {
		results[name] = a.Evaluate(previous[name])
	}
	return results
}

// ToRecords serializes every registered attribute for handoff to the storage
// collaborator.
func (r *Registry) ToRecords() map[string]attr.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make(map[string]attr.Record, len(r.attrs))
	for name, a := range r.attrs {
		records[name] = a.Record()
	}
	return records
}

// Reset clears all registered attributes and the reader cache, ready for a
// fresh attribute set.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.attrs = make(map[string]attr.Attribute)
	r.reader.Clear()
}
