// Package attr models log-derived metrics ("attributes") and their health
// evaluation. An attribute has a stable name, a criticality level, an
// evaluator strategy, and a current value extracted from log lines. Four
// kinds exist: scalar (last match), count (matching lines), accumulator
// (running sum), and complex (summary record built by a reducer).
package attr

import (
	"strings"

	"github.com/thisdougb/logattrs/internal/logreader"
)

// Attribute is the common contract of all attribute kinds.
type Attribute interface {
	// Name is the attribute's stable identifier, also used as the log line
	// match pattern and, lower-cased, as its storage column name.
	Name() string

	// Criticality reports the escalation policy fixed at construction.
	Criticality() Criticality

	// Kind reports the storage type tag: numeric, count, accumulator or
	// complex.
	Kind() string

	// Value returns the current extracted value, and false while no
	// extraction has succeeded yet.
	Value() (any, bool)

	// ProcessLog extracts the attribute's value from the log at path using
	// the cached reader. Lines that fail to parse are skipped, not fatal;
	// the result reports how many were matched and skipped.
	ProcessLog(reader *logreader.Reader, path string) (ProcessResult, error)

	// Evaluate computes the final status from the evaluator's raw result
	// and the criticality escalation rule.
	Evaluate(previous any) Status

	// Record returns the flat serialized form consumed by the storage
	// collaborator.
	Record() Record
}

// ProcessResult reports what one extraction pass observed, so parse skips are
// countable by callers instead of disappearing silently.
type ProcessResult struct {
	Matched int // lines selected by the attribute's pattern
	Skipped int // matched lines dropped by a parse failure
}

// ColumnName derives a storage column name from an attribute name:
// lower-cased, spaces replaced with underscores.
func ColumnName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// definition carries the identity shared by every attribute kind. Name,
// criticality and evaluator are fixed at construction and never mutated.
type definition struct {
	name        string
	criticality Criticality
	evaluator   Evaluator
}

func (d *definition) Name() string {
	return d.name
}

func (d *definition) Criticality() Criticality {
	return d.criticality
}

// evaluate runs the evaluator and applies the escalation rule. A raw OK
// passes through. Any non-OK result is escalated by criticality alone:
// critical attributes report ERROR, relaxed attributes report WARNING.
//
// TODO: the evaluator's own WARNING/ERROR split is discarded once the result
// is non-OK; revisit whether a relaxed attribute should ever surface ERROR.
func (d *definition) evaluate(previous, current any) Status {
	raw := d.evaluator.Evaluate(previous, current)
	if raw == StatusOK {
		return StatusOK
	}

	if d.criticality == CriticalityCritical {
		return StatusError
	}
	return StatusWarning
}
