package attr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Attribute type tags used in stored records.
const (
	KindNumeric     = "numeric"
	KindCount       = "count"
	KindAccumulator = "accumulator"
	KindComplex     = "complex"
)

// ErrUnknownType reports a stored record carrying an unrecognized attribute
// type tag.
var ErrUnknownType = errors.New("unknown attribute type")

// Record is the flat serialized form of an attribute, the unit the storage
// collaborator consumes. Value holds a raw number for numeric, count and
// accumulator attributes, and a JSON-encoded summary record for complex
// attributes. A nil Value means the attribute was unset.
type Record struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Criticality string `json:"criticality"`
	Value       any    `json:"value"`
}

// FromRecord rebuilds an attribute from its stored record. Only identity and
// value survive a storage round trip: the rebuilt attribute carries the
// always-OK evaluator and the stock extractor/reducer, because strategy
// configuration is not persisted. An unrecognized type tag fails with
// ErrUnknownType.
func FromRecord(rec Record) (Attribute, error) {
	criticality, err := ParseCriticality(rec.Criticality)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild attribute %q: %w", rec.Name, err)
	}

	switch rec.Type {
	case KindNumeric:
		a := NewScalar(rec.Name, criticality, AlwaysOK{})
		if value, ok := toFloat(rec.Value); ok {
			a.SetValue(value)
		}
		return a, nil

	case KindCount:
		a := NewCount(rec.Name, criticality, AlwaysOK{})
		if value, ok := toFloat(rec.Value); ok {
			a.SetValue(int(value))
		}
		return a, nil

	case KindAccumulator:
		a := NewAccumulator(rec.Name, criticality, AlwaysOK{}, nil)
		if value, ok := toFloat(rec.Value); ok {
			a.SetValue(value)
		}
		return a, nil

	case KindComplex:
		a := NewComplex(rec.Name, criticality, AlwaysOK{}, nil)
		if encoded, ok := rec.Value.(string); ok && encoded != "" {
			var value map[string]float64
			if err := json.Unmarshal([]byte(encoded), &value); err != nil {
				return nil, fmt.Errorf("failed to decode complex value for %q: %w", rec.Name, err)
			}
			a.SetValue(value)
		}
		return a, nil
	}

	return nil, fmt.Errorf("%w: %q for attribute %q", ErrUnknownType, rec.Type, rec.Name)
}
