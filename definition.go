package logattrs

import (
	"fmt"

	"github.com/thisdougb/logattrs/internal/attr"
)

// Definition declares one attribute by data rather than code, so attribute
// sets can live in config files. Kind selects the attribute variant
// (numeric, count, accumulator, complex); Evaluator, Extractor and Reducer
// name strategies by kind.
type Definition struct {
	Name        string        `yaml:"name" json:"name"`
	Kind        string        `yaml:"kind" json:"kind"`
	Criticality string        `yaml:"criticality" json:"criticality"`
	Evaluator   EvaluatorSpec `yaml:"evaluator" json:"evaluator"`

	// Extractor names the line-to-number strategy for accumulator
	// attributes. Empty selects the last-field default.
	Extractor string `yaml:"extractor,omitempty" json:"extractor,omitempty"`

	// Reducer names the summary strategy for complex attributes. Empty
	// selects the percentile default.
	Reducer string `yaml:"reducer,omitempty" json:"reducer,omitempty"`
}

// EvaluatorSpec names an evaluator strategy and its parameters. Supported
// kinds: always-ok, max-threshold (warn/error ceilings on the value), and
// record-threshold (ceilings on one field of a complex summary record).
type EvaluatorSpec struct {
	Kind  string  `yaml:"kind" json:"kind"`
	Warn  float64 `yaml:"warn,omitempty" json:"warn,omitempty"`
	Error float64 `yaml:"error,omitempty" json:"error,omitempty"`
	Field string  `yaml:"field,omitempty" json:"field,omitempty"`
}

// buildAttribute constructs the concrete attribute a definition describes.
func buildAttribute(def Definition) (attr.Attribute, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("attribute definition has no name")
	}

	criticality, err := attr.ParseCriticality(def.Criticality)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", def.Name, err)
	}

	evaluator, err := attr.NewEvaluator(attr.EvaluatorSpec{
		Kind:  def.Evaluator.Kind,
		Warn:  def.Evaluator.Warn,
		Error: def.Evaluator.Error,
		Field: def.Evaluator.Field,
	})
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", def.Name, err)
	}

	switch def.Kind {
	case attr.KindNumeric:
		return attr.NewScalar(def.Name, criticality, evaluator), nil

	case attr.KindCount:
		return attr.NewCount(def.Name, criticality, evaluator), nil

	case attr.KindAccumulator:
		extractor, err := attr.NewExtractor(def.Extractor)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", def.Name, err)
		}
		return attr.NewAccumulator(def.Name, criticality, evaluator, extractor), nil

	case attr.KindComplex:
		reducer, err := attr.NewReducer(def.Reducer)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", def.Name, err)
		}
		return attr.NewComplex(def.Name, criticality, evaluator, reducer), nil
	}

	return nil, fmt.Errorf("attribute %q: %w: %q", def.Name, attr.ErrUnknownType, def.Kind)
}
