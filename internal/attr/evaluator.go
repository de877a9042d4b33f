package attr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Evaluator produces a raw status from the previous and current values of an
// attribute. Implementations must be pure: same inputs, same status.
//
// Evaluators are named strategy types rather than free closures so that an
// attribute definition loaded from config, or rebuilt from storage, can refer
// to its evaluator by kind.
type Evaluator interface {
	Evaluate(previous, current any) Status
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface, for
// programmatic registration.
type EvaluatorFunc func(previous, current any) Status

func (f EvaluatorFunc) Evaluate(previous, current any) Status {
	return f(previous, current)
}

// Evaluator strategy kinds addressable from attribute definitions.
const (
	EvaluatorAlwaysOK        = "always-ok"
	EvaluatorMaxThreshold    = "max-threshold"
	EvaluatorRecordThreshold = "record-threshold"
)

// EvaluatorSpec describes an evaluator strategy by kind plus its parameters.
type EvaluatorSpec struct {
	Kind  string
	Warn  float64
	Error float64
	Field string
}

// NewEvaluator builds the named evaluator strategy. An empty kind means the
// attribute has no real policy and always evaluates OK, which is also how
// attributes rebuilt from storage behave.
func NewEvaluator(spec EvaluatorSpec) (Evaluator, error) {
	switch spec.Kind {
	case "", EvaluatorAlwaysOK:
		return AlwaysOK{}, nil
	case EvaluatorMaxThreshold:
		return MaxThreshold{Warn: spec.Warn, Error: spec.Error}, nil
	case EvaluatorRecordThreshold:
		return RecordThreshold{Field: spec.Field, Warn: spec.Warn, Error: spec.Error}, nil
	}
	return nil, fmt.Errorf("unknown evaluator kind: %q", spec.Kind)
}

// AlwaysOK reports OK whatever the values are. It is the no-op evaluator used
// when an attribute is reconstructed from a stored record, because evaluator
// configuration does not survive a storage round trip.
type AlwaysOK struct{}

func (AlwaysOK) Evaluate(previous, current any) Status {
	return StatusOK
}

// MaxThreshold flags a numeric value against warn and error ceilings. An
// unset value is OK. Values at or above Error report ERROR, at or above Warn
// report WARNING.
type MaxThreshold struct {
	Warn  float64
	Error float64
}

func (e MaxThreshold) Evaluate(previous, current any) Status {
	value, ok := toFloat(current)
	if !ok {
		return StatusOK
	}
	if value >= e.Error {
		return StatusError
	}
	if value >= e.Warn {
		return StatusWarning
	}
	return StatusOK
}

// RecordThreshold applies MaxThreshold semantics to one field of a summary
// record, e.g. the p99 of a percentile summary. A missing field or unset
// record is OK.
type RecordThreshold struct {
	Field string
	Warn  float64
	Error float64
}

func (e RecordThreshold) Evaluate(previous, current any) Status {
	record, ok := current.(map[string]float64)
	if !ok {
		return StatusOK
	}
	value, ok := record[e.Field]
	if !ok {
		return StatusOK
	}
	return MaxThreshold{Warn: e.Warn, Error: e.Error}.Evaluate(previous, value)
}

// Extractor converts one matched log line into a number, used by accumulator
// attributes. A parse failure skips the line without failing the pass.
type Extractor interface {
	Extract(line string) (float64, error)
}

// ExtractorFunc adapts an ordinary function to the Extractor interface.
type ExtractorFunc func(line string) (float64, error)

func (f ExtractorFunc) Extract(line string) (float64, error) {
	return f(line)
}

// ExtractorLastField is the stock extractor kind: the numeric field after the
// final ':' delimiter.
const ExtractorLastField = "last-field"

// NewExtractor builds the named extractor strategy. Empty kind selects the
// last-field default.
func NewExtractor(kind string) (Extractor, error) {
	switch kind {
	case "", ExtractorLastField:
		return LastField{}, nil
	}
	return nil, fmt.Errorf("unknown extractor kind: %q", kind)
}

// LastField parses the numeric field after the final ':' delimiter, matching
// the log line shape NAME: 123.4 that the reader selects on.
type LastField struct{}

func (LastField) Extract(line string) (float64, error) {
	return parseTrailingNumber(line)
}

// Reducer folds the whole matched-line set of a complex attribute into a flat
// summary record.
type Reducer interface {
	Reduce(lines []string) map[string]float64
}

// ReducerFunc adapts an ordinary function to the Reducer interface.
type ReducerFunc func(lines []string) map[string]float64

func (f ReducerFunc) Reduce(lines []string) map[string]float64 {
	return f(lines)
}

// ReducerPercentiles is the stock reducer kind.
const ReducerPercentiles = "percentiles"

// NewReducer builds the named reducer strategy. Empty kind selects the
// percentile default.
func NewReducer(kind string) (Reducer, error) {
	switch kind {
	case "", ReducerPercentiles:
		return Percentiles{}, nil
	}
	return nil, fmt.Errorf("unknown reducer kind: %q", kind)
}

// Percentiles summarizes the trailing numeric field of each line as
// min/p50/p90/p99/max plus count and mean. Unparsable lines are skipped.
type Percentiles struct{}

func (Percentiles) Reduce(lines []string) map[string]float64 {
	values := make([]float64, 0, len(lines))
	for _, line := range lines {
		value, err := parseTrailingNumber(line)
		if err != nil {
			continue
		}
		values = append(values, value)
	}

	if len(values) == 0 {
		return map[string]float64{
			"min": 0, "p50": 0, "p90": 0, "p99": 0, "max": 0,
		}
	}

	sort.Float64s(values)
	n := len(values)

	var total float64
	for _, v := range values {
		total += v
	}

	return map[string]float64{
		"min":   values[0],
		"p50":   values[percentileIndex(n, 0.5)],
		"p90":   values[percentileIndex(n, 0.9)],
		"p99":   values[percentileIndex(n, 0.99)],
		"max":   values[n-1],
		"count": float64(n),
		"avg":   total / float64(n),
	}
}

func percentileIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// parseTrailingNumber extracts the numeric field after the final ':' in a log
// line, e.g. "LATENCY: 123.4" yields 123.4.
func parseTrailingNumber(line string) (float64, error) {
	idx := strings.LastIndex(line, ":")
	field := line
	if idx >= 0 {
		field = line[idx+1:]
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("no numeric field in line %q: %w", line, err)
	}
	return value, nil
}

// toFloat normalizes the value types attributes hold into a float64 for
// threshold comparison. A nil or non-numeric value reports false.
func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	}
	return 0, false
}
