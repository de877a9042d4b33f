package attr

import "github.com/thisdougb/logattrs/internal/logreader"

// Scalar holds the last numeric value found for its name in a log, parsed
// from the field after the final ':' delimiter. Typical uses are gauges like
// latency or memory where only the most recent reading matters.
type Scalar struct {
	definition
	value *float64
}

// NewScalar creates a scalar attribute.
func NewScalar(name string, criticality Criticality, evaluator Evaluator) *Scalar {
	return &Scalar{definition: definition{
		name:        name,
		criticality: criticality,
		evaluator:   evaluator,
	}}
}

func (a *Scalar) Kind() string {
	return KindNumeric
}

func (a *Scalar) Value() (any, bool) {
	if a.value == nil {
		return nil, false
	}
	return *a.value, true
}

// SetValue sets the current value directly, used when rebuilding from a
// stored record.
func (a *Scalar) SetValue(value float64) {
	a.value = &value
}

// ProcessLog takes the last line matching the attribute name and parses its
// trailing numeric field. No matching lines, or a parse failure on the last
// match, leaves the value as it was.
func (a *Scalar) ProcessLog(reader *logreader.Reader, path string) (ProcessResult, error) {
	lines, err := reader.Read(path, a.name)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{Matched: len(lines)}
	if len(lines) == 0 {
		return result, nil
	}

	value, err := parseTrailingNumber(lines[len(lines)-1])
	if err != nil {
		result.Skipped = 1
		return result, nil
	}

	a.SetValue(value)
	return result, nil
}

func (a *Scalar) Evaluate(previous any) Status {
	current, _ := a.Value()
	return a.evaluate(previous, current)
}

func (a *Scalar) Record() Record {
	rec := Record{
		Name:        a.name,
		Type:        KindNumeric,
		Criticality: string(a.criticality),
	}
	if a.value != nil {
		rec.Value = *a.value
	}
	return rec
}
