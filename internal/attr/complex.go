package attr

import (
	"encoding/json"

	"github.com/thisdougb/logattrs/internal/logreader"
)

// Complex holds a flat summary record computed by a per-instance reducer
// over the whole matched-line set, e.g. percentile statistics of response
// times. With no matching lines the value stays unset rather than becoming
// an empty record.
type Complex struct {
	definition
	reducer Reducer
	value   map[string]float64
}

// NewComplex creates a complex attribute. A nil reducer selects the
// percentile default.
func NewComplex(name string, criticality Criticality, evaluator Evaluator, reducer Reducer) *Complex {
	if reducer == nil {
		reducer = Percentiles{}
	}
	return &Complex{
		definition: definition{
			name:        name,
			criticality: criticality,
			evaluator:   evaluator,
		},
		reducer: reducer,
	}
}

func (a *Complex) Kind() string {
	return KindComplex
}

func (a *Complex) Value() (any, bool) {
	if a.value == nil {
		return nil, false
	}
	return a.value, true
}

// SetValue sets the current summary record directly, used when rebuilding
// from a stored record.
func (a *Complex) SetValue(value map[string]float64) {
	a.value = value
}

// ProcessLog runs the reducer over every line matching the attribute name.
// No matching lines leaves the value as it was.
func (a *Complex) ProcessLog(reader *logreader.Reader, path string) (ProcessResult, error) {
	lines, err := reader.Read(path, a.name)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{Matched: len(lines)}
	if len(lines) == 0 {
		return result, nil
	}

	a.SetValue(a.reducer.Reduce(lines))
	return result, nil
}

func (a *Complex) Evaluate(previous any) Status {
	current, _ := a.Value()
	return a.evaluate(previous, current)
}

// Record serializes the summary record as a JSON string, because the storage
// collaborator stores one flat value per attribute.
func (a *Complex) Record() Record {
	rec := Record{
		Name:        a.name,
		Type:        KindComplex,
		Criticality: string(a.criticality),
	}
	if a.value != nil {
		data, err := json.Marshal(a.value)
		if err == nil {
			rec.Value = string(data)
		}
	}
	return rec
}
