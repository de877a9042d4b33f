package attr

import "github.com/thisdougb/logattrs/internal/logreader"

// Accumulator holds a running sum over every matching log line, with a
// per-instance extractor turning each line into a number. Lines the
// extractor cannot parse are skipped and counted, never fatal. A pass with
// no matches sums to 0.0.
type Accumulator struct {
	definition
	extractor Extractor
	value     *float64
}

// NewAccumulator creates an accumulator attribute. A nil extractor selects
// the last-field default.
func NewAccumulator(name string, criticality Criticality, evaluator Evaluator, extractor Extractor) *Accumulator {
	if extractor == nil {
		extractor = LastField{}
	}
	return &Accumulator{
		definition: definition{
			name:        name,
			criticality: criticality,
			evaluator:   evaluator,
		},
		extractor: extractor,
	}
}

func (a *Accumulator) Kind() string {
	return KindAccumulator
}

func (a *Accumulator) Value() (any, bool) {
	if a.value == nil {
		return nil, false
	}
	return *a.value, true
}

// SetValue sets the current value directly, used when rebuilding from a
// stored record.
func (a *Accumulator) SetValue(value float64) {
	a.value = &value
}

// ProcessLog sums the extracted value of every line matching the attribute
// name, skipping lines the extractor rejects.
func (a *Accumulator) ProcessLog(reader *logreader.Reader, path string) (ProcessResult, error) {
	lines, err := reader.Read(path, a.name)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{Matched: len(lines)}

	var total float64
	for _, line := range lines {
		value, err := a.extractor.Extract(line)
		if err != nil {
			result.Skipped++
			continue
		}
		total += value
	}

	a.SetValue(total)
	return result, nil
}

func (a *Accumulator) Evaluate(previous any) Status {
	current, _ := a.Value()
	return a.evaluate(previous, current)
}

func (a *Accumulator) Record() Record {
	rec := Record{
		Name:        a.name,
		Type:        KindAccumulator,
		Criticality: string(a.criticality),
	}
	if a.value != nil {
		rec.Value = *a.value
	}
	return rec
}
