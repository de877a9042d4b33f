package attr

import "github.com/thisdougb/logattrs/internal/logreader"

// Count holds the number of log lines matching its name, e.g. how many ERROR
// lines a log contains. Unlike the other kinds a processing pass always sets
// a value: zero matches means a value of 0, not unset.
type Count struct {
	definition
	value *int
}

// NewCount creates a count attribute.
func NewCount(name string, criticality Criticality, evaluator Evaluator) *Count {
	return &Count{definition: definition{
		name:        name,
		criticality: criticality,
		evaluator:   evaluator,
	}}
}

func (a *Count) Kind() string {
	return KindCount
}

func (a *Count) Value() (any, bool) {
	if a.value == nil {
		return nil, false
	}
	return *a.value, true
}

// SetValue sets the current value directly, used when rebuilding from a
// stored record.
func (a *Count) SetValue(value int) {
	a.value = &value
}

// ProcessLog counts the lines matching the attribute name.
func (a *Count) ProcessLog(reader *logreader.Reader, path string) (ProcessResult, error) {
	lines, err := reader.Read(path, a.name)
	if err != nil {
		return ProcessResult{}, err
	}

	a.SetValue(len(lines))
	return ProcessResult{Matched: len(lines)}, nil
}

func (a *Count) Evaluate(previous any) Status {
	current, _ := a.Value()
	return a.evaluate(previous, current)
}

func (a *Count) Record() Record {
	rec := Record{
		Name:        a.name,
		Type:        KindCount,
		Criticality: string(a.criticality),
	}
	if a.value != nil {
		rec.Value = *a.value
	}
	return rec
}
