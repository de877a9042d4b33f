package attr

import "fmt"

// Status is the outcome of evaluating an attribute. Values are ordered by
// severity, OK < Warning < Error, which keeps report sorting simple. Statuses
// are never combined arithmetically; escalation is rule-based (see Evaluate).
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

// String returns the canonical upper-case name used in reports and records.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusError:
		return "ERROR"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Criticality controls how a non-OK evaluation escalates. A critical
// attribute always escalates to ERROR, a relaxed attribute always to WARNING.
type Criticality string

const (
	CriticalityCritical Criticality = "CRITICAL"
	CriticalityRelaxed  Criticality = "RELAXED"
)

// ParseCriticality maps the stored upper-case name back to a Criticality.
func ParseCriticality(name string) (Criticality, error) {
	switch Criticality(name) {
	case CriticalityCritical:
		return CriticalityCritical, nil
	case CriticalityRelaxed:
		return CriticalityRelaxed, nil
	}
	return "", fmt.Errorf("unknown criticality level: %q", name)
}
