/*
Package logattrs extracts named metrics ("attributes") from plain-text log
files and evaluates each against a policy threshold, producing a tri-state
health status (OK/WARNING/ERROR).

An attribute names the log lines it cares about, e.g. every line containing
"LATENCY", and defines how those lines become a value: the last match
(scalar), a line count, a running sum (accumulator), or a summary record such
as percentiles (complex). Log files are read once per processing pass and
served from a cache, so many attributes can filter the same file cheaply.

Evaluation applies an escalation rule: an evaluator reports whether the value
is acceptable, and the attribute's criticality level decides how a non-OK
result surfaces. Critical attributes escalate to ERROR, relaxed attributes to
WARNING.

Example:

	s := logattrs.NewState()
	defer s.Close()

	s.AddDefinition(logattrs.Definition{
		Name:        "LATENCY",
		Kind:        "numeric",
		Criticality: "RELAXED",
		Evaluator: logattrs.EvaluatorSpec{
			Kind:  "max-threshold",
			Warn:  300,
			Error: 1000,
		},
	})

	ctx := context.Background()
	if err := s.ProcessLog(ctx, "/var/log/app.log"); err != nil {
		log.Printf("processing: %v", err)
	}

	for name, status := range s.EvaluateAll(nil) {
		fmt.Printf("%s: %s\n", name, status)
	}

Persistence Configuration:

	// Enable SQLite persistence via environment variables
	LOGATTRS_PERSISTENCE_ENABLED=true
	LOGATTRS_DB_PATH="/data/logattrs.db"

With persistence enabled, Save() writes the attribute metadata document plus
one batch of current values to SQLite, and LoadAttributes() rebuilds the
attribute set (identity and value only) from the stored metadata.
*/
package logattrs
