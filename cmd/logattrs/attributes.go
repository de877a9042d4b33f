package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thisdougb/logattrs"
)

// attributesFile is the YAML shape of an attribute definitions file:
//
//	attributes:
//	  - name: LATENCY
//	    kind: numeric
//	    criticality: RELAXED
//	    evaluator:
//	      kind: max-threshold
//	      warn: 300
//	      error: 1000
type attributesFile struct {
	Attributes []logattrs.Definition `yaml:"attributes"`
}

// loadDefinitions parses attribute definitions from a YAML file.
func loadDefinitions(path string) ([]logattrs.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes file %s: %w", path, err)
	}

	var file attributesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse attributes file %s: %w", path, err)
	}

	if len(file.Attributes) == 0 {
		return nil, fmt.Errorf("attributes file %s defines no attributes", path)
	}
	return file.Attributes, nil
}

// defaultDefinitions is the built-in attribute set used when no definitions
// file is configured: HTTP status, latency and memory gauges, error and
// warning counters, accumulated processing time, and response time
// percentiles.
func defaultDefinitions() []logattrs.Definition {
	return []logattrs.Definition{
		{
			Name:        "STATUS",
			Kind:        "numeric",
			Criticality: "CRITICAL",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "max-threshold", Warn: 400, Error: 500},
		},
		{
			Name:        "LATENCY",
			Kind:        "numeric",
			Criticality: "RELAXED",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "max-threshold", Warn: 300, Error: 1000},
		},
		{
			Name:        "MEMORY",
			Kind:        "numeric",
			Criticality: "RELAXED",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "max-threshold", Warn: 512, Error: 1024},
		},
		{
			Name:        "ERROR",
			Kind:        "count",
			Criticality: "CRITICAL",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "max-threshold", Warn: 3, Error: 6},
		},
		{
			Name:        "WARNING",
			Kind:        "count",
			Criticality: "RELAXED",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "always-ok"},
		},
		{
			Name:        "PROCESS_TIME",
			Kind:        "accumulator",
			Criticality: "RELAXED",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "max-threshold", Warn: 10, Error: 20},
		},
		{
			Name:        "RESPONSE_TIME",
			Kind:        "complex",
			Criticality: "CRITICAL",
			Evaluator:   logattrs.EvaluatorSpec{Kind: "record-threshold", Field: "p99", Warn: 500, Error: 1000},
		},
	}
}
