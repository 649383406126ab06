package scenario

// table.go — the immutable scenario table.
//
// The default table is embedded as YAML and decoded once at startup. Order is
// significant: it fixes the order artifacts are written in and the order of
// rows in every aggregate document.

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultTableYAML []byte

// Table is an ordered, read-only collection of scenarios.
type Table struct {
	scenarios []Scenario
}

type tableDoc struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// NewTable builds a table from scenarios in the given order.
func NewTable(scenarios ...Scenario) Table {
	return Table{scenarios: append([]Scenario(nil), scenarios...)}
}

// Default decodes the embedded scenario table.
func Default() (Table, error) {
	return Parse(defaultTableYAML)
}

// Parse decodes a YAML document with a top-level "scenarios" sequence.
func Parse(data []byte) (Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("parse scenario table: %w", err)
	}
	return NewTable(doc.Scenarios...), nil
}

// All returns a copy of the scenarios in table order.
func (t Table) All() []Scenario {
	return append([]Scenario(nil), t.scenarios...)
}

// Len returns the number of scenarios.
func (t Table) Len() int { return len(t.scenarios) }

// Lookup returns the scenario for branch. When several records share a
// branch the last one wins, matching what ends up on disk.
func (t Table) Lookup(branch string) (Scenario, error) {
	for i := len(t.scenarios) - 1; i >= 0; i-- {
		if t.scenarios[i].Branch == branch {
			return t.scenarios[i], nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownBranch, branch)
}
