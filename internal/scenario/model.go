// Package scenario holds the scenario table: the records every generated
// artifact is projected from.
package scenario

// model.go — Scenario and Trigger records plus the trigger status vocabulary.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownStatus is returned when a trigger status is outside the vocabulary.
	ErrUnknownStatus = errors.New("unknown trigger status")

	// ErrInvalidProbability is returned when a probability estimate is not a percentage.
	ErrInvalidProbability = errors.New("invalid probability estimate")

	// ErrUnknownBranch is returned by Table.Lookup for a branch not in the table.
	ErrUnknownBranch = errors.New("unknown branch")
)

// Scenario is one hypothesized future outcome.
// Field order matches the order of keys in scenario.json.
type Scenario struct {
	ID                  string    `yaml:"id"`
	Title               string    `yaml:"title"`
	Branch              string    `yaml:"branch"`
	Summary             string    `yaml:"summary"`
	ProbabilityEstimate string    `yaml:"probability_estimate"`
	TimeHorizon         string    `yaml:"time_horizon"`
	Status              string    `yaml:"status"`
	Triggers            []Trigger `yaml:"triggers"`
	KeyActors           []string  `yaml:"key_actors"`
	PrimaryConsequences []string  `yaml:"primary_consequences"`
	MonitoringSignal    string    `yaml:"monitoring_signal"`
	MitigationStrategy  string    `yaml:"mitigation_strategy"`
	DataSources         []string  `yaml:"data_sources"`

	// Diagram is Mermaid flowchart source; it is written to diagram.mmd and
	// is not part of scenario.json.
	Diagram string `yaml:"mmd"`
}

// Trigger is a sub-event whose status is tracked as evidence for a scenario.
type Trigger struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	CurrentStatus Status `json:"current_status" yaml:"current_status"`
}

// Status is the occurrence state of a trigger. The zero value means the
// status was never recorded and serializes as "".
type Status int

const (
	StatusUnset Status = iota
	StatusNotOccurred
	StatusInProgress
	StatusRealized
)

var statusText = map[Status]string{
	StatusUnset:       "",
	StatusNotOccurred: "未發生",
	StatusInProgress:  "進行中",
	StatusRealized:    "已實現",
}

// String returns the serialized form ("未發生", "進行中", "已實現" or "").
func (s Status) String() string {
	return statusText[s]
}

// ParseStatus maps serialized text back to a Status.
func ParseStatus(text string) (Status, error) {
	for s, t := range statusText {
		if t == text {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("%w: %q", ErrUnknownStatus, text)
}

// MarshalText implements encoding.TextMarshaler for both JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	text, ok := statusText[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return []byte(text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for both JSON and YAML.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseProbability parses a percentage such as "35%" into 35.
func ParseProbability(estimate string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(estimate), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProbability, estimate)
	}
	return v, nil
}

// Probability is ParseProbability applied to the scenario's estimate.
func (s Scenario) Probability() (float64, error) {
	p, err := ParseProbability(s.ProbabilityEstimate)
	if err != nil {
		return 0, fmt.Errorf("scenario %s: %w", s.ID, err)
	}
	return p, nil
}
