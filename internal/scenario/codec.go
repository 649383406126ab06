package scenario

// codec.go — scenario.json wire form.
//
// The JSON document keeps the legacy positional pair
// "mitigations_and_signals": [monitoring signal, mitigation strategy]
// while the Go record carries two named fields.

import (
	"bytes"
	"encoding/json"
)

type wireScenario struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Branch                string    `json:"branch"`
	Summary               string    `json:"summary"`
	ProbabilityEstimate   string    `json:"probability_estimate"`
	TimeHorizon           string    `json:"time_horizon"`
	Status                string    `json:"status"`
	Triggers              []Trigger `json:"triggers"`
	KeyActors             []string  `json:"key_actors"`
	PrimaryConsequences   []string  `json:"primary_consequences"`
	MitigationsAndSignals []string  `json:"mitigations_and_signals"`
	DataSources           []string  `json:"data_sources"`
}

// MarshalJSON emits every field, in record order. Nil sequences become [].
// Text is written verbatim: &, < and > are not escaped.
func (s Scenario) MarshalJSON() ([]byte, error) {
	triggers := s.Triggers
	if triggers == nil {
		triggers = []Trigger{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(wireScenario{
		ID:                    s.ID,
		Title:                 s.Title,
		Branch:                s.Branch,
		Summary:               s.Summary,
		ProbabilityEstimate:   s.ProbabilityEstimate,
		TimeHorizon:           s.TimeHorizon,
		Status:                s.Status,
		Triggers:              triggers,
		KeyActors:             orEmpty(s.KeyActors),
		PrimaryConsequences:   orEmpty(s.PrimaryConsequences),
		MitigationsAndSignals: []string{s.MonitoringSignal, s.MitigationStrategy},
		DataSources:           orEmpty(s.DataSources),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON accepts zero to two mitigations_and_signals entries;
// missing entries decode as "".
func (s *Scenario) UnmarshalJSON(data []byte) error {
	var w wireScenario
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Scenario{
		ID:                  w.ID,
		Title:               w.Title,
		Branch:              w.Branch,
		Summary:             w.Summary,
		ProbabilityEstimate: w.ProbabilityEstimate,
		TimeHorizon:         w.TimeHorizon,
		Status:              w.Status,
		Triggers:            w.Triggers,
		KeyActors:           w.KeyActors,
		PrimaryConsequences: w.PrimaryConsequences,
		DataSources:         w.DataSources,
	}
	if len(w.MitigationsAndSignals) > 0 {
		s.MonitoringSignal = w.MitigationsAndSignals[0]
	}
	if len(w.MitigationsAndSignals) > 1 {
		s.MitigationStrategy = w.MitigationsAndSignals[1]
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
