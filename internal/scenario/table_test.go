package scenario_test

import (
	"errors"
	"testing"

	"endgames/internal/scenario"
)

func TestDefaultTable(t *testing.T) {
	table, err := scenario.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if table.Len() != 12 {
		t.Fatalf("expected 12 scenarios, got %d", table.Len())
	}

	all := table.All()
	if all[0].Branch != "nuclear-peace" || all[11].Branch != "ai-geopower" {
		t.Errorf("table order changed: first %q last %q", all[0].Branch, all[11].Branch)
	}

	seen := make(map[string]bool)
	for _, s := range all {
		if s.Branch == "" {
			t.Errorf("scenario %s has empty branch", s.ID)
		}
		if seen[s.Branch] {
			t.Errorf("duplicate branch %q", s.Branch)
		}
		seen[s.Branch] = true
		if _, err := s.Probability(); err != nil {
			t.Errorf("scenario %s: %v", s.ID, err)
		}
		if s.MonitoringSignal == "" {
			t.Errorf("scenario %s has no monitoring signal", s.ID)
		}
	}
}

func TestDefaultTableFirstRecord(t *testing.T) {
	table, err := scenario.Default()
	if err != nil {
		t.Fatal(err)
	}
	s, err := table.Lookup("nuclear-peace")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.ProbabilityEstimate != "10%" {
		t.Errorf("probability: got %q", s.ProbabilityEstimate)
	}
	if len(s.Triggers) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(s.Triggers))
	}
	if s.Triggers[0].CurrentStatus != scenario.StatusNotOccurred {
		t.Errorf("trigger status: got %v", s.Triggers[0].CurrentStatus)
	}
	if s.MitigationStrategy != "觀察軍事撤離進度" {
		t.Errorf("mitigation strategy: got %q", s.MitigationStrategy)
	}
	want := "flowchart LR\n  T1 --> T2 --> Outcome[Nuclear Peace]"
	if s.Diagram != want {
		t.Errorf("diagram: got %q want %q", s.Diagram, want)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	table := scenario.NewTable(scenario.Scenario{ID: "a", Branch: "a"})
	all := table.All()
	all[0].Branch = "mutated"
	if table.All()[0].Branch != "a" {
		t.Error("All must not expose the table's backing slice")
	}
}

func TestLookupUnknown(t *testing.T) {
	table := scenario.NewTable(scenario.Scenario{ID: "a", Branch: "a"})
	_, err := table.Lookup("missing")
	if !errors.Is(err, scenario.ErrUnknownBranch) {
		t.Fatalf("expected ErrUnknownBranch, got %v", err)
	}
}

func TestLookupDuplicateBranchLastWins(t *testing.T) {
	table := scenario.NewTable(
		scenario.Scenario{ID: "first", Branch: "dup"},
		scenario.Scenario{ID: "second", Branch: "dup"},
	)
	s, err := table.Lookup("dup")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "second" {
		t.Errorf("expected the later record, got %s", s.ID)
	}
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	doc := []byte(`
scenarios:
  - id: x
    branch: x
    triggers:
      - id: t1
        current_status: "maybe"
`)
	_, err := scenario.Parse(doc)
	if err == nil {
		t.Fatal("expected error for unknown trigger status")
	}
}

func TestParseMissingFieldsAreEmpty(t *testing.T) {
	table, err := scenario.Parse([]byte("scenarios:\n  - id: bare\n    branch: bare\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := table.All()[0]
	if s.Title != "" || s.MonitoringSignal != "" || len(s.Triggers) != 0 {
		t.Errorf("expected empty optional fields, got %+v", s)
	}
}
