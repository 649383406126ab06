// Package analysis aggregates trigger statistics across scenarios and ranks
// scenarios by probability. It is the Go counterpart of scripts/analyze.py
// and prints the same report.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"endgames/internal/render"
	"endgames/internal/scenario"
)

// Report is the result of Summarize.
type Report struct {
	Total      int
	Realized   int
	InProgress int
	Ranking    []Ranked
}

// Ranked is one line of the probability ranking.
type Ranked struct {
	Title       string
	Estimate    string
	Probability float64
}

// Load reads every branches/*/scenario.json beneath root, in lexical path order.
func Load(root string) ([]scenario.Scenario, error) {
	pattern := filepath.Join(root, "branches", "*", render.JSONFile)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(paths)

	out := make([]scenario.Scenario, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var s scenario.Scenario
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// FromTable returns the table's scenarios in table order, for analysis
// without a generated repository.
func FromTable(table scenario.Table) []scenario.Scenario {
	return table.All()
}

// Summarize counts triggers by status and ranks scenarios by descending
// probability. Ties keep input order. A malformed probability is an error.
func Summarize(scenarios []scenario.Scenario) (Report, error) {
	var r Report
	for _, s := range scenarios {
		for _, t := range s.Triggers {
			r.Total++
			switch t.CurrentStatus {
			case scenario.StatusRealized:
				r.Realized++
			case scenario.StatusInProgress:
				r.InProgress++
			}
		}
		p, err := s.Probability()
		if err != nil {
			return Report{}, err
		}
		r.Ranking = append(r.Ranking, Ranked{Title: s.Title, Estimate: s.ProbabilityEstimate, Probability: p})
	}
	sort.SliceStable(r.Ranking, func(i, j int) bool {
		return r.Ranking[i].Probability > r.Ranking[j].Probability
	})
	return r, nil
}

// Print writes the report in the format scripts/analyze.py uses.
func (r Report) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "總觸發節點: %d\n已實現: %d\n進行中: %d\n\n機率排序:\n",
		r.Total, r.Realized, r.InProgress); err != nil {
		return err
	}
	for _, e := range r.Ranking {
		if _, err := fmt.Fprintf(w, "%s - %s\n", e.Estimate, e.Title); err != nil {
			return err
		}
	}
	return nil
}
