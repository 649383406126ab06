// Package render projects a single scenario into its three artifacts.
//
// Layout, relative to the output root:
//
//	branches/<branch>/scenario.json   complete record
//	branches/<branch>/scenario.md     human-readable summary
//	branches/<branch>/diagram.mmd     Mermaid source, verbatim
//
// Rendering is pure; nothing here touches the filesystem.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"endgames/internal/scenario"
)

// MaxSummaryTriggers bounds the trigger list in scenario.md. scenario.json
// always carries every trigger.
const MaxSummaryTriggers = 5

// Artifact file names inside a branch directory.
const (
	JSONFile    = "scenario.json"
	SummaryFile = "scenario.md"
	DiagramFile = "diagram.mmd"
)

// BranchDir returns the directory, relative to the output root, holding a
// scenario's artifacts.
func BranchDir(branch string) string {
	return path.Join("branches", branch)
}

// Scenario returns the three pages for s.
func Scenario(s scenario.Scenario) ([]Page, error) {
	doc, err := JSON(s)
	if err != nil {
		return nil, err
	}
	dir := BranchDir(s.Branch)
	return []Page{
		{Path: path.Join(dir, JSONFile), Content: doc},
		{Path: path.Join(dir, SummaryFile), Content: Summary(s)},
		{Path: path.Join(dir, DiagramFile), Content: s.Diagram},
	}, nil
}

// JSON serializes s with two-space indentation, leaving non-ASCII text and
// HTML characters unescaped.
func JSON(s scenario.Scenario) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("encode scenario %s: %w", s.ID, err)
	}
	return buf.String(), nil
}

// Summary builds scenario.md.
func Summary(s scenario.Scenario) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", s.Title))
	b.WriteString(fmt.Sprintf("**Branch:** `%s`  \n", s.Branch))
	b.WriteString(fmt.Sprintf("**Summary:** %s\n", s.Summary))
	b.WriteString(fmt.Sprintf("**Time horizon:** %s\n", s.TimeHorizon))
	b.WriteString(fmt.Sprintf("**Probability:** %s\n", s.ProbabilityEstimate))
	b.WriteString(fmt.Sprintf("**Status:** %s\n\n", s.Status))

	b.WriteString("## 1. 關鍵觸發節點（Top 5）\n")
	triggers := s.Triggers
	if len(triggers) > MaxSummaryTriggers {
		triggers = triggers[:MaxSummaryTriggers]
	}
	for i, t := range triggers {
		b.WriteString(fmt.Sprintf("%d. **%s** — %s (狀態: %s)\n", i+1, t.Title, t.Description, t.CurrentStatus))
	}

	b.WriteString("\n## 2. 主要參與者\n")
	b.WriteString(strings.Join(s.KeyActors, ", ") + "\n")

	b.WriteString("\n## 3. 主要後果\n")
	for _, c := range s.PrimaryConsequences {
		b.WriteString("- " + c + "\n")
	}

	b.WriteString("\n## 4. 監測訊號\n")
	b.WriteString(s.MonitoringSignal + "\n")

	b.WriteString("\n## 5. 緩解策略\n")
	b.WriteString(s.MitigationStrategy + "\n")

	b.WriteString("\n## 6. 數據來源\n")
	b.WriteString(strings.Join(s.DataSources, ", ") + "\n")

	return b.String()
}
