package assemble_test

// assemble_test.go — Tests for whole-repository generation.
//
// Tests build scenario tables directly, call Generate + render.WriteBundle,
// then assert on file contents.

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"endgames/internal/analysis"
	"endgames/internal/assemble"
	"endgames/internal/render"
	"endgames/internal/scenario"
	"endgames/internal/settings"
	"endgames/internal/tree"
	"endgames/internal/writer"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func nuclearPeace() scenario.Scenario {
	return scenario.Scenario{
		ID:                  "scenario-001",
		Title:               "Nuclear Peace",
		Branch:              "nuclear-peace",
		Summary:             "地緣緊張緩解",
		ProbabilityEstimate: "10%",
		TimeHorizon:         "2026-Q4",
		Status:              "🟡 進行中",
		Triggers: []scenario.Trigger{
			{ID: "t1", Title: "停火", Description: "協議", CurrentStatus: scenario.StatusNotOccurred},
			{ID: "t2", Title: "核查", Description: "對話", CurrentStatus: scenario.StatusNotOccurred},
		},
		MonitoringSignal: "signal",
		Diagram:          "flowchart LR\n  T1 --> T2 --> Outcome[Nuclear Peace]",
	}
}

func noTriggers() scenario.Scenario {
	return scenario.Scenario{
		ID:                  "scenario-002",
		Title:               "Quiet",
		Branch:              "quiet",
		ProbabilityEstimate: "25%",
		TimeHorizon:         "2026-Q3",
		Status:              "🟡 進行中",
	}
}

func generate(t *testing.T, table scenario.Table) string {
	t.Helper()
	bundle, err := assemble.Generate(table, settings.Default())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	root := t.TempDir()
	if err := render.WriteBundle(bundle, writer.New(root, nil)); err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("readFile %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

func TestGenerateLayout(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace(), noTriggers()))
	for _, rel := range []string{
		"README.md",
		"branches/README.md",
		"branches/nuclear-peace/scenario.json",
		"branches/nuclear-peace/scenario.md",
		"branches/nuclear-peace/diagram.mmd",
		"branches/quiet/scenario.json",
		"branches/quiet/scenario.md",
		"branches/quiet/diagram.mmd",
		"scripts/analyze.py",
		".github/workflows/monthly-update.yml",
		".gitignore",
		"LICENSE",
	} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	info, err := os.Stat(filepath.Join(root, "scripts", "analyze.py"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("analyze.py mode: got %v", info.Mode().Perm())
	}
}

func TestGeneratePageOrder(t *testing.T) {
	bundle, err := assemble.Generate(scenario.NewTable(nuclearPeace(), noTriggers()), settings.Default())
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, p := range bundle.Pages() {
		paths = append(paths, p.Path)
	}
	want := []string{
		"branches/nuclear-peace/scenario.json",
		"branches/nuclear-peace/scenario.md",
		"branches/nuclear-peace/diagram.mmd",
		"branches/quiet/scenario.json",
		"branches/quiet/scenario.md",
		"branches/quiet/diagram.mmd",
		assemble.ReadmePath,
		assemble.BranchIndexPath,
		assemble.AnalyzePath,
		assemble.WorkflowPath,
		assemble.GitignorePath,
		assemble.LicensePath,
	}
	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("page order:\ngot  %v\nwant %v", paths, want)
	}
}

func TestGenerateDefaultTablePageCount(t *testing.T) {
	table, err := scenario.Default()
	if err != nil {
		t.Fatal(err)
	}
	bundle, err := assemble.Generate(table, settings.Default())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(bundle.Pages()), table.Len()*3+6; got != want {
		t.Errorf("pages: got %d want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// Per-scenario artifacts
// ---------------------------------------------------------------------------

func TestNuclearPeaceArtifacts(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace(), noTriggers()))

	var s scenario.Scenario
	data := readFile(t, filepath.Join(root, "branches", "nuclear-peace", "scenario.json"))
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("decode scenario.json: %v", err)
	}
	if len(s.Triggers) != 2 || s.Triggers[0].ID != "t1" || s.Triggers[1].ID != "t2" {
		t.Errorf("expected exactly triggers t1, t2, got %+v", s.Triggers)
	}

	readme := readFile(t, filepath.Join(root, "README.md"))
	row := "| Nuclear Peace | 10% | 2026-Q4 | 🟡 進行中 | [`nuclear-peace`](branches/nuclear-peace) |"
	if !strings.Contains(readme, row) {
		t.Errorf("README missing row %q:\n%s", row, readme)
	}

	mmd := readFile(t, filepath.Join(root, "branches", "nuclear-peace", "diagram.mmd"))
	if mmd != "flowchart LR\n  T1 --> T2 --> Outcome[Nuclear Peace]\n" {
		t.Errorf("diagram.mmd: got %q", mmd)
	}
}

func TestEmptyTriggersScenario(t *testing.T) {
	root := generate(t, scenario.NewTable(noTriggers()))
	md := readFile(t, filepath.Join(root, "branches", "quiet", "scenario.md"))
	if !strings.Contains(md, "## 1. 關鍵觸發節點（Top 5）\n\n## 2. 主要參與者") {
		t.Errorf("expected empty trigger list:\n%s", md)
	}
	mmd := readFile(t, filepath.Join(root, "branches", "quiet", "diagram.mmd"))
	if mmd != "\n" {
		t.Errorf("empty diagram should be a single newline, got %q", mmd)
	}
}

func TestDuplicateBranchOverwrites(t *testing.T) {
	first := nuclearPeace()
	second := noTriggers()
	second.Branch = first.Branch
	root := generate(t, scenario.NewTable(first, second))

	md := readFile(t, filepath.Join(root, "branches", "nuclear-peace", "scenario.md"))
	if !strings.HasPrefix(md, "# Quiet\n") {
		t.Errorf("second record should overwrite the first:\n%s", md)
	}
	entries, err := os.ReadDir(filepath.Join(root, "branches"))
	if err != nil {
		t.Fatal(err)
	}
	// nuclear-peace/ plus README.md
	if len(entries) != 2 {
		t.Errorf("expected one branch directory, got %d entries", len(entries))
	}
}

// ---------------------------------------------------------------------------
// Aggregate pages
// ---------------------------------------------------------------------------

func TestReadme(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace(), noTriggers()))
	readme := readFile(t, filepath.Join(root, "README.md"))

	for _, want := range []string{
		"# 2026-Endgames: AI & Geopolitical Scenarios\n",
		"2 種可能的未來結局",
		"| 結局 | 機率 | 時間軸 | 狀態 | 分支 |\n|---|---:|---|---|---|\n",
		"**Maintainer:** @ORIGNALBLUE\n",
		"**Last Updated:** 2025-12-10\n",
	} {
		if !strings.Contains(readme, want) {
			t.Errorf("README missing %q", want)
		}
	}
	if strings.Index(readme, "Nuclear Peace") > strings.Index(readme, "| Quiet |") {
		t.Error("README rows must follow table order")
	}
}

func TestReadmeDefaultTableCount(t *testing.T) {
	table, err := scenario.Default()
	if err != nil {
		t.Fatal(err)
	}
	root := generate(t, table)
	readme := readFile(t, filepath.Join(root, "README.md"))
	if !strings.Contains(readme, "12 種可能的未來結局") {
		t.Errorf("README count line missing:\n%s", readme)
	}
	if got := strings.Count(readme, "](branches/"); got != 12 {
		t.Errorf("expected 12 rows, got %d", got)
	}
}

func TestBranchIndex(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace()))
	idx := readFile(t, filepath.Join(root, "branches", "README.md"))
	for _, want := range []string{
		"# Branches\n",
		"## [Nuclear Peace](nuclear-peace)\n",
		"**Summary:** 地緣緊張緩解\n",
		"**Probability:** 10% | **Status:** 🟡 進行中\n",
		"Files: [JSON](nuclear-peace/scenario.json) | [MD](nuclear-peace/scenario.md) | [Diagram](nuclear-peace/diagram.mmd)\n",
	} {
		if !strings.Contains(idx, want) {
			t.Errorf("branch index missing %q:\n%s", want, idx)
		}
	}
}

func TestWorkflow(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace()))
	data := readFile(t, filepath.Join(root, ".github", "workflows", "monthly-update.yml"))

	var wf assemble.Workflow
	if err := yaml.Unmarshal([]byte(data), &wf); err != nil {
		t.Fatalf("parse workflow: %v\n%s", err, data)
	}
	if len(wf.On.Schedule) != 1 || wf.On.Schedule[0].Cron != assemble.MonthlyCron {
		t.Errorf("schedule: got %+v", wf.On.Schedule)
	}
	job, ok := wf.Jobs["remind"]
	if !ok {
		t.Fatalf("missing remind job:\n%s", data)
	}
	var runs []string
	for _, s := range job.Steps {
		if s.Run != "" {
			runs = append(runs, s.Run)
		}
	}
	if len(runs) != 1 || runs[0] != "python3 scripts/analyze.py" {
		t.Errorf("expected a single analyze step, got %v", runs)
	}
}

func TestLicenseAndGitignore(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace()))
	license := readFile(t, filepath.Join(root, "LICENSE"))
	if !strings.HasPrefix(license, "MIT License\n\nCopyright (c) 2025 Your Name\n") {
		t.Errorf("LICENSE header:\n%s", license)
	}
	gitignore := readFile(t, filepath.Join(root, ".gitignore"))
	for _, want := range []string{"__pycache__/", "*.pyc", ".DS_Store"} {
		if !strings.Contains(gitignore, want) {
			t.Errorf(".gitignore missing %q", want)
		}
	}
}

func TestAnalyzeScript(t *testing.T) {
	root := generate(t, scenario.NewTable(nuclearPeace()))
	script := readFile(t, filepath.Join(root, "scripts", "analyze.py"))
	for _, want := range []string{
		"#!/usr/bin/env python3",
		`glob.glob("branches/*/scenario.json")`,
		`print("總觸發節點:", len(triggers))`,
		"reverse=True",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("analyze.py missing %q", want)
		}
	}
}

func TestAnalyzeScriptMatchesReport(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not on PATH")
	}
	table, err := scenario.Default()
	if err != nil {
		t.Fatal(err)
	}
	root := generate(t, table)

	cmd := exec.Command(python, filepath.Join("scripts", "analyze.py"))
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")
	got, err := cmd.Output()
	if err != nil {
		t.Fatalf("analyze.py: %v", err)
	}

	loaded, err := analysis.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	r, err := analysis.Summarize(loaded)
	if err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	if err := r.Print(&want); err != nil {
		t.Fatal(err)
	}
	if string(got) != want.String() {
		t.Errorf("analyze.py output differs\nscript:\n%s\nreport:\n%s", got, want.String())
	}
	if !strings.HasPrefix(string(got), "總觸發節點: 14\n已實現: 4\n進行中: 5\n") {
		t.Errorf("unexpected counts:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestGenerateRejectsMalformedProbability(t *testing.T) {
	bad := noTriggers()
	bad.ProbabilityEstimate = "ten percent"
	bundle, err := assemble.Generate(scenario.NewTable(nuclearPeace(), bad), settings.Default())
	if !errors.Is(err, scenario.ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
	if bundle != nil {
		t.Error("expected no bundle on error")
	}
}

// ---------------------------------------------------------------------------
// Idempotence
// ---------------------------------------------------------------------------

func TestGenerateIdempotent(t *testing.T) {
	table, err := scenario.Default()
	if err != nil {
		t.Fatal(err)
	}
	first, err := tree.Snapshot(generate(t, table))
	if err != nil {
		t.Fatal(err)
	}
	second, err := tree.Snapshot(generate(t, table))
	if err != nil {
		t.Fatal(err)
	}
	if d := tree.Diff(first, second); len(d) != 0 {
		t.Errorf("second run differs: %v", d)
	}
}
