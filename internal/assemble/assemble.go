package assemble

// assemble.go — whole-repository generation.
//
// Output layout:
//   branches/<branch>/...                  — per-scenario pages (render package)
//   README.md                              — summary table, one row per scenario
//   branches/README.md                     — branch index with artifact links
//   scripts/analyze.py                     — trigger statistics helper (0755)
//   .github/workflows/monthly-update.yml   — monthly job running analyze.py
//   .gitignore, LICENSE
//
// Row order in every aggregate page is table order.

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"endgames/internal/render"
	"endgames/internal/scenario"
	"endgames/internal/settings"
)

//go:embed assets
var assets embed.FS

// Paths of the aggregate pages, relative to the output root.
const (
	ReadmePath      = "README.md"
	BranchIndexPath = "branches/README.md"
	AnalyzePath     = "scripts/analyze.py"
	WorkflowPath    = ".github/workflows/monthly-update.yml"
	GitignorePath   = ".gitignore"
	LicensePath     = "LICENSE"
)

// Generate builds every page of the repository. No files are written.
// A probability estimate that is not a percentage fails the whole run.
func Generate(table scenario.Table, cfg settings.Settings) (*render.Bundle, error) {
	var b render.Bundle
	scenarios := table.All()

	for _, s := range scenarios {
		if _, err := s.Probability(); err != nil {
			return nil, err
		}
		pages, err := render.Scenario(s)
		if err != nil {
			return nil, err
		}
		b.Add(pages...)
	}

	b.Add(
		render.Page{Path: ReadmePath, Content: buildReadme(scenarios, cfg)},
		render.Page{Path: BranchIndexPath, Content: buildBranchIndex(scenarios)},
	)

	analyze, err := assets.ReadFile("assets/analyze.py")
	if err != nil {
		return nil, fmt.Errorf("read analyze.py asset: %w", err)
	}
	b.Add(render.Page{Path: AnalyzePath, Content: string(analyze), Executable: true})

	workflow, err := buildWorkflow()
	if err != nil {
		return nil, err
	}
	b.Add(render.Page{Path: WorkflowPath, Content: workflow})

	gitignore, err := assets.ReadFile("assets/gitignore")
	if err != nil {
		return nil, fmt.Errorf("read gitignore asset: %w", err)
	}
	b.Add(render.Page{Path: GitignorePath, Content: string(gitignore)})

	license, err := buildLicense(cfg)
	if err != nil {
		return nil, err
	}
	b.Add(render.Page{Path: LicensePath, Content: license})

	return &b, nil
}

// ---------------------------------------------------------------------------
// Page builders
// ---------------------------------------------------------------------------

// buildReadme builds README.md.
func buildReadme(scenarios []scenario.Scenario, cfg settings.Settings) string {
	var b strings.Builder
	b.WriteString("# 2026-Endgames: AI & Geopolitical Scenarios\n\n")
	b.WriteString(fmt.Sprintf("%d 種可能的未來結局 — 每個分支包含 %s, %s, %s\n\n",
		len(scenarios), render.JSONFile, render.SummaryFile, render.DiagramFile))
	b.WriteString("## Summary table\n")
	b.WriteString("| 結局 | 機率 | 時間軸 | 狀態 | 分支 |\n")
	b.WriteString("|---|---:|---|---|---|\n")
	for _, s := range scenarios {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | [`%s`](%s) |\n",
			s.Title, s.ProbabilityEstimate, s.TimeHorizon, s.Status, s.Branch, render.BranchDir(s.Branch)))
	}
	b.WriteString(fmt.Sprintf("\n**Maintainer:** @%s\n", cfg.Maintainer))
	b.WriteString(fmt.Sprintf("\n**Last Updated:** %s\n", cfg.LastUpdated))
	return b.String()
}

// buildBranchIndex builds branches/README.md. Links are relative to branches/.
func buildBranchIndex(scenarios []scenario.Scenario) string {
	var b strings.Builder
	b.WriteString("# Branches\n\n")
	for _, s := range scenarios {
		br := s.Branch
		b.WriteString(fmt.Sprintf("## [%s](%s)\n", s.Title, br))
		b.WriteString(fmt.Sprintf("**Summary:** %s\n", s.Summary))
		b.WriteString(fmt.Sprintf("**Probability:** %s | **Status:** %s\n", s.ProbabilityEstimate, s.Status))
		b.WriteString(fmt.Sprintf("Files: [JSON](%s) | [MD](%s) | [Diagram](%s)\n\n",
			path.Join(br, render.JSONFile), path.Join(br, render.SummaryFile), path.Join(br, render.DiagramFile)))
	}
	return b.String()
}

// buildLicense fills the MIT license template.
func buildLicense(cfg settings.Settings) (string, error) {
	tmpl, err := template.ParseFS(assets, "assets/LICENSE.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse license template: %w", err)
	}
	var buf bytes.Buffer
	data := struct {
		Year   int
		Holder string
	}{cfg.LicenseYear, cfg.LicenseHolder}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render license: %w", err)
	}
	return buf.String(), nil
}
