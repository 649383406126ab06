package assemble

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MonthlyCron fires at 09:00 UTC on the first day of every month.
const MonthlyCron = "0 9 1 * *"

// Workflow is the subset of the GitHub Actions schema the monthly job uses.
type Workflow struct {
	Name string          `yaml:"name"`
	On   WorkflowTrigger `yaml:"on"`
	Jobs map[string]Job  `yaml:"jobs"`
}

// WorkflowTrigger lists the events that start the workflow.
type WorkflowTrigger struct {
	Schedule         []Schedule `yaml:"schedule"`
	WorkflowDispatch *struct{}  `yaml:"workflow_dispatch,omitempty"`
}

// Schedule is one cron entry.
type Schedule struct {
	Cron string `yaml:"cron"`
}

// Job is a single workflow job.
type Job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single job step; exactly one of Uses or Run is set.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

// MonthlyWorkflow returns the scheduled job whose only action runs the
// analysis helper.
func MonthlyWorkflow() Workflow {
	return Workflow{
		Name: "Monthly Update Reminder",
		On: WorkflowTrigger{
			Schedule:         []Schedule{{Cron: MonthlyCron}},
			WorkflowDispatch: &struct{}{},
		},
		Jobs: map[string]Job{
			"remind": {
				RunsOn: "ubuntu-latest",
				Steps: []Step{
					{Uses: "actions/checkout@v4"},
					{Uses: "actions/setup-python@v5", With: map[string]string{"python-version": "3.x"}},
					{Name: "Run analysis", Run: "python3 " + AnalyzePath},
				},
			},
		},
	}
}

func buildWorkflow() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(MonthlyWorkflow()); err != nil {
		return "", fmt.Errorf("encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode workflow: %w", err)
	}
	return buf.String(), nil
}
