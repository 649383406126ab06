// Package browse is an interactive terminal view over the scenario table:
// a table of scenarios and, on enter, the rendered summary document.
package browse

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"endgames/internal/render"
	"endgames/internal/scenario"
)

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// Model is the bubbletea model for the browser.
type Model struct {
	scenarios []scenario.Scenario
	table     table.Model
	viewport  viewport.Model
	detail    bool
	width     int
	err       error
}

// New builds a browser over t, rows in table order.
func New(t scenario.Table) Model {
	scenarios := t.All()
	rows := make([]table.Row, 0, len(scenarios))
	for _, s := range scenarios {
		rows = append(rows, table.Row{s.Title, s.ProbabilityEstimate, s.TimeHorizon, s.Status, s.Branch})
	}
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "結局", Width: 32},
			{Title: "機率", Width: 6},
			{Title: "時間軸", Width: 8},
			{Title: "狀態", Width: 12},
			{Title: "分支", Width: 22},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)
	return Model{
		scenarios: scenarios,
		table:     tbl,
		viewport:  viewport.New(80, 20),
		width:     80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
		case "enter":
			if !m.detail {
				return m.openDetail(), nil
			}
		}
	}

	var cmd tea.Cmd
	if m.detail {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m Model) openDetail() Model {
	s, ok := m.Selected()
	if !ok {
		return m
	}
	out, err := Render(render.Summary(s), m.width)
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
	m.detail = true
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("render error: %v\n", m.err)
	}
	if m.detail {
		return m.viewport.View() + "\n" + helpStyle.Render("↑/↓ scroll • esc back • q quit")
	}
	return headerStyle.Render(fmt.Sprintf("%d scenarios", len(m.scenarios))) + "\n" +
		m.table.View() + "\n" + helpStyle.Render("↑/↓ move • enter open • q quit")
}

// Selected returns the scenario under the cursor.
func (m Model) Selected() (scenario.Scenario, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scenarios) {
		return scenario.Scenario{}, false
	}
	return m.scenarios[i], true
}

// InDetail reports whether the summary document is showing.
func (m Model) InDetail() bool { return m.detail }

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(t scenario.Table) error {
	if t.Len() == 0 {
		return fmt.Errorf("browse: empty scenario table")
	}
	_, err := tea.NewProgram(New(t), tea.WithAltScreen()).Run()
	return err
}

// Render renders markdown for the terminal, wrapped at width columns.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
