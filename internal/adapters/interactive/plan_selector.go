package interactive

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// requestSelectModel is the bubbletea model for picking plan entries
type requestSelectModel struct {
	requests  []domain.DeploymentRequest
	cursor    int
	selected  []bool
	title     string
	done      bool
	cancelled bool
}

// newRequestSelectModel starts with every entry selected
func newRequestSelectModel(requests []domain.DeploymentRequest, title string) requestSelectModel {
	selected := make([]bool, len(requests))
	for i := range selected {
		selected[i] = true
	}
	return requestSelectModel{
		requests: requests,
		selected: selected,
		title:    title,
	}
}

func (m requestSelectModel) Init() tea.Cmd {
	return nil
}

func (m requestSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.done = true
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.requests)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := !m.allSelected()
		for i := range m.selected {
			m.selected[i] = all
		}
	case "enter":
		if len(m.chosen()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m requestSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, req := range m.requests {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		name := color.New(color.FgWhite, color.Bold).Sprint(req.ContractName)
		detail := color.New(color.FgYellow).Sprintf("(%d args)", len(req.Args))
		if req.ArgsFile {
			detail = color.New(color.FgYellow).Sprint("(args file)")
		}

		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, checkbox, name, detail))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

func (m requestSelectModel) allSelected() bool {
	for _, s := range m.selected {
		if !s {
			return false
		}
	}
	return true
}

// chosen returns the selected requests in plan order
func (m requestSelectModel) chosen() []domain.DeploymentRequest {
	var out []domain.DeploymentRequest
	for i, req := range m.requests {
		if m.selected[i] {
			out = append(out, req)
		}
	}
	return out
}

// PlanSelectorAdapter lets the user pick which plan entries to deploy
type PlanSelectorAdapter struct {
	nonInteractive bool
}

// NewPlanSelectorAdapter creates a new plan selector
func NewPlanSelectorAdapter(cfg *config.RuntimeConfig) *PlanSelectorAdapter {
	return &PlanSelectorAdapter{nonInteractive: cfg.NonInteractive}
}

// SelectRequests shows a multi-select of the requests and returns the chosen ones
func (s *PlanSelectorAdapter) SelectRequests(ctx context.Context, requests []domain.DeploymentRequest) ([]domain.DeploymentRequest, error) {
	if s.nonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no deployments to select")
	}

	p := tea.NewProgram(newRequestSelectModel(requests, "Select contracts to deploy:"), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}

	m := finalModel.(requestSelectModel)
	if m.cancelled || !m.done {
		return nil, domain.ErrDeploymentCancelled
	}
	return m.chosen(), nil
}

// Ensure the adapter implements the interface
var _ usecase.PlanSelector = (*PlanSelectorAdapter)(nil)
