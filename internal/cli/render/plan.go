package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// PlanRenderer renders the checked deployment plan
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// Render prints one row per plan entry with its resolution status
func (r *PlanRenderer) Render(result *usecase.PlanCheckResult) error {
	if result.Source == "" {
		fmt.Fprintln(r.out, "No deploy file found (deploy.toml, deploy.yaml)")
		return nil
	}

	fmt.Fprintf(r.out, "📋 Plan %s", color.New(color.Bold).Sprint(result.Source))
	if result.Network != nil {
		fmt.Fprintf(r.out, " → %s (chain %d)", networkTitle(result.Network.Name), result.Network.ChainID)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out)

	if len(result.Entries) == 0 {
		fmt.Fprintln(r.out, "  (no deployments)")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Contract", "Args", "Encoded", "Status"})
	for i, entry := range result.Entries {
		status := color.GreenString("ok")
		if entry.Err != nil {
			status = color.RedString(entry.Err.Error())
		}

		encoded := "-"
		if entry.Encoded != "" {
			encoded = shorten(entry.Encoded, 12)
		}

		t.AppendRow(table.Row{
			i + 1,
			color.CyanString(entry.Request.ContractName),
			formatArgs(entry.Request),
			encoded,
			status,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	if failed := result.Failed(); failed > 0 {
		fmt.Fprintln(r.out, color.RedString("%d of %d deployment(s) cannot be deployed as configured", failed, len(result.Entries)))
	}
	return nil
}

func formatArgs(req domain.DeploymentRequest) string {
	if len(req.Args) == 0 {
		if req.ArgsFile {
			return "(args file, empty)"
		}
		return "-"
	}
	parts := make([]string, len(req.Args))
	for i, arg := range req.Args {
		parts[i] = shorten(arg.String(), 10)
	}
	return strings.Join(parts, ", ")
}

var _ Renderer[*usecase.PlanCheckResult] = (*PlanRenderer)(nil)
