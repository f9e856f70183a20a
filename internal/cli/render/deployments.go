package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// DeploymentsRenderer renders the summary of a deployment run
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render prints a table of the deployed contracts
func (r *DeploymentsRenderer) Render(result *usecase.RunDeploymentsResult) error {
	if result == nil || len(result.Outcomes) == 0 {
		fmt.Fprintln(r.out, "No contracts deployed")
		return nil
	}

	network := ""
	if result.Network != nil {
		network = fmt.Sprintf(" on %s (chain %d)", networkTitle(result.Network.Name), result.Network.ChainID)
	}
	fmt.Fprintf(r.out, "%s\n\n", color.New(color.FgGreen, color.Bold).Sprintf(
		"✓ Deployed %d contract(s)%s", len(result.Outcomes), network))

	t := newTable()
	t.AppendHeader(table.Row{"Contract", "Address", "Transaction", "Block", "Gas", "Args"})
	for _, outcome := range result.Outcomes {
		args := "-"
		if outcome.EncodedArgs != "" {
			args = fmt.Sprintf("%d bytes", len(outcome.EncodedArgs)/2)
		}
		t.AppendRow(table.Row{
			color.CyanString(outcome.Request.ContractName),
			color.MagentaString(outcome.Contract.Address.Hex()),
			shorten(outcome.Contract.TxHash.Hex(), 10),
			outcome.Contract.BlockNumber,
			outcome.Contract.GasUsed,
			args,
		})
	}

	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	return nil
}

var _ Renderer[*usecase.RunDeploymentsResult] = (*DeploymentsRenderer)(nil)
