package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deploy/internal/cli/render"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the deployment plan and check it offline",
		Long: `Show the entries of the deployment plan. Every entry is resolved against the
compiled artifacts and its constructor arguments are encoded, so mistakes surface
before any transaction is sent. Nothing is broadcast.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckPlan.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := render.NewPlanRenderer(cmd.OutOrStdout()).Render(result); err != nil {
				return err
			}
			if failed := result.Failed(); failed > 0 {
				return fmt.Errorf("%d plan entries failed to resolve", failed)
			}
			return nil
		},
	}

	return cmd
}
