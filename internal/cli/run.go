package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deploy/internal/cli/render"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var (
		only        []string
		selectPlan  bool
		build       bool
		skipConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deploy every contract in the plan",
		Long: `Deploy the contracts listed in deploy.toml, in order.

For each entry the contract is resolved from the compiled artifacts, its
constructor arguments are encoded, and the creation transaction is sent and
awaited. The deployed address is written to <artifacts>/<Name>.address and the
encoded constructor arguments to <artifacts>/<Name>.args.

The run stops at the first failure. Contracts deployed before it keep their
artifact files; nothing is written for the failing entry or any after it.

Examples:
  # Deploy the whole plan to the default network
  treb-deploy run

  # Compile first, then deploy two entries to sepolia without prompting
  treb-deploy run --build --only Token,Staking --network sepolia --yes

  # Pick entries interactively
  treb-deploy run --select`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.RunDeploymentsParams{
				Only:        only,
				Select:      selectPlan,
				Build:       build || app.Config.AutoBuild,
				SkipConfirm: skipConfirm,
			}
			result, err := app.RunDeployments.Run(cmd.Context(), params)

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			if result != nil && len(result.Outcomes) > 0 {
				if renderErr := renderer.Render(result); renderErr != nil {
					return renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Deploy only these contracts (comma separated, plan order is kept)")
	cmd.Flags().BoolVar(&selectPlan, "select", false, "Choose the entries to deploy interactively")
	cmd.Flags().BoolVar(&build, "build", false, "Run the build command before deploying")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the broadcast confirmation")

	return cmd
}
