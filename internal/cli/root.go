package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deploy/internal/app"
	"github.com/trebuchet-org/treb-deploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that work without a deploy file
var planOptional = map[string]bool{
	"encode": true,
	"args":   true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-deploy",
		Short: "Deploy EVM contracts from a deployment plan",
		Long: `treb-deploy deploys compiled contracts in the order listed in deploy.toml
(or deploy.yaml) and writes each deployed address and ABI-encoded constructor
arguments to the artifacts directory for later verification.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := resolveProjectRoot(cmd)
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.Root().PersistentPostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from deploy file [networks] (defaults to default_network or localhost)")
	rootCmd.PersistentFlags().String("rpc-url", "", "Override the network RPC URL")
	rootCmd.PersistentFlags().String("project-root", "", "Project root containing deploy.toml (defaults to nearest parent)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Verification Tools",
	})

	runCmd := NewRunCmd()
	runCmd.GroupID = "main"
	rootCmd.AddCommand(runCmd)

	planCmd := NewPlanCmd()
	planCmd.GroupID = "main"
	rootCmd.AddCommand(planCmd)

	encodeCmd := NewEncodeCmd()
	encodeCmd.GroupID = "tools"
	rootCmd.AddCommand(encodeCmd)

	argsCmd := NewArgsCmd()
	argsCmd.GroupID = "tools"
	rootCmd.AddCommand(argsCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command. The timeout context set up in PersistentPreRunE derives
// from ctx, so it is released here even when the command fails and PersistentPostRun is
// skipped.
func Execute(ctx context.Context, rootCmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// resolveProjectRoot uses --project-root or searches upwards for a deploy file
func resolveProjectRoot(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("project-root"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		if !planOptional[cmd.Name()] {
			return "", err
		}
		return ".", nil
	}
	return projectRoot, nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
