package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deploy/internal/cli/render"
)

// NewArgsCmd creates the args command
func NewArgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "args <contract>",
		Short: "Show the arguments read from a contract's args file",
		Long: `Show the constructor arguments read from <contracts_dir>/<Name>.args, as used by
plan entries with args_file = true. A missing or invalid file yields no arguments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			values := app.ArgsReader.ReadArgs(cmd.Context(), args[0])
			return render.NewArgsRenderer(cmd.OutOrStdout()).Render(values)
		},
	}

	return cmd
}
