package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deploy/internal/cli/render"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// NewEncodeCmd creates the encode command
func NewEncodeCmd() *cobra.Command {
	var (
		argsJSON  string
		fromFile  bool
		libraries []string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "encode <contract> [args...]",
		Short: "ABI-encode constructor arguments for manual verification",
		Long: `Encode constructor arguments against a compiled contract's constructor, in
the same form written to <artifacts>/<Name>.args.

Arguments are taken from positional values, from --args as a JSON array (needed
for arrays and tuples), or from <contracts_dir>/<Name>.args with --from-file.

Examples:
  treb-deploy encode Token "My Token" MTK 1000000
  treb-deploy encode DrippStaking --args '[["0x11C9..."],[2592000],["50000000000000000000"]]'
  treb-deploy encode Vault --from-file --raw`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.EncodeConstructorArgsParams{
				ContractName: args[0],
				FromArgsFile: fromFile,
			}

			if params.Args, err = parseCLIArgs(args[1:], argsJSON); err != nil {
				return err
			}
			if fromFile && len(params.Args) > 0 {
				return fmt.Errorf("--from-file cannot be combined with explicit arguments")
			}
			if params.Libraries, err = parseLibraries(libraries); err != nil {
				return err
			}

			result, err := app.EncodeConstructorArgs.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewEncodeRenderer(cmd.OutOrStdout(), raw).Render(result)
		},
	}

	cmd.Flags().StringVar(&argsJSON, "args", "", "Constructor arguments as a JSON array")
	cmd.Flags().BoolVar(&fromFile, "from-file", false, "Read arguments from <contracts_dir>/<Name>.args")
	cmd.Flags().StringArrayVarP(&libraries, "library", "l", nil, "Library binding Name=0xAddress (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the encoded hex")

	return cmd
}

// parseCLIArgs reads args from positional values or a JSON array, not both
func parseCLIArgs(positional []string, argsJSON string) ([]domain.ArgValue, error) {
	if argsJSON != "" && len(positional) > 0 {
		return nil, fmt.Errorf("use either positional arguments or --args, not both")
	}

	if argsJSON != "" {
		var values []any
		dec := json.NewDecoder(bytes.NewReader([]byte(argsJSON)))
		dec.UseNumber()
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("--args must be a JSON array: %w", err)
		}
		return domain.ParseArgValues(values)
	}

	values := make([]any, len(positional))
	for i, p := range positional {
		values[i] = p
	}
	return domain.ParseArgValues(values)
}

// parseLibraries parses Name=0xAddress bindings
func parseLibraries(bindings []string) (map[string]common.Address, error) {
	if len(bindings) == 0 {
		return nil, nil
	}

	libraries := make(map[string]common.Address, len(bindings))
	for _, binding := range bindings {
		name, addr, ok := strings.Cut(binding, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid library binding %q (expected Name=0xAddress)", binding)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address for library %s: %s", name, addr)
		}
		libraries[name] = common.HexToAddress(addr)
	}
	return libraries, nil
}
