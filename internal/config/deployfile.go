package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// DeployFileNames are the plan files looked up at the project root, in order
var DeployFileNames = []string{"deploy.toml", "deploy.yaml", "deploy.yml"}

// loadEnvFiles loads .env files so ${VAR} references in the deploy file can be expanded.
// Variables already set in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// findDeployFile returns the first deploy file present in dir, or "" if none
func findDeployFile(dir string) string {
	for _, name := range DeployFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadDeployFile parses a deploy.toml or deploy.yaml file
func LoadDeployFile(path string) (*config.DeployFile, error) {
	var raw config.DeployFile

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		if err := exactYAMLArgs(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported deploy file format: %s", path)
	}

	for name, network := range raw.Networks {
		network.Name = name
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		raw.Networks[name] = network
	}
	raw.Deployer.PrivateKey = os.ExpandEnv(raw.Deployer.PrivateKey)

	return &raw, nil
}

// yamlDeployArgs holds the args of each deploy entry as parsed nodes
type yamlDeployArgs struct {
	Deploy []struct {
		Args yaml.Node `yaml:"args"`
	} `yaml:"deploy"`
}

// exactYAMLArgs replaces the decoded args with values read from the literal scalar text.
// yaml.v3 decodes integers past uint64 into float64, which would round a uint256.
func exactYAMLArgs(data []byte, file *config.DeployFile) error {
	var nodes yamlDeployArgs
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return err
	}

	for i := range file.Deploy {
		if i >= len(nodes.Deploy) || nodes.Deploy[i].Args.Kind == 0 {
			continue
		}
		value, err := yamlArgValue(&nodes.Deploy[i].Args)
		if err != nil {
			return fmt.Errorf("deploy entry %d: %w", i+1, err)
		}
		args, ok := value.([]any)
		if !ok && value != nil {
			return fmt.Errorf("deploy entry %d: args must be a list", i+1)
		}
		file.Deploy[i].Args = args
	}
	return nil
}

func yamlArgValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return yamlArgValue(node.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := yamlArgValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.ScalarNode:
		// Plain numbers resolve to !!float once they overflow uint64
		if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
			literal := strings.ReplaceAll(strings.TrimPrefix(node.Value, "+"), "_", "")
			if n, ok := new(big.Int).SetString(literal, 0); ok {
				return n, nil
			}
		}
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return value, nil
}

// BuildPlan converts the [[deploy]] entries into a deployment plan
func BuildPlan(file *config.DeployFile, source string) (*domain.DeploymentPlan, error) {
	plan := &domain.DeploymentPlan{Source: source}

	for i, entry := range file.Deploy {
		req, err := buildRequest(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidPlan, i+1, err)
		}
		plan.Requests = append(plan.Requests, *req)
	}

	return plan, nil
}

func buildRequest(entry config.DeployEntry) (*domain.DeploymentRequest, error) {
	if strings.TrimSpace(entry.Contract) == "" {
		return nil, fmt.Errorf("contract is required")
	}
	if entry.ArgsFile && len(entry.Args) > 0 {
		return nil, fmt.Errorf("%s: args and args_file are mutually exclusive", entry.Contract)
	}

	args, err := domain.ParseArgValues(entry.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Contract, err)
	}

	overrides, err := buildOverrides(entry.Overrides)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Contract, err)
	}

	libraries := make(map[string]common.Address, len(entry.Libraries))
	for name, addr := range entry.Libraries {
		addr = os.ExpandEnv(addr)
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("%s: library %s has invalid address %q", entry.Contract, name, addr)
		}
		libraries[name] = common.HexToAddress(addr)
	}

	return &domain.DeploymentRequest{
		ContractName: entry.Contract,
		Args:         args,
		Overrides:    overrides,
		Libraries:    libraries,
		ArgsFile:     entry.ArgsFile,
	}, nil
}

func buildOverrides(raw config.OverridesConfig) (domain.TxOverrides, error) {
	overrides := domain.TxOverrides{
		GasLimit: raw.GasLimit,
		Nonce:    raw.Nonce,
	}

	amounts := []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"value", raw.Value, &overrides.Value},
		{"gas_price", raw.GasPrice, &overrides.GasPrice},
		{"max_fee_per_gas", raw.MaxFeePerGas, &overrides.GasFeeCap},
		{"max_priority_fee_per_gas", raw.MaxPriority, &overrides.GasTipCap},
	}
	for _, amount := range amounts {
		if amount.value == "" {
			continue
		}
		parsed, err := domain.ParseAmount(amount.value)
		if err != nil {
			return domain.TxOverrides{}, fmt.Errorf("override %s: %w", amount.name, err)
		}
		*amount.dst = parsed
	}

	if overrides.GasPrice != nil && (overrides.GasFeeCap != nil || overrides.GasTipCap != nil) {
		return domain.TxOverrides{}, fmt.Errorf("gas_price cannot be combined with EIP-1559 fee overrides")
	}

	return overrides, nil
}
