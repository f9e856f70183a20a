package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
)

const (
	DefaultNetwork      = "localhost"
	DefaultRPCURL       = "http://127.0.0.1:8545"
	DefaultChainID      = 31337
	DefaultBuildCommand = "npx hardhat compile"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	loadEnvFiles(projectRoot)

	file := &config.DeployFile{}
	plan := &domain.DeploymentPlan{}
	if path := findDeployFile(projectRoot); path != "" {
		file, err = LoadDeployFile(path)
		if err != nil {
			return nil, err
		}
		plan, err = BuildPlan(file, path)
		if err != nil {
			return nil, err
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".treb"),
		ArtifactsDir:   resolveDir(projectRoot, v.GetString("artifacts_dir"), file.ArtifactsDir, "artifacts"),
		SourceDir:      resolveDir(projectRoot, v.GetString("source_dir"), file.SourceDir, "artifacts"),
		ContractsDir:   resolveDir(projectRoot, v.GetString("contracts_dir"), file.ContractsDir, "contracts"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		PrivateKey:     firstNonEmpty(v.GetString("private_key"), file.Deployer.PrivateKey),
		BuildCommand:   firstNonEmpty(v.GetString("build_command"), file.Build.Command, DefaultBuildCommand),
		AutoBuild:      file.Build.Command != "",
		Plan:           plan,
	}

	network, err := resolveNetwork(file, v.GetString("network"), v.GetString("rpc_url"))
	if err != nil {
		return nil, err
	}
	cfg.Network = network

	return cfg, nil
}

// resolveNetwork picks the network from the flag, the deploy file default, or localhost
func resolveNetwork(file *config.DeployFile, name, rpcOverride string) (*config.Network, error) {
	name = firstNonEmpty(name, file.DefaultNetwork, DefaultNetwork)

	network, ok := file.Networks[name]
	if !ok {
		if name != DefaultNetwork && rpcOverride == "" {
			return nil, fmt.Errorf("network '%s' not found in deploy file [networks]", name)
		}
		network = config.Network{ChainID: DefaultChainID, RPCURL: DefaultRPCURL}
		if name != DefaultNetwork {
			network.ChainID = 0
		}
	}
	network.Name = name
	if rpcOverride != "" {
		network.RPCURL = rpcOverride
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no rpc_url", name)
	}

	return &network, nil
}

func resolveDir(projectRoot string, candidates ...string) string {
	dir := firstNonEmpty(candidates...)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectRoot, dir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FindProjectRoot walks up from current directory to find a deploy file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if findDeployFile(dir) != "" {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in this directory or any parent", strings.Join(DeployFileNames, "/"))
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".treb"))

	// Set up environment variables
	v.SetEnvPrefix("TREB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
