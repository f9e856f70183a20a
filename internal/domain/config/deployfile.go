package config

// DeployFile is the raw deploy.toml / deploy.yaml structure
type DeployFile struct {
	ArtifactsDir   string             `toml:"artifacts_dir" yaml:"artifacts_dir"`
	SourceDir      string             `toml:"source_dir" yaml:"source_dir"`
	ContractsDir   string             `toml:"contracts_dir" yaml:"contracts_dir"`
	DefaultNetwork string             `toml:"default_network" yaml:"default_network"`
	Build          BuildConfig        `toml:"build" yaml:"build"`
	Deployer       DeployerConfig     `toml:"deployer" yaml:"deployer"`
	Networks       map[string]Network `toml:"networks" yaml:"networks"`
	Deploy         []DeployEntry      `toml:"deploy" yaml:"deploy"`
}

// BuildConfig configures the optional build step
type BuildConfig struct {
	Command string `toml:"command" yaml:"command"`
}

// DeployerConfig configures the signing account
type DeployerConfig struct {
	PrivateKey string `toml:"private_key" yaml:"private_key"`
}

// DeployEntry is a single [[deploy]] table
type DeployEntry struct {
	Contract  string            `toml:"contract" yaml:"contract"`
	Args      []any             `toml:"args" yaml:"args"`
	ArgsFile  bool              `toml:"args_file" yaml:"args_file"`
	Overrides OverridesConfig   `toml:"overrides" yaml:"overrides"`
	Libraries map[string]string `toml:"libraries" yaml:"libraries"`
}

// OverridesConfig holds human readable transaction overrides
type OverridesConfig struct {
	Value        string  `toml:"value" yaml:"value"`
	GasLimit     uint64  `toml:"gas_limit" yaml:"gas_limit"`
	GasPrice     string  `toml:"gas_price" yaml:"gas_price"`
	MaxFeePerGas string  `toml:"max_fee_per_gas" yaml:"max_fee_per_gas"`
	MaxPriority  string  `toml:"max_priority_fee_per_gas" yaml:"max_priority_fee_per_gas"`
	Nonce        *uint64 `toml:"nonce" yaml:"nonce"`
}
