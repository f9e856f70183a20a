package config

import (
	"time"

	"github.com/trebuchet-org/treb-deploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Directories, absolute
	ArtifactsDir string // where .address/.args files are written
	SourceDir    string // compiled artifacts to index
	ContractsDir string // where <Name>.args JSON files live

	// Context settings
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Deployer key, hex encoded. Empty when the command doesn't broadcast.
	PrivateKey string

	// BuildCommand runs before deploying when building is requested
	BuildCommand string
	// AutoBuild is set when the deploy file configures a build command explicitly
	AutoBuild    bool

	// Plan is the deployment list loaded from the deploy file
	Plan *domain.DeploymentPlan
}

// Network represents network configuration
type Network struct {
	Name    string `json:"name" toml:"-" yaml:"-"`
	RPCURL  string `json:"rpcUrl" toml:"rpc_url" yaml:"rpc_url"`
	ChainID uint64 `json:"chainId" toml:"chain_id" yaml:"chain_id"`
}

// IsDevelopment reports whether the network is a local development chain
func (n *Network) IsDevelopment() bool {
	return n.ChainID == 31337 || n.ChainID == 1337
}
