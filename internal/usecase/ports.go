package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
)

// ContractFactoryResolver locates compiled contracts and links their libraries
type ContractFactoryResolver interface {
	GetContractFactory(ctx context.Context, name string, libraries map[string]common.Address) (*domain.ContractFactory, error)
	ListContracts(ctx context.Context) ([]*domain.ContractInfo, error)
}

// ContractDeployer submits creation transactions and waits for them to be mined
type ContractDeployer interface {
	Deploy(ctx context.Context, factory *domain.ContractFactory, args []any, overrides domain.TxOverrides) (*domain.DeployedContract, error)
}

// ConstructorEncoder encodes constructor arguments against a contract interface
type ConstructorEncoder interface {
	// Coerce converts args into the Go values the constructor inputs expect
	Coerce(contractABI *abi.ABI, args []domain.ArgValue) ([]any, error)
	// Encode returns the 0x-prefixed ABI encoding, or "" when there is no constructor
	Encode(contractABI *abi.ABI, args []domain.ArgValue) (string, error)
}

// ArtifactStore persists deployment outputs
type ArtifactStore interface {
	WriteAddress(ctx context.Context, contractName string, address string) error
	WriteArgs(ctx context.Context, contractName string, encoded string) error
	Dir() string
}

// ArgsFileReader loads constructor args from <contracts_dir>/<Name>.args.
// It never fails: missing or broken files yield an empty list.
type ArgsFileReader interface {
	ReadArgs(ctx context.Context, contractName string) []domain.ArgValue
}

// ContractBuilder compiles the project before deploying
type ContractBuilder interface {
	Build(ctx context.Context) error
}

// PlanSelector lets the user pick which plan entries to deploy
type PlanSelector interface {
	SelectRequests(ctx context.Context, requests []domain.DeploymentRequest) ([]domain.DeploymentRequest, error)
}

// BroadcastConfirmer asks before sending transactions to a live network
type BroadcastConfirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the deployment run
type ExecutionStage string

const (
	StageBuilding  ExecutionStage = "Building"
	StageResolving ExecutionStage = "Resolving"
	StageDeploying ExecutionStage = "Deploying"
	StageWriting   ExecutionStage = "Writing"
	StageDeployed  ExecutionStage = "Deployed"
	StageCompleted ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
