package adapters

import (
	"github.com/google/wire"
	abiadapter "github.com/trebuchet-org/treb-deploy/internal/adapters/abi"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/build"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/contracts"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/progress"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactStoreAdapter,
	wire.Bind(new(usecase.ArtifactStore), new(*fs.ArtifactStoreAdapter)),

	fs.NewArgsReaderAdapter,
	wire.Bind(new(usecase.ArgsFileReader), new(*fs.ArgsReaderAdapter)),
)

// ContractsSet provides artifact indexing and constructor encoding
var ContractsSet = wire.NewSet(
	contracts.NewIndexer,
	wire.Bind(new(usecase.ContractFactoryResolver), new(*contracts.Indexer)),

	abiadapter.NewConstructorEncoderAdapter,
	wire.Bind(new(usecase.ConstructorEncoder), new(*abiadapter.ConstructorEncoderAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployerAdapter,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.DeployerAdapter)),
)

// BuildSet provides the project build step
var BuildSet = wire.NewSet(
	build.NewBuilderAdapter,
	wire.Bind(new(usecase.ContractBuilder), new(*build.BuilderAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPlanSelectorAdapter,
	wire.Bind(new(usecase.PlanSelector), new(*interactive.PlanSelectorAdapter)),

	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.BroadcastConfirmer), new(*interactive.ConfirmerAdapter)),
)

// ProgressSet provides terminal progress reporting
var ProgressSet = wire.NewSet(
	progress.NewSpinnerProgressReporter,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerProgressReporter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ContractsSet,
	BlockchainSet,
	BuildSet,
	InteractiveSet,
	ProgressSet,
)
