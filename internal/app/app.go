package app

import (
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	ArgsReader usecase.ArgsFileReader

	// Use cases
	RunDeployments        *usecase.RunDeployments
	EncodeConstructorArgs *usecase.EncodeConstructorArgs
	CheckPlan             *usecase.CheckPlan
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	argsReader usecase.ArgsFileReader,
	runDeployments *usecase.RunDeployments,
	encodeConstructorArgs *usecase.EncodeConstructorArgs,
	checkPlan *usecase.CheckPlan,
) (*App, error) {
	return &App{
		Config:                cfg,
		ArgsReader:            argsReader,
		RunDeployments:        runDeployments,
		EncodeConstructorArgs: encodeConstructorArgs,
		CheckPlan:             checkPlan,
	}, nil
}
