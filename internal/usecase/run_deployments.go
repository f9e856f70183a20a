package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
)

// RunDeploymentsParams contains parameters for a deployment run
type RunDeploymentsParams struct {
	// Plan overrides the configured plan when set
	Plan *domain.DeploymentPlan
	// Only restricts the run to these contract names, in plan order
	Only        []string
	Select      bool
	Build       bool
	SkipConfirm bool
}

// RunDeploymentsResult contains what a run deployed. On failure it holds the
// requests that completed before the failing one.
type RunDeploymentsResult struct {
	Network      *config.Network
	Outcomes     []*domain.DeploymentOutcome
	ArtifactsDir string
}

// RunDeployments deploys every request of a plan in order and persists the artifacts
type RunDeployments struct {
	config     *config.RuntimeConfig
	resolver   ContractFactoryResolver
	deployer   ContractDeployer
	encoder    ConstructorEncoder
	store      ArtifactStore
	argsReader ArgsFileReader
	builder    ContractBuilder
	selector   PlanSelector
	confirmer  BroadcastConfirmer
	progress   ProgressSink
	log        *slog.Logger
}

// NewRunDeployments creates a new RunDeployments use case
func NewRunDeployments(
	cfg *config.RuntimeConfig,
	resolver ContractFactoryResolver,
	deployer ContractDeployer,
	encoder ConstructorEncoder,
	store ArtifactStore,
	argsReader ArgsFileReader,
	builder ContractBuilder,
	selector PlanSelector,
	confirmer BroadcastConfirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployments {
	return &RunDeployments{
		config:     cfg,
		resolver:   resolver,
		deployer:   deployer,
		encoder:    encoder,
		store:      store,
		argsReader: argsReader,
		builder:    builder,
		selector:   selector,
		confirmer:  confirmer,
		progress:   progress,
		log:        log.With("component", "RunDeployments"),
	}
}

// Run executes the deployment plan. Any failure aborts the remaining requests.
func (uc *RunDeployments) Run(ctx context.Context, params RunDeploymentsParams) (*RunDeploymentsResult, error) {
	result := &RunDeploymentsResult{
		Network:      uc.config.Network,
		ArtifactsDir: uc.store.Dir(),
	}

	plan := params.Plan
	if plan == nil {
		plan = uc.config.Plan
	}
	if plan == nil || len(plan.Requests) == 0 {
		return result, fmt.Errorf("%w: no deployments configured", domain.ErrInvalidPlan)
	}

	requests, err := FilterRequests(plan.Requests, params.Only)
	if err != nil {
		return result, err
	}

	if params.Select {
		requests, err = uc.selector.SelectRequests(ctx, requests)
		if err != nil {
			return result, err
		}
		if len(requests) == 0 {
			return result, fmt.Errorf("%w: nothing selected", domain.ErrDeploymentCancelled)
		}
	}

	if params.Build {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageBuilding,
			Message: "Building contracts",
			Spinner: true,
		})
		if err := uc.builder.Build(ctx); err != nil {
			return result, err
		}
	}

	if uc.needsConfirmation(params) {
		prompt := fmt.Sprintf("Deploy %d contract(s) to %s (chain %d)",
			len(requests), uc.config.Network.Name, uc.config.Network.ChainID)
		confirmed, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return result, err
		}
		if !confirmed {
			return result, domain.ErrDeploymentCancelled
		}
	}

	uc.log.Debug("starting deployment run",
		"network", uc.config.Network.Name,
		"chainId", uc.config.Network.ChainID,
		"requests", len(requests))
	uc.progress.Info("\n\n 📡 Deploying...\n")

	for i, req := range requests {
		outcome, err := uc.deployOne(ctx, i, len(requests), req)
		if err != nil {
			return result, &domain.DeploymentError{Index: i, ContractName: req.ContractName, Err: err}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageCompleted,
		Current:  len(requests),
		Total:    len(requests),
		Message:  uc.store.Dir(),
		Metadata: result,
	})

	return result, nil
}

// needsConfirmation reports whether broadcasting must be confirmed by the user.
// Development chains and non-interactive runs never prompt.
func (uc *RunDeployments) needsConfirmation(params RunDeploymentsParams) bool {
	return !params.SkipConfirm && !uc.config.NonInteractive && !uc.config.Network.IsDevelopment()
}

// deployOne resolves, encodes, deploys and persists a single request
func (uc *RunDeployments) deployOne(ctx context.Context, index, total int, req domain.DeploymentRequest) (*domain.DeploymentOutcome, error) {
	event := func(stage ExecutionStage, spinner bool, metadata any) ProgressEvent {
		return ProgressEvent{
			Stage:    stage,
			Current:  index + 1,
			Total:    total,
			Message:  req.ContractName,
			Spinner:  spinner,
			Metadata: metadata,
		}
	}

	uc.progress.OnProgress(ctx, event(StageResolving, false, nil))

	args := req.Args
	if req.ArgsFile {
		args = uc.argsReader.ReadArgs(ctx, req.ContractName)
	}

	factory, err := uc.resolver.GetContractFactory(ctx, req.ContractName, req.Libraries)
	if err != nil {
		return nil, err
	}

	encoded, err := uc.encoder.Encode(factory.ABI, args)
	if err != nil {
		return nil, err
	}
	values, err := uc.encoder.Coerce(factory.ABI, args)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, event(StageDeploying, true, nil))
	deployed, err := uc.deployer.Deploy(ctx, factory, values, req.Overrides)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("contract deployed",
		"contract", req.ContractName,
		"address", deployed.Address.Hex(),
		"tx", deployed.TxHash.Hex(),
		"gasUsed", deployed.GasUsed)

	uc.progress.OnProgress(ctx, event(StageWriting, false, nil))
	if err := uc.store.WriteAddress(ctx, req.ContractName, deployed.Address.Hex()); err != nil {
		return nil, err
	}

	outcome := &domain.DeploymentOutcome{
		Request:  req,
		Contract: deployed,
	}
	outcome.Request.Args = args

	if len(encoded) > 2 {
		outcome.EncodedArgs = strings.TrimPrefix(encoded, "0x")
		if err := uc.store.WriteArgs(ctx, req.ContractName, outcome.EncodedArgs); err != nil {
			return nil, err
		}
	}

	uc.progress.OnProgress(ctx, event(StageDeployed, false, outcome))
	return outcome, nil
}

// FilterRequests keeps the requests whose contract name is in only, preserving plan order.
// An empty filter keeps everything.
func FilterRequests(requests []domain.DeploymentRequest, only []string) ([]domain.DeploymentRequest, error) {
	if len(only) == 0 {
		return requests, nil
	}

	names := lo.Map(requests, func(req domain.DeploymentRequest, _ int) string {
		return req.ContractName
	})
	if unknown := lo.Without(lo.Uniq(only), names...); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: not in plan: %s", domain.ErrInvalidPlan, strings.Join(unknown, ", "))
	}

	return lo.Filter(requests, func(req domain.DeploymentRequest, _ int) bool {
		return lo.Contains(only, req.ContractName)
	}), nil
}
