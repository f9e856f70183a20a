package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
)

// PlanEntryStatus reports whether a plan entry can be deployed as configured
type PlanEntryStatus struct {
	Request  domain.DeploymentRequest
	Contract *domain.ContractInfo
	Encoded  string
	Err      error
}

// PlanCheckResult contains the checked plan
type PlanCheckResult struct {
	Source  string
	Network *config.Network
	Entries []*PlanEntryStatus
}

// Failed counts the entries that would fail before broadcasting
func (r *PlanCheckResult) Failed() int {
	failed := 0
	for _, entry := range r.Entries {
		if entry.Err != nil {
			failed++
		}
	}
	return failed
}

// CheckPlan resolves and encodes every plan entry without touching the chain
type CheckPlan struct {
	config     *config.RuntimeConfig
	resolver   ContractFactoryResolver
	encoder    ConstructorEncoder
	argsReader ArgsFileReader
}

// NewCheckPlan creates a new CheckPlan use case
func NewCheckPlan(
	cfg *config.RuntimeConfig,
	resolver ContractFactoryResolver,
	encoder ConstructorEncoder,
	argsReader ArgsFileReader,
) *CheckPlan {
	return &CheckPlan{
		config:     cfg,
		resolver:   resolver,
		encoder:    encoder,
		argsReader: argsReader,
	}
}

// Run checks each entry. Per-entry failures are reported in the result, not returned.
func (uc *CheckPlan) Run(ctx context.Context) (*PlanCheckResult, error) {
	result := &PlanCheckResult{Network: uc.config.Network}
	if uc.config.Plan == nil {
		return result, nil
	}
	result.Source = uc.config.Plan.Source

	for _, req := range uc.config.Plan.Requests {
		status := &PlanEntryStatus{Request: req}
		result.Entries = append(result.Entries, status)

		if req.ArgsFile {
			status.Request.Args = uc.argsReader.ReadArgs(ctx, req.ContractName)
		}

		factory, err := uc.resolver.GetContractFactory(ctx, req.ContractName, req.Libraries)
		if err != nil {
			status.Err = err
			continue
		}
		status.Contract = factory.Contract

		encoded, err := uc.encoder.Encode(factory.ABI, status.Request.Args)
		if err != nil {
			status.Err = err
			continue
		}
		if len(encoded) > 2 {
			status.Encoded = encoded[2:]
		}
	}

	return result, nil
}
