package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for deployment operations
var (
	// ErrContractNotFound is returned when no compiled artifact matches a contract name
	ErrContractNotFound = errors.New("contract not found")

	// ErrAmbiguousContract is returned when a bare name matches more than one artifact
	ErrAmbiguousContract = errors.New("ambiguous contract name")

	// ErrNotDeployable is returned for interfaces and abstract contracts
	ErrNotDeployable = errors.New("contract has no creation bytecode")

	// ErrMissingLibrary is returned when linked bytecode references an unbound library
	ErrMissingLibrary = errors.New("missing library address")

	// ErrUnusedLibrary is returned when a library binding is not referenced by the bytecode
	ErrUnusedLibrary = errors.New("contract does not link library")

	// ErrInvalidArguments is returned when constructor args don't match the constructor inputs
	ErrInvalidArguments = errors.New("invalid constructor arguments")

	// ErrSubmission is returned when the creation transaction cannot be sent or confirmed
	ErrSubmission = errors.New("deployment submission failed")

	// ErrConstructorReverted is returned when the creation transaction left no code behind
	ErrConstructorReverted = errors.New("constructor reverted")

	// ErrArtifactWrite is returned when an artifact file cannot be written
	ErrArtifactWrite = errors.New("failed to write artifact")

	// ErrBuildFailed is returned when the project build command fails
	ErrBuildFailed = errors.New("build failed")

	// ErrDeploymentCancelled is returned when the user declines to broadcast
	ErrDeploymentCancelled = errors.New("deployment cancelled")

	// ErrInvalidPlan is returned when the deployment plan cannot be used
	ErrInvalidPlan = errors.New("invalid deployment plan")

	// ErrNetworkMismatch is returned when the RPC chain ID differs from the configured one
	ErrNetworkMismatch = errors.New("network mismatch")
)

// DeploymentError names the request that aborted a run
type DeploymentError struct {
	Index        int
	ContractName string
	Err          error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment #%d (%s) failed: %v", e.Index+1, e.ContractName, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// ContractNotFoundError carries close matches for an unknown contract name
type ContractNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *ContractNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%v: %s", ErrContractNotFound, e.Name)
	}
	return fmt.Sprintf("%v: %s (did you mean %s?)", ErrContractNotFound, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *ContractNotFoundError) Unwrap() error {
	return ErrContractNotFound
}

// AmbiguousContractError lists the artifacts a bare contract name resolved to
type AmbiguousContractError struct {
	Name    string
	Matches []*ContractInfo
}

func (e *AmbiguousContractError) Error() string {
	sorted := make([]*ContractInfo, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key() < sorted[j].Key()
	})

	var suggestions []string
	for _, contract := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s", contract.Key()))
	}

	return fmt.Sprintf("%v %q - use source:Name to disambiguate:\n%s",
		ErrAmbiguousContract, e.Name, strings.Join(suggestions, "\n"))
}

func (e *AmbiguousContractError) Unwrap() error {
	return ErrAmbiguousContract
}
