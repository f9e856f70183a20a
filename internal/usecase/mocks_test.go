package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// MockResolver is a mock implementation of ContractFactoryResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) GetContractFactory(ctx context.Context, name string, libraries map[string]common.Address) (*domain.ContractFactory, error) {
	args := m.Called(ctx, name, libraries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractFactory), args.Error(1)
}

func (m *MockResolver) ListContracts(ctx context.Context) ([]*domain.ContractInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContractInfo), args.Error(1)
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, factory *domain.ContractFactory, values []any, overrides domain.TxOverrides) (*domain.DeployedContract, error) {
	args := m.Called(ctx, factory, values, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeployedContract), args.Error(1)
}

// MockArgsReader is a mock implementation of ArgsFileReader
type MockArgsReader struct {
	mock.Mock
}

func (m *MockArgsReader) ReadArgs(ctx context.Context, name string) []domain.ArgValue {
	args := m.Called(ctx, name)
	return args.Get(0).([]domain.ArgValue)
}

// MockBuilder is a mock implementation of ContractBuilder
type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Build(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockSelector is a mock implementation of PlanSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectRequests(ctx context.Context, requests []domain.DeploymentRequest) ([]domain.DeploymentRequest, error) {
	args := m.Called(ctx, requests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeploymentRequest), args.Error(1)
}

// MockConfirmer is a mock implementation of BroadcastConfirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  {}
func (m *MockProgressSink) Error(message string) {}

func (m *MockProgressSink) stages() []usecase.ExecutionStage {
	stages := make([]usecase.ExecutionStage, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustABI(t *testing.T, def string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)
	return &parsed
}

func factory(t *testing.T, name, abiDef string) *domain.ContractFactory {
	t.Helper()
	return &domain.ContractFactory{
		Contract: &domain.ContractInfo{Name: name, SourcePath: "contracts/" + name + ".sol"},
		ABI:      mustABI(t, abiDef),
		Bytecode: common.FromHex("0x6080"),
	}
}
