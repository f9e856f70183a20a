package usecase_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	abiadapter "github.com/trebuchet-org/treb-deploy/internal/adapters/abi"
	"github.com/trebuchet-org/treb-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

const (
	tokenABI = `[{"type":"constructor","inputs":[{"name":"owner","type":"address"},{"name":"supply","type":"uint256"}]}]`
	plainABI = `[{"type":"function","name":"ping","inputs":[],"outputs":[]}]`
)

var (
	owner   = common.HexToAddress("0x11C9bB8A4d1Ea1d8c1a4E2aa6f0a8F4D6a1c9B01")
	addrOne = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	addrTwo = common.HexToAddress("0x00000000000000000000000000000000000000B2")
)

type runFixture struct {
	cfg        *config.RuntimeConfig
	resolver   *MockResolver
	deployer   *MockDeployer
	argsReader *MockArgsReader
	builder    *MockBuilder
	selector   *MockSelector
	confirmer  *MockConfirmer
	sink       *MockProgressSink
	uc         *usecase.RunDeployments
}

func newRunFixture(t *testing.T, chainID uint64) *runFixture {
	t.Helper()

	f := &runFixture{
		cfg: &config.RuntimeConfig{
			ArtifactsDir: filepath.Join(t.TempDir(), "artifacts"),
			Network:      &config.Network{Name: "localhost", ChainID: chainID},
		},
		resolver:   &MockResolver{},
		deployer:   &MockDeployer{},
		argsReader: &MockArgsReader{},
		builder:    &MockBuilder{},
		selector:   &MockSelector{},
		confirmer:  &MockConfirmer{},
		sink:       &MockProgressSink{},
	}
	f.uc = usecase.NewRunDeployments(
		f.cfg,
		f.resolver,
		f.deployer,
		abiadapter.NewConstructorEncoderAdapter(),
		fs.NewArtifactStoreAdapter(f.cfg),
		f.argsReader,
		f.builder,
		f.selector,
		f.confirmer,
		f.sink,
		discardLogger(),
	)
	return f
}

func (f *runFixture) artifact(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(f.cfg.ArtifactsDir, name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func tokenRequest(supply int64) domain.DeploymentRequest {
	return domain.DeploymentRequest{
		ContractName: "Token",
		Args:         []domain.ArgValue{domain.NewAddress(owner), domain.NewNumber(big.NewInt(supply))},
	}
}

func deployed(addr common.Address) *domain.DeployedContract {
	return &domain.DeployedContract{Address: addr, TxHash: common.HexToHash("0x01"), BlockNumber: 1, GasUsed: 21000}
}

func TestRunDeployments_WritesArtifacts(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	token := factory(t, "Token", tokenABI)
	plain := factory(t, "Plain", plainABI)
	f.resolver.On("GetContractFactory", mock.Anything, "Token", mock.Anything).Return(token, nil)
	f.resolver.On("GetContractFactory", mock.Anything, "Plain", mock.Anything).Return(plain, nil)

	f.deployer.On("Deploy", mock.Anything, token, mock.MatchedBy(func(values []any) bool {
		return len(values) == 2 && values[0] == owner && values[1].(*big.Int).Int64() == 1000
	}), domain.TxOverrides{}).Return(deployed(addrOne), nil)
	f.deployer.On("Deploy", mock.Anything, plain, []any{}, domain.TxOverrides{}).Return(deployed(addrTwo), nil)

	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{
		tokenRequest(1000),
		{ContractName: "Plain"},
	}}

	result, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)

	packed, err := token.ABI.Constructor.Inputs.Pack(owner, big.NewInt(1000))
	require.NoError(t, err)

	address, ok := f.artifact("Token.address")
	require.True(t, ok)
	assert.Equal(t, addrOne.Hex(), address)

	args, ok := f.artifact("Token.args")
	require.True(t, ok)
	assert.Equal(t, hex.EncodeToString(packed), args)
	assert.Equal(t, args, result.Outcomes[0].EncodedArgs)

	address, ok = f.artifact("Plain.address")
	require.True(t, ok)
	assert.Equal(t, addrTwo.Hex(), address)

	_, ok = f.artifact("Plain.args")
	assert.False(t, ok, "no args file for a contract without constructor inputs")

	assert.Equal(t, []usecase.ExecutionStage{
		usecase.StageResolving, usecase.StageDeploying, usecase.StageWriting, usecase.StageDeployed,
		usecase.StageResolving, usecase.StageDeploying, usecase.StageWriting, usecase.StageDeployed,
		usecase.StageCompleted,
	}, f.sink.stages())

	f.confirmer.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	f.builder.AssertNotCalled(t, "Build", mock.Anything)
}

func TestRunDeployments_FailureStopsSequence(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	first := factory(t, "First", plainABI)
	second := factory(t, "Second", plainABI)
	f.resolver.On("GetContractFactory", mock.Anything, "First", mock.Anything).Return(first, nil)
	f.resolver.On("GetContractFactory", mock.Anything, "Second", mock.Anything).Return(second, nil)

	f.deployer.On("Deploy", mock.Anything, first, mock.Anything, mock.Anything).Return(deployed(addrOne), nil)
	f.deployer.On("Deploy", mock.Anything, second, mock.Anything, mock.Anything).
		Return(nil, errors.Join(domain.ErrSubmission, errors.New("insufficient funds")))

	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{
		{ContractName: "First"},
		{ContractName: "Second"},
		{ContractName: "Third"},
	}}

	result, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubmission)

	var deployErr *domain.DeploymentError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, 1, deployErr.Index)
	assert.Equal(t, "Second", deployErr.ContractName)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "First", result.Outcomes[0].Request.ContractName)

	_, ok := f.artifact("First.address")
	assert.True(t, ok)
	_, ok = f.artifact("Second.address")
	assert.False(t, ok)
	_, ok = f.artifact("Third.address")
	assert.False(t, ok)

	f.resolver.AssertNotCalled(t, "GetContractFactory", mock.Anything, "Third", mock.Anything)
}

func TestRunDeployments_InvalidArgsFailBeforeDeploy(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	token := factory(t, "Token", tokenABI)
	f.resolver.On("GetContractFactory", mock.Anything, "Token", mock.Anything).Return(token, nil)

	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{{
		ContractName: "Token",
		Args:         []domain.ArgValue{domain.NewString("not an address"), domain.NewNumber(big.NewInt(1))},
	}}}

	_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArguments)

	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	_, ok := f.artifact("Token.address")
	assert.False(t, ok)
}

func TestRunDeployments_RerunOverwrites(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	token := factory(t, "Token", tokenABI)
	f.resolver.On("GetContractFactory", mock.Anything, "Token", mock.Anything).Return(token, nil)
	f.deployer.On("Deploy", mock.Anything, token, mock.Anything, mock.Anything).Return(deployed(addrOne), nil).Once()
	f.deployer.On("Deploy", mock.Anything, token, mock.Anything, mock.Anything).Return(deployed(addrTwo), nil).Once()

	_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: &domain.DeploymentPlan{
		Requests: []domain.DeploymentRequest{tokenRequest(1)},
	}})
	require.NoError(t, err)
	firstArgs, _ := f.artifact("Token.args")

	_, err = f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: &domain.DeploymentPlan{
		Requests: []domain.DeploymentRequest{tokenRequest(2)},
	}})
	require.NoError(t, err)

	address, _ := f.artifact("Token.address")
	assert.Equal(t, addrTwo.Hex(), address)

	secondArgs, _ := f.artifact("Token.args")
	assert.NotEqual(t, firstArgs, secondArgs)
	assert.Len(t, secondArgs, 128)
	f.deployer.AssertNumberOfCalls(t, "Deploy", 2)
}

func TestRunDeployments_ArgsFile(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	token := factory(t, "Token", tokenABI)
	f.resolver.On("GetContractFactory", mock.Anything, "Token", mock.Anything).Return(token, nil)
	f.argsReader.On("ReadArgs", mock.Anything, "Token").
		Return([]domain.ArgValue{domain.NewAddress(owner), domain.NewNumber(big.NewInt(42))})
	f.deployer.On("Deploy", mock.Anything, token, mock.Anything, mock.Anything).Return(deployed(addrOne), nil)

	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{
		{ContractName: "Token", ArgsFile: true},
	}}

	result, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Len(t, result.Outcomes[0].Request.Args, 2)
	f.argsReader.AssertCalled(t, "ReadArgs", mock.Anything, "Token")
}

func TestRunDeployments_Confirmation(t *testing.T) {
	ctx := context.Background()
	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{{ContractName: "Plain"}}}

	t.Run("declined on a public chain", func(t *testing.T) {
		f := newRunFixture(t, 11155111)
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
		assert.ErrorIs(t, err, domain.ErrDeploymentCancelled)
		f.resolver.AssertNotCalled(t, "GetContractFactory", mock.Anything, mock.Anything, mock.Anything)
		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skipped with --yes", func(t *testing.T) {
		f := newRunFixture(t, 11155111)
		plain := factory(t, "Plain", plainABI)
		f.resolver.On("GetContractFactory", mock.Anything, "Plain", mock.Anything).Return(plain, nil)
		f.deployer.On("Deploy", mock.Anything, plain, mock.Anything, mock.Anything).Return(deployed(addrOne), nil)

		_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan, SkipConfirm: true})
		require.NoError(t, err)
		f.confirmer.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("skipped in non-interactive mode", func(t *testing.T) {
		f := newRunFixture(t, 1)
		f.cfg.NonInteractive = true
		plain := factory(t, "Plain", plainABI)
		f.resolver.On("GetContractFactory", mock.Anything, "Plain", mock.Anything).Return(plain, nil)
		f.deployer.On("Deploy", mock.Anything, plain, mock.Anything, mock.Anything).Return(deployed(addrOne), nil)

		_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan})
		require.NoError(t, err)
		f.confirmer.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})
}

func TestRunDeployments_Build(t *testing.T) {
	ctx := context.Background()
	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{{ContractName: "Plain"}}}

	t.Run("build failure aborts before resolving", func(t *testing.T) {
		f := newRunFixture(t, 31337)
		f.builder.On("Build", mock.Anything).Return(domain.ErrBuildFailed)

		_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan, Build: true})
		assert.ErrorIs(t, err, domain.ErrBuildFailed)
		f.resolver.AssertNotCalled(t, "GetContractFactory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("build then deploy", func(t *testing.T) {
		f := newRunFixture(t, 31337)
		plain := factory(t, "Plain", plainABI)
		f.builder.On("Build", mock.Anything).Return(nil)
		f.resolver.On("GetContractFactory", mock.Anything, "Plain", mock.Anything).Return(plain, nil)
		f.deployer.On("Deploy", mock.Anything, plain, mock.Anything, mock.Anything).Return(deployed(addrOne), nil)

		_, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan, Build: true})
		require.NoError(t, err)
		f.builder.AssertCalled(t, "Build", mock.Anything)
		assert.Equal(t, usecase.StageBuilding, f.sink.events[0].Stage)
	})
}

func TestRunDeployments_Select(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture(t, 31337)

	plan := &domain.DeploymentPlan{Requests: []domain.DeploymentRequest{
		{ContractName: "First"},
		{ContractName: "Second"},
	}}

	second := factory(t, "Second", plainABI)
	f.selector.On("SelectRequests", mock.Anything, plan.Requests).Return(plan.Requests[1:], nil)
	f.resolver.On("GetContractFactory", mock.Anything, "Second", mock.Anything).Return(second, nil)
	f.deployer.On("Deploy", mock.Anything, second, mock.Anything, mock.Anything).Return(deployed(addrTwo), nil)

	result, err := f.uc.Run(ctx, usecase.RunDeploymentsParams{Plan: plan, Select: true})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "Second", result.Outcomes[0].Request.ContractName)
	f.resolver.AssertNotCalled(t, "GetContractFactory", mock.Anything, "First", mock.Anything)
}

func TestRunDeployments_EmptyPlan(t *testing.T) {
	f := newRunFixture(t, 31337)

	_, err := f.uc.Run(context.Background(), usecase.RunDeploymentsParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestFilterRequests(t *testing.T) {
	requests := []domain.DeploymentRequest{
		{ContractName: "A"},
		{ContractName: "B"},
		{ContractName: "C"},
	}

	tests := []struct {
		name     string
		only     []string
		expected []string
		wantErr  bool
	}{
		{name: "empty filter keeps all", only: nil, expected: []string{"A", "B", "C"}},
		{name: "keeps plan order", only: []string{"C", "A"}, expected: []string{"A", "C"}},
		{name: "duplicates are ignored", only: []string{"B", "B"}, expected: []string{"B"}},
		{name: "unknown name errors", only: []string{"A", "Z"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := usecase.FilterRequests(requests, tt.only)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPlan)
				assert.Contains(t, err.Error(), "Z")
				return
			}
			require.NoError(t, err)

			var names []string
			for _, req := range filtered {
				names = append(names, req.ContractName)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
