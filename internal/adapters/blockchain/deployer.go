package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// Backend is the chain access the deployer needs
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc connects to an RPC endpoint
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// DeployerAdapter sends creation transactions signed with the configured key and
// waits for them to be mined
type DeployerAdapter struct {
	network    *config.Network
	privateKey string
	dial       DialFunc
	log        *slog.Logger

	mu      sync.Mutex
	backend Backend
	chainID *big.Int
}

// NewDeployerAdapter creates a deployer that connects to the configured network on
// first use
func NewDeployerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *DeployerAdapter {
	return &DeployerAdapter{
		network:    cfg.Network,
		privateKey: cfg.PrivateKey,
		dial:       dialEthclient,
		log:        log.With("component", "Deployer"),
	}
}

// NewDeployerAdapterWithBackend creates a deployer bound to an existing backend
func NewDeployerAdapterWithBackend(cfg *config.RuntimeConfig, backend Backend, log *slog.Logger) *DeployerAdapter {
	d := NewDeployerAdapter(cfg, log)
	d.dial = func(context.Context, string) (Backend, error) {
		return backend, nil
	}
	return d
}

// connect dials the RPC once and verifies the chain ID
func (d *DeployerAdapter) connect(ctx context.Context) (Backend, *big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.backend != nil {
		return d.backend, d.chainID, nil
	}

	backend, err := d.dial(ctx, d.network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to connect to %s: %w", domain.ErrSubmission, d.network.RPCURL, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to get chain ID: %w", domain.ErrSubmission, err)
	}

	// A configured chain ID of 0 accepts whatever the endpoint reports
	if d.network.ChainID != 0 && chainID.Uint64() != d.network.ChainID {
		return nil, nil, fmt.Errorf("%w: %s expects chain ID %d, RPC reports %d",
			domain.ErrNetworkMismatch, d.network.Name, d.network.ChainID, chainID.Uint64())
	}

	d.log.Debug("connected", "network", d.network.Name, "chainId", chainID.Uint64())
	d.backend = backend
	d.chainID = chainID
	return backend, chainID, nil
}

func (d *DeployerAdapter) signer() (*ecdsa.PrivateKey, error) {
	if d.privateKey == "" {
		return nil, fmt.Errorf("no deployer key configured, set TREB_PRIVATE_KEY or deployer.private_key")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(d.privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer key: %w", err)
	}
	return key, nil
}

// Deploy sends the creation transaction and waits until the contract has code
func (d *DeployerAdapter) Deploy(ctx context.Context, factory *domain.ContractFactory, args []any, overrides domain.TxOverrides) (*domain.DeployedContract, error) {
	key, err := d.signer()
	if err != nil {
		return nil, err
	}

	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmission, err)
	}
	opts.Context = ctx
	applyOverrides(opts, overrides)

	address, tx, _, err := bind.DeployContract(opts, *factory.ABI, factory.Bytecode, backend, args...)
	if err != nil {
		// Gas estimation runs the constructor, so a revert shows up before anything is sent
		if reverted(err) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrConstructorReverted, factory.Contract.Name, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmission, err)
	}
	d.log.Debug("creation transaction sent",
		"contract", factory.Contract.Name,
		"tx", tx.Hash().Hex(),
		"address", address.Hex())

	if _, err := bind.WaitDeployed(ctx, backend, tx); err != nil {
		if errors.Is(err, bind.ErrNoCodeAfterDeploy) {
			return nil, fmt.Errorf("%w: %s (tx %s)", domain.ErrConstructorReverted, factory.Contract.Name, tx.Hash().Hex())
		}
		return nil, fmt.Errorf("%w: waiting for %s: %w", domain.ErrSubmission, tx.Hash().Hex(), err)
	}

	receipt, err := backend.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch receipt for %s: %w", domain.ErrSubmission, tx.Hash().Hex(), err)
	}

	return &domain.DeployedContract{
		Address:     address,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		ABI:         factory.ABI,
	}, nil
}

// reverted reports whether err carries an EVM revert. Over RPC the sentinel is lost and
// only the message survives.
func reverted(err error) bool {
	if errors.Is(err, vm.ErrExecutionReverted) {
		return true
	}
	return strings.Contains(err.Error(), vm.ErrExecutionReverted.Error())
}

func applyOverrides(opts *bind.TransactOpts, overrides domain.TxOverrides) {
	if overrides.Value != nil {
		opts.Value = overrides.Value
	}
	if overrides.GasLimit != 0 {
		opts.GasLimit = overrides.GasLimit
	}
	if overrides.GasPrice != nil {
		opts.GasPrice = overrides.GasPrice
	}
	if overrides.GasFeeCap != nil {
		opts.GasFeeCap = overrides.GasFeeCap
	}
	if overrides.GasTipCap != nil {
		opts.GasTipCap = overrides.GasTipCap
	}
	if overrides.Nonce != nil {
		opts.Nonce = new(big.Int).SetUint64(*overrides.Nonce)
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractDeployer = (*DeployerAdapter)(nil)
