package usecase

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
)

// EncodeConstructorArgsParams contains parameters for encoding constructor args
type EncodeConstructorArgsParams struct {
	ContractName string
	Args         []domain.ArgValue
	// FromArgsFile reads the args from <contracts_dir>/<ContractName>.args instead of Args
	FromArgsFile bool
	Libraries    map[string]common.Address
}

// EncodeConstructorArgsResult contains the encoded constructor args
type EncodeConstructorArgsResult struct {
	Contract *domain.ContractInfo
	Args     []domain.ArgValue
	// Encoded is the hex encoding without the 0x prefix, empty when the
	// contract has no constructor or takes no arguments
	Encoded string
}

// EncodeConstructorArgs produces the constructor payload used for manual source verification
type EncodeConstructorArgs struct {
	resolver   ContractFactoryResolver
	encoder    ConstructorEncoder
	argsReader ArgsFileReader
}

// NewEncodeConstructorArgs creates a new EncodeConstructorArgs use case
func NewEncodeConstructorArgs(
	resolver ContractFactoryResolver,
	encoder ConstructorEncoder,
	argsReader ArgsFileReader,
) *EncodeConstructorArgs {
	return &EncodeConstructorArgs{
		resolver:   resolver,
		encoder:    encoder,
		argsReader: argsReader,
	}
}

// Run encodes the args against the contract's constructor
func (uc *EncodeConstructorArgs) Run(ctx context.Context, params EncodeConstructorArgsParams) (*EncodeConstructorArgsResult, error) {
	args := params.Args
	if params.FromArgsFile {
		args = uc.argsReader.ReadArgs(ctx, params.ContractName)
	}

	factory, err := uc.resolver.GetContractFactory(ctx, params.ContractName, params.Libraries)
	if err != nil {
		return nil, err
	}

	encoded, err := uc.encoder.Encode(factory.ABI, args)
	if err != nil {
		return nil, err
	}

	result := &EncodeConstructorArgsResult{
		Contract: factory.Contract,
		Args:     args,
	}
	if len(encoded) > 2 {
		result.Encoded = strings.TrimPrefix(encoded, "0x")
	}
	return result, nil
}
