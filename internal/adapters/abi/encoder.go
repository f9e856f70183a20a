package abi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// ConstructorEncoderAdapter encodes constructor arguments with go-ethereum's ABI packer
type ConstructorEncoderAdapter struct{}

// NewConstructorEncoderAdapter creates a new constructor encoder
func NewConstructorEncoderAdapter() *ConstructorEncoderAdapter {
	return &ConstructorEncoderAdapter{}
}

// Coerce converts args to the Go values expected by the constructor inputs
func (e *ConstructorEncoderAdapter) Coerce(contractABI *abi.ABI, args []domain.ArgValue) ([]any, error) {
	var inputs abi.Arguments
	if contractABI != nil {
		inputs = contractABI.Constructor.Inputs
	}

	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%w: constructor%s expects %d arguments, got %d",
			domain.ErrInvalidArguments, signature(inputs), len(inputs), len(args))
	}

	values := make([]any, len(args))
	for i, input := range inputs {
		val, err := args[i].Coerce(input.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, paramName(input, i), err)
		}
		values[i] = val
	}
	return values, nil
}

// Encode returns the 0x-prefixed encoding of args. Contracts without an interface
// encode to "", contracts whose constructor takes nothing encode to "0x".
func (e *ConstructorEncoderAdapter) Encode(contractABI *abi.ABI, args []domain.ArgValue) (string, error) {
	if contractABI == nil {
		return "", nil
	}

	values, err := e.Coerce(contractABI, args)
	if err != nil {
		return "", err
	}

	packed, err := contractABI.Constructor.Inputs.Pack(values...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
	}
	return hexutil.Encode(packed), nil
}

func signature(inputs abi.Arguments) string {
	s := "("
	for i, input := range inputs {
		if i > 0 {
			s += ","
		}
		s += input.Type.String()
	}
	return s + ")"
}

func paramName(input abi.Argument, index int) string {
	if input.Name != "" {
		return input.Name
	}
	return fmt.Sprintf("#%d", index)
}

// Ensure the adapter implements the interface
var _ usecase.ConstructorEncoder = (*ConstructorEncoderAdapter)(nil)
