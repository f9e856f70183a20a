package abi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
)

const stakingABI = `[{
	"type": "constructor",
	"inputs": [
		{"name": "_stakingTokens", "type": "address[]"},
		{"name": "_rewardTokens", "type": "address[]"},
		{"name": "_rewardDistributors", "type": "address[]"},
		{"name": "_durations", "type": "uint256[]"},
		{"name": "_rewardAmounts", "type": "uint256[]"}
	]
}]`

func parseABI(t *testing.T, def string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)
	return &parsed
}

func TestConstructorEncoder_Encode(t *testing.T) {
	encoder := NewConstructorEncoderAdapter()

	t.Run("staking constructor with parallel arrays", func(t *testing.T) {
		contractABI := parseABI(t, stakingABI)

		raw := []any{
			[]any{"0x11C9bB8A4d1Ea1d8c1a4E2aa6f0a8F4D6a1c9B01", "0x50dBB8E7E13d5F1E5B0d21c8Fb4D0CA0a0D1c402"},
			[]any{"0x5ae2f8F0c1b1B1aADDc1F8d8A1C1c1D2E3f4A503", "0x5ae2f8F0c1b1B1aADDc1F8d8A1C1c1D2E3f4A503"},
			[]any{"0x0000000000000000000000000000000000000001", "0x0000000000000000000000000000000000000001"},
			[]any{int64(2592000), int64(2592000)},
			[]any{"50000000000000000000", "50000000000000000000"},
		}
		args, err := domain.ParseArgValues(raw)
		require.NoError(t, err)

		encoded, err := encoder.Encode(contractABI, args)
		require.NoError(t, err)

		reward, _ := new(big.Int).SetString("50000000000000000000", 10)
		duration := big.NewInt(2592000)
		expected, err := contractABI.Constructor.Inputs.Pack(
			[]common.Address{
				common.HexToAddress("0x11C9bB8A4d1Ea1d8c1a4E2aa6f0a8F4D6a1c9B01"),
				common.HexToAddress("0x50dBB8E7E13d5F1E5B0d21c8Fb4D0CA0a0D1c402"),
			},
			[]common.Address{
				common.HexToAddress("0x5ae2f8F0c1b1B1aADDc1F8d8A1C1c1D2E3f4A503"),
				common.HexToAddress("0x5ae2f8F0c1b1B1aADDc1F8d8A1C1c1D2E3f4A503"),
			},
			[]common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x01")},
			[]*big.Int{duration, duration},
			[]*big.Int{reward, reward},
		)
		require.NoError(t, err)

		assert.Equal(t, hexutil.Encode(expected), encoded)
		assert.True(t, strings.HasPrefix(encoded, "0x"))
	})

	t.Run("nil interface encodes to empty", func(t *testing.T) {
		encoded, err := encoder.Encode(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "", encoded)
	})

	t.Run("no constructor encodes to bare prefix", func(t *testing.T) {
		contractABI := parseABI(t, `[{"type":"function","name":"ping","inputs":[],"outputs":[]}]`)
		encoded, err := encoder.Encode(contractABI, nil)
		require.NoError(t, err)
		assert.Equal(t, "0x", encoded)
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		contractABI := parseABI(t, stakingABI)
		_, err := encoder.Encode(contractABI, []domain.ArgValue{domain.NewList()})
		assert.ErrorIs(t, err, domain.ErrInvalidArguments)
		assert.ErrorContains(t, err, "constructor(address[],address[],address[],uint256[],uint256[]) expects 5 arguments, got 1")
	})

	t.Run("type mismatch names the parameter", func(t *testing.T) {
		contractABI := parseABI(t, `[{"type":"constructor","inputs":[{"name":"owner","type":"address"}]}]`)
		_, err := encoder.Encode(contractABI, []domain.ArgValue{domain.NewNumber(big.NewInt(1))})
		assert.ErrorIs(t, err, domain.ErrInvalidArguments)
		assert.ErrorContains(t, err, "argument 0 (owner)")
	})
}

func TestConstructorEncoder_Coerce(t *testing.T) {
	encoder := NewConstructorEncoderAdapter()
	contractABI := parseABI(t, `[{"type":"constructor","inputs":[{"name":"","type":"uint8"},{"name":"label","type":"string"}]}]`)

	values, err := encoder.Coerce(contractABI, []domain.ArgValue{
		domain.NewNumber(big.NewInt(7)),
		domain.NewString("vault"),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{uint8(7), "vault"}, values)

	_, err = encoder.Coerce(contractABI, []domain.ArgValue{
		domain.NewNumber(big.NewInt(700)),
		domain.NewString("vault"),
	})
	assert.ErrorContains(t, err, "argument 0 (#0)")
}
