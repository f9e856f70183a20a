package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// TxOverrides are transaction fields applied to a creation transaction
type TxOverrides struct {
	Value     *big.Int
	GasLimit  uint64
	GasPrice  *big.Int
	GasFeeCap *big.Int
	GasTipCap *big.Int
	Nonce     *uint64
}

// IsZero reports whether no override is set
func (o TxOverrides) IsZero() bool {
	return o.Value == nil && o.GasLimit == 0 && o.GasPrice == nil &&
		o.GasFeeCap == nil && o.GasTipCap == nil && o.Nonce == nil
}

// DeploymentRequest is a single entry of a deployment plan
type DeploymentRequest struct {
	ContractName string
	Args         []ArgValue
	Overrides    TxOverrides
	Libraries    map[string]common.Address
	// ArgsFile loads Args from <contracts_dir>/<ContractName>.args at run time
	ArgsFile bool
}

// DeploymentPlan is the ordered list of deployments for one run
type DeploymentPlan struct {
	Source   string // file the plan was loaded from
	Requests []DeploymentRequest
}

// ContractNames returns the contract names in plan order
func (p *DeploymentPlan) ContractNames() []string {
	names := make([]string, len(p.Requests))
	for i, req := range p.Requests {
		names[i] = req.ContractName
	}
	return names
}

// DeploymentOutcome records a request that completed
type DeploymentOutcome struct {
	Request     DeploymentRequest
	Contract    *DeployedContract
	EncodedArgs string // as persisted, without 0x; empty when no .args file was written
}

var amountUnits = map[string]*big.Int{
	"wei":   big.NewInt(params.Wei),
	"gwei":  big.NewInt(params.GWei),
	"ether": big.NewInt(params.Ether),
	"eth":   big.NewInt(params.Ether),
}

var unitDecimals = map[string]int{
	"wei":   0,
	"gwei":  9,
	"ether": 18,
	"eth":   18,
}

// ParseAmount parses a wei amount. Accepts plain integers ("1000") or a decimal value
// followed by a unit ("0.05 ether", "30 gwei").
func ParseAmount(s string) (*big.Int, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty amount")
	}

	unit := "wei"
	if len(fields) == 2 {
		unit = fields[1]
	} else if len(fields) > 2 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	multiplier, ok := amountUnits[unit]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q in amount %q", unit, s)
	}

	if strings.HasPrefix(fields[0], "-") || strings.HasPrefix(fields[0], "+") {
		return nil, fmt.Errorf("invalid amount %q, amounts are unsigned", s)
	}

	whole, frac, hasFrac := strings.Cut(fields[0], ".")
	if len(frac) > unitDecimals[unit] {
		return nil, fmt.Errorf("amount %q has more decimals than %s supports", s, unit)
	}
	if hasFrac && (frac == "" || strings.Trim(frac, "0123456789") != "") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	wholeInt, ok := new(big.Int).SetString(whole, 10)
	if !ok || wholeInt.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	result := new(big.Int).Mul(wholeInt, multiplier)

	if frac != "" {
		fracInt, ok := new(big.Int).SetString(frac, 10)
		if !ok || fracInt.Sign() < 0 {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(unitDecimals[unit]-len(frac))), nil)
		result.Add(result, fracInt.Mul(fracInt, scale))
	}

	return result, nil
}
