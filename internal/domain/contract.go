package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractInfo describes an indexed compilation artifact
type ContractInfo struct {
	Name         string `json:"name"`
	SourcePath   string `json:"sourcePath"`
	ArtifactPath string `json:"artifactPath"`
}

// Key returns the fully qualified "source:Name" identifier
func (c *ContractInfo) Key() string {
	return fmt.Sprintf("%s:%s", c.SourcePath, c.Name)
}

// LinkReference is a placeholder in creation bytecode that takes a library address
type LinkReference struct {
	SourcePath string
	Library    string
	Start      int
	Length     int
}

// ContractFactory is everything needed to create a new instance of a contract
type ContractFactory struct {
	Contract *ContractInfo
	ABI      *abi.ABI
	Bytecode []byte // creation code with libraries linked
}

// DeployedContract is the handle returned once a creation transaction is confirmed
type DeployedContract struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	ABI         *abi.ABI
}
