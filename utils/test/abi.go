package test

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector returns the 4-byte selector of a canonical function signature such as "owner()"
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// Pack ABI-encodes values of the given solidity types
func Pack(typeNames []string, values ...interface{}) []byte {
	args := make(abi.Arguments, len(typeNames))
	for i, name := range typeNames {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			panic(err)
		}
		args[i] = abi.Argument{Type: typ}
	}
	data, err := args.Pack(values...)
	if err != nil {
		panic(err)
	}
	return data
}

// EventLog builds a log emitted by address for a canonical event signature.
// Indexed addresses become topics; the remaining values are packed as data.
func EventLog(address common.Address, signature string, indexed []common.Address, dataTypes []string, values ...interface{}) *gethtypes.Log {
	topics := []common.Hash{crypto.Keccak256Hash([]byte(signature))}
	for _, addr := range indexed {
		topics = append(topics, common.BytesToHash(addr.Bytes()))
	}

	var data []byte
	if len(dataTypes) > 0 {
		data = Pack(dataTypes, values...)
	}

	return &gethtypes.Log{
		Address: address,
		Topics:  topics,
		Data:    data,
	}
}

// TokenDeployedLog builds the deploy event of the fungible factory
func TokenDeployedLog(factory, token, creator common.Address, name, symbol string, supply *big.Int, decimals uint8, fee *big.Int, mintable bool) *gethtypes.Log {
	return EventLog(factory,
		"TokenDeployed(address,address,string,string,uint256,uint8,uint256,bool)",
		[]common.Address{token, creator},
		[]string{"string", "string", "uint256", "uint8", "uint256", "bool"},
		name, symbol, supply, decimals, fee, mintable,
	)
}

// CollectionDeployedLog builds the deploy event of the non-fungible factory
func CollectionDeployedLog(factory, token, creator common.Address, name, symbol string, mintSize *big.Int, mintable bool, royaltyBps *big.Int) *gethtypes.Log {
	return EventLog(factory,
		"TokenDeployed(address,address,string,string,uint256,bool,uint96)",
		[]common.Address{token, creator},
		[]string{"string", "string", "uint256", "bool", "uint96"},
		name, symbol, mintSize, mintable, royaltyBps,
	)
}

// TokenMintedLog builds the mint event shared by both factories
func TokenMintedLog(factory, token, to common.Address, quantity, fee *big.Int) *gethtypes.Log {
	return EventLog(factory,
		"TokenMinted(address,address,uint256,uint256)",
		[]common.Address{token, to},
		[]string{"uint256", "uint256"},
		quantity, fee,
	)
}

// FeesUpdatedLog builds the fee update event shared by both factories
func FeesUpdatedLog(factory common.Address, small, medium, large *big.Int) *gethtypes.Log {
	return EventLog(factory,
		"FeesUpdated(uint256,uint256,uint256)",
		nil,
		[]string{"uint256", "uint256", "uint256"},
		small, medium, large,
	)
}

// TransferLog builds an ERC-20 Transfer event, useful as an unrelated log
func TransferLog(token, from, to common.Address, value *big.Int) *gethtypes.Log {
	return EventLog(token,
		"Transfer(address,address,uint256)",
		[]common.Address{from, to},
		[]string{"uint256"},
		value,
	)
}
