package contracts

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/types"
	"github.com/lmittmann/w3"
)

// CodeCaller reads contract code and executes calls
type CodeCaller interface {
	Caller
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
}

var (
	funcCreator  = w3.MustNewFunc("creator()", "address")
	funcDecimals = w3.MustNewFunc("decimals()", "uint8")

	// Entry points a factory token must dispatch to be mintable after deployment
	funcTokenMint        = w3.MustNewFunc("mint(address to, uint256 amount)", "")
	funcFactoryBatchMint = w3.MustNewFunc("factoryBatchMint(address to, uint256 quantity)", "")
)

// MintSelector returns the selector of the mint entry point used by tokens of a factory kind
func MintSelector(kind types.FactoryKind) [4]byte {
	if kind == types.NonFungibleFactory {
		return funcFactoryBatchMint.Selector
	}
	return funcTokenMint.Selector
}

// HasMintEntrypoint reports whether the token bytecode dispatches the mint selector of its kind
func HasMintEntrypoint(ctx context.Context, caller CodeCaller, token common.Address, kind types.FactoryKind) (bool, error) {
	code, err := caller.CodeAt(ctx, token, nil)
	if err != nil {
		return false, types.ErrReadFailed.WithDetail("read code of %s", token.Hex()).Wrap(err)
	}
	if len(code) == 0 {
		return false, nil
	}
	selector := MintSelector(kind)
	return bytes.Contains(code, selector[:]), nil
}

// TokenCreator reads the creator recorded by a collection contract
func TokenCreator(ctx context.Context, caller Caller, token common.Address) (common.Address, error) {
	var creator common.Address
	if err := callToken(ctx, caller, token, funcCreator, &creator); err != nil {
		return common.Address{}, err
	}
	return creator, nil
}

// TokenDecimals reads the decimals of a fungible token
func TokenDecimals(ctx context.Context, caller Caller, token common.Address) (uint8, error) {
	var decimals uint8
	if err := callToken(ctx, caller, token, funcDecimals, &decimals); err != nil {
		return 0, err
	}
	return decimals, nil
}

func callToken(ctx context.Context, caller Caller, token common.Address, fn *w3.Func, returns ...any) error {
	input, err := fn.EncodeArgs()
	if err != nil {
		return types.ErrValidation.WithDetail("encode %s", fn.Signature).Wrap(err)
	}
	output, err := caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return types.ErrReadFailed.WithDetail("call %s on %s", fn.Signature, token.Hex()).Wrap(err)
	}
	if err := fn.DecodeReturns(output, returns...); err != nil {
		return types.ErrReadFailed.WithDetail("decode %s on %s", fn.Signature, token.Hex()).Wrap(err)
	}
	return nil
}
