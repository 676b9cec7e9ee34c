package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/types"
	"github.com/lmittmann/w3"
)

// Caller executes read-only contract calls
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

var (
	funcOwner              = w3.MustNewFunc("owner()", "address")
	funcGetCurrentFees     = w3.MustNewFunc("getCurrentFees()", "uint256 small, uint256 medium, uint256 large")
	funcGetContractBalance = w3.MustNewFunc("getContractBalance()", "uint256")
	funcGetTokenCreator    = w3.MustNewFunc("getTokenCreator(address token)", "address")

	funcDeployToken = w3.MustNewFunc(
		"deployToken(string name, string symbol, uint256 initialSupply, uint8 decimals, bool isMintable)", "address",
	)
	funcDeployCollection = w3.MustNewFunc(
		"deployToken(string name, string symbol, string baseURI, uint256 initialMintSize, bool isMintable, uint96 royaltyBps)", "address",
	)
	funcMintToken    = w3.MustNewFunc("mintToken(address token, address to, uint256 quantity)", "")
	funcUpdateFees   = w3.MustNewFunc("updateFees(uint256 small, uint256 medium, uint256 large)", "")
	funcWithdrawFees = w3.MustNewFunc("withdrawFees(uint256 amount)", "")
	funcRecoverERC20 = w3.MustNewFunc("recoverERC20(address token, address to, uint256 amount)", "")
)

// Factory reads a token factory contract and encodes calls to it
type Factory struct {
	Address common.Address
	Kind    types.FactoryKind
	caller  Caller
	from    common.Address
}

// NewFactory binds a factory at address, reading as from
func NewFactory(address common.Address, kind types.FactoryKind, caller Caller, from common.Address) *Factory {
	return &Factory{
		Address: address,
		Kind:    kind,
		caller:  caller,
		from:    from,
	}
}

func (f *Factory) call(ctx context.Context, fn *w3.Func, args []any, returns ...any) error {
	input, err := fn.EncodeArgs(args...)
	if err != nil {
		return types.ErrValidation.WithDetail("encode %s", fn.Signature).Wrap(err)
	}
	output, err := f.caller.CallContract(ctx, ethereum.CallMsg{
		From: f.from,
		To:   &f.Address,
		Data: input,
	}, nil)
	if err != nil {
		return types.ErrReadFailed.WithDetail("call %s", fn.Signature).Wrap(err)
	}
	if err := fn.DecodeReturns(output, returns...); err != nil {
		return types.ErrReadFailed.WithDetail("decode %s", fn.Signature).Wrap(err)
	}
	return nil
}

// Owner returns the factory owner
func (f *Factory) Owner(ctx context.Context) (common.Address, error) {
	var owner common.Address
	if err := f.call(ctx, funcOwner, nil, &owner); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// CurrentFees returns the tier fees charged by the factory
func (f *Factory) CurrentFees(ctx context.Context) (types.FeeSchedule, error) {
	var small, medium, large big.Int
	if err := f.call(ctx, funcGetCurrentFees, nil, &small, &medium, &large); err != nil {
		return types.FeeSchedule{}, err
	}
	return types.FeeSchedule{Small: &small, Medium: &medium, Large: &large}, nil
}

// Balance returns the fees accumulated by the factory
func (f *Factory) Balance(ctx context.Context) (*big.Int, error) {
	var balance big.Int
	if err := f.call(ctx, funcGetContractBalance, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// TokenCreator returns the creator the factory recorded for token, or the zero address
func (f *Factory) TokenCreator(ctx context.Context, token common.Address) (common.Address, error) {
	var creator common.Address
	if err := f.call(ctx, funcGetTokenCreator, []any{token}, &creator); err != nil {
		return common.Address{}, err
	}
	return creator, nil
}

// PackDeployToken encodes a fungible token deployment
func PackDeployToken(name, symbol string, initialSupply *big.Int, decimals uint8, isMintable bool) ([]byte, error) {
	return funcDeployToken.EncodeArgs(name, symbol, initialSupply, decimals, isMintable)
}

// PackDeployCollection encodes a non-fungible collection deployment
func PackDeployCollection(name, symbol, baseURI string, initialMintSize *big.Int, isMintable bool, royaltyBps uint16) ([]byte, error) {
	return funcDeployCollection.EncodeArgs(name, symbol, baseURI, initialMintSize, isMintable, big.NewInt(int64(royaltyBps)))
}

// PackMint encodes a factory mint
func PackMint(token, to common.Address, quantity *big.Int) ([]byte, error) {
	return funcMintToken.EncodeArgs(token, to, quantity)
}

// PackUpdateFees encodes a fee schedule update
func PackUpdateFees(schedule types.FeeSchedule) ([]byte, error) {
	return funcUpdateFees.EncodeArgs(schedule.Small, schedule.Medium, schedule.Large)
}

// PackWithdrawFees encodes a fee withdrawal; zero withdraws the whole balance
func PackWithdrawFees(amount *big.Int) ([]byte, error) {
	return funcWithdrawFees.EncodeArgs(amount)
}

// PackRecoverERC20 encodes the recovery of tokens held by the factory
func PackRecoverERC20(token, to common.Address, amount *big.Int) ([]byte, error) {
	return funcRecoverERC20.EncodeArgs(token, to, amount)
}
