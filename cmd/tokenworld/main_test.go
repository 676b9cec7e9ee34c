package main

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/test"
	"github.com/stretchr/testify/assert"
)

func newTestApp() (*app, *test.FakeChain) {
	chain := test.NewFakeChain(common.Address{})
	sepolia := registry.DefaultChains[0]

	chain.OnCall(sepolia.FungibleFactoryAddress, test.Selector("getCurrentFees()"),
		test.Pack([]string{"uint256", "uint256", "uint256"}, big.NewInt(1e15), big.NewInt(2e15), big.NewInt(5e15)))

	return &app{
		chains: registry.NewDefault(nil),
		dial: func(ctx context.Context, rpcURL string) (contracts.Caller, error) {
			return chain, nil
		},
	}, chain
}

func run(a *app, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChainsCmd(t *testing.T) {
	a, _ := newTestApp()

	out, err := run(a, "chains")
	assert.NoError(t, err)
	assert.Contains(t, out, "Sepolia")
	assert.Contains(t, out, "0xaa36a7")
	assert.Contains(t, out, "Base Sepolia")
}

func TestFeesCmd(t *testing.T) {
	a, _ := newTestApp()

	out, err := run(a, "fees", "--chain", "sepolia", "--kind", "erc20")
	assert.NoError(t, err)
	assert.Contains(t, out, "0.001 ETH")
	assert.Contains(t, out, "0.002 ETH")
	assert.Contains(t, out, "0.005 ETH")

	_, err = run(a, "fees", "--kind", "erc1155")
	assert.Error(t, err)

	_, err = run(a, "fees", "--chain", "mainnet")
	assert.ErrorIs(t, err, types.ErrUnknownChain)

	// the erc721 factory was never scripted
	_, err = run(a, "fees", "--kind", "erc721")
	assert.Error(t, err)
}

func TestQuoteCmd(t *testing.T) {
	a, _ := newTestApp()

	out, err := run(a, "quote", "--operation", "token_deploy", "--quantity", "9999")
	assert.NoError(t, err)
	assert.Contains(t, out, "medium tier, 0.002 ETH")

	out, err = run(a, "quote", "--operation", "token_mint", "--quantity", "10000")
	assert.NoError(t, err)
	assert.Contains(t, out, "large tier, 0.005 ETH")

	_, err = run(a, "quote", "--operation", "token_deploy", "--quantity", "0")
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)

	_, err = run(a, "quote", "--operation", "burn", "--quantity", "1")
	assert.Error(t, err)
}

func TestQuoteCmdDialFailure(t *testing.T) {
	a, _ := newTestApp()
	a.dial = func(ctx context.Context, rpcURL string) (contracts.Caller, error) {
		return nil, errors.New("connection refused")
	}

	_, err := run(a, "quote", "--quantity", "1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestAccountCmd(t *testing.T) {
	t.Setenv("DEV_WALLET_MNEMONIC", "test test test test test test test test test test test junk")

	out, err := run(&app{}, "account", "--index", "1")
	assert.NoError(t, err)
	assert.Contains(t, out, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	out, err = run(&app{}, "account", "--new")
	assert.NoError(t, err)
	assert.Contains(t, out, "mnemonic:")
}
