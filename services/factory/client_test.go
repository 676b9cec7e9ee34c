package factory

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/services/network"
	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/kapildev5262/Token-World/services/session"
	"github.com/kapildev5262/Token-World/services/transaction"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	token   = common.HexToAddress("0x000000000000000000000000000000000000cafe")
	erc20   = registry.DefaultChains[0].FungibleFactoryAddress
	erc721  = registry.DefaultChains[0].NonFungibleFactoryAddress
	feeTier = types.FeeSchedule{Small: big.NewInt(1000), Medium: big.NewInt(2000), Large: big.NewInt(3000)}
)

type fixture struct {
	chain    *test.FakeChain
	wallet   *test.MockWallet
	session  *session.Session
	resolver *fees.Resolver
	manager  *Manager
}

func factoryAddress(kind types.FactoryKind) common.Address {
	if kind == types.NonFungibleFactory {
		return erc721
	}
	return erc20
}

// scriptFactory answers the factory read calls for owner, fees and balance
func scriptFactory(chain *test.FakeChain, kind types.FactoryKind, owner common.Address, schedule types.FeeSchedule, balance *big.Int) {
	addr := factoryAddress(kind)
	chain.OnCall(addr, test.Selector("owner()"), test.Pack([]string{"address"}, owner))
	chain.OnCall(addr, test.Selector("getCurrentFees()"), test.Pack([]string{"uint256", "uint256", "uint256"}, schedule.Small, schedule.Medium, schedule.Large))
	chain.OnCall(addr, test.Selector("getContractBalance()"), test.Pack([]string{"uint256"}, balance))
}

func newFixture(t *testing.T) *fixture {
	chain := test.NewFakeChain(alice)
	wallet := test.NewMockWallet(chain)
	wallet.On("RequestAccounts").Return([]common.Address{alice}, nil)
	wallet.On("ChainID").Return("0xaa36a7", nil)

	chains := registry.NewDefault(nil)
	sess := session.New(wallet, chains, network.NewCoordinator())
	assert.NoError(t, sess.Connect(context.Background(), registry.Sepolia))

	resolver := fees.NewResolver()
	manager := NewManager(sess, chains, resolver, transaction.NewOrchestrator(time.Millisecond))

	t.Cleanup(sess.Disconnect)

	return &fixture{chain: chain, wallet: wallet, session: sess, resolver: resolver, manager: manager}
}

func (f *fixture) client(t *testing.T, kind types.FactoryKind) *Client {
	c, err := f.manager.Client(context.Background(), kind)
	assert.NoError(t, err)
	return c
}

func typedErr(t *testing.T, err error) *types.Error {
	var typed *types.Error
	assert.True(t, errors.As(err, &typed), "expected a typed error, got %v", err)
	return typed
}

func TestLoadConfiguration(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees the balance", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(5e15))

		cfg := f.client(t, types.FungibleFactory).Configuration()
		assert.True(t, cfg.Known)
		assert.True(t, cfg.IsOwner)
		assert.Equal(t, alice, cfg.Owner)
		assert.Equal(t, int64(2000), cfg.Fees.Medium.Int64())
		assert.Equal(t, int64(5e15), cfg.Balance.Int64())

		schedule, ok := f.resolver.Schedule(registry.Sepolia, types.FungibleFactory)
		assert.True(t, ok)
		assert.Equal(t, int64(3000), schedule.Large.Int64())
	})

	t.Run("non-owner does not read the balance", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.NonFungibleFactory, bob, feeTier, big.NewInt(1))

		cfg := f.client(t, types.NonFungibleFactory).LoadConfiguration(ctx)
		assert.True(t, cfg.Known)
		assert.False(t, cfg.IsOwner)
		assert.Nil(t, cfg.Balance)
	})

	t.Run("read failures are not errors", func(t *testing.T) {
		f := newFixture(t)

		c := f.client(t, types.FungibleFactory)
		cfg := c.LoadConfiguration(ctx)
		assert.False(t, cfg.Known)
		assert.False(t, cfg.IsOwner)
		assert.Equal(t, erc20, cfg.Address)

		_, ok := f.resolver.Schedule(registry.Sepolia, types.FungibleFactory)
		assert.False(t, ok)
	})
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid parameters never reach the network", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, bob, feeTier, big.NewInt(0))
		c := f.client(t, types.FungibleFactory)

		tests := []struct {
			params TokenParams
			field  string
		}{
			{TokenParams{Name: strings.Repeat("a", 33), Symbol: "GLD", InitialSupply: big.NewInt(1)}, "name"},
			{TokenParams{Name: "Gold", Symbol: "", InitialSupply: big.NewInt(1)}, "symbol"},
			{TokenParams{Name: "Gold", Symbol: "GOLDCOINS", InitialSupply: big.NewInt(1)}, "symbol"},
			{TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1), Decimals: 19}, "decimals"},
			{TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(0)}, "initialSupply"},
			{TokenParams{Name: "Gold", Symbol: "GLD"}, "initialSupply"},
		}

		for _, tt := range tests {
			_, err := c.Deploy(ctx, tt.params)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Equal(t, tt.field, typedErr(t, err).Field)
		}
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("collection limits", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.NonFungibleFactory, bob, feeTier, big.NewInt(0))
		c := f.client(t, types.NonFungibleFactory)

		tests := []struct {
			params CollectionParams
			field  string
		}{
			{CollectionParams{Name: "Apes", Symbol: "APE", InitialMintSize: big.NewInt(501)}, "initialMintSize"},
			{CollectionParams{Name: "Apes", Symbol: "APE", InitialMintSize: big.NewInt(0)}, "initialMintSize"},
			{CollectionParams{Name: "Apes", Symbol: "APE", InitialMintSize: big.NewInt(1), RoyaltyBasisPoints: 10001}, "royaltyBps"},
			{CollectionParams{Name: "Apes", Symbol: "APE", BaseURI: strings.Repeat("u", 513), InitialMintSize: big.NewInt(1)}, "baseUri"},
		}

		for _, tt := range tests {
			_, err := c.Deploy(ctx, tt.params)
			assert.Equal(t, tt.field, typedErr(t, err).Field)
		}

		_, err := c.Deploy(ctx, TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1)})
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("pays the tier fee and records the deployment", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, bob, feeTier, big.NewInt(0))
		f.chain.EmitLogs(func(call ethereum.CallMsg) []*gethtypes.Log {
			return []*gethtypes.Log{
				test.TransferLog(token, common.Address{}, alice, big.NewInt(1000)),
				test.TokenDeployedLog(erc20, token, alice, "Gold", "GLD", big.NewInt(1000), 18, big.NewInt(2000), true),
			}
		})
		c := f.client(t, types.FungibleFactory)

		params := TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1000), Decimals: 18, IsMintable: true}
		outcome, err := c.Deploy(ctx, params)
		assert.NoError(t, err)
		assert.False(t, outcome.ConfirmedWithoutEvent)
		assert.Equal(t, fees.Medium, outcome.Tier)
		assert.Equal(t, int64(2000), outcome.Fee.Int64())

		sent := f.chain.Sent()
		assert.Len(t, sent, 1)
		assert.Equal(t, erc20, *sent[0].To)
		assert.Equal(t, int64(2000), sent[0].Value.Int64())
		expected, _ := contracts.PackDeployToken("Gold", "GLD", big.NewInt(1000), 18, true)
		assert.Equal(t, expected, sent[0].Data)

		record := outcome.Record
		assert.Equal(t, token, record.ContractAddress)
		assert.Equal(t, alice, record.CreatorAddress)
		assert.Equal(t, "GLD", record.Symbol)
		assert.Equal(t, int64(1000), record.SizeParameter.Int64())
		assert.Equal(t, registry.Sepolia, record.ChainID)
		assert.Equal(t, types.FungibleFactory, record.Kind)
		assert.Equal(t, outcome.TxHash, record.TxHash)
	})

	t.Run("confirmed without event", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.NonFungibleFactory, bob, feeTier, big.NewInt(0))
		c := f.client(t, types.NonFungibleFactory)

		outcome, err := c.Deploy(ctx, CollectionParams{Name: "Apes", Symbol: "APE", InitialMintSize: big.NewInt(200)})
		assert.NoError(t, err)
		assert.True(t, outcome.ConfirmedWithoutEvent)
		assert.Nil(t, outcome.Record)
		assert.Equal(t, fees.Large, outcome.Tier)
		assert.Equal(t, int64(3000), f.chain.Sent()[0].Value.Int64())
	})

	t.Run("fee schedule unavailable", func(t *testing.T) {
		f := newFixture(t)
		c := f.client(t, types.FungibleFactory)

		_, err := c.Deploy(ctx, TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1)})
		assert.ErrorIs(t, err, types.ErrFeeScheduleUnavailable)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("rejected by the user", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, bob, feeTier, big.NewInt(0))
		f.chain.FailSends(errors.New("MetaMask Tx Signature: User denied transaction signature."))
		c := f.client(t, types.FungibleFactory)

		_, err := c.Deploy(ctx, TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1)})
		assert.ErrorIs(t, err, types.ErrUserRejected)
	})
}

func mintableCode(signature string) []byte {
	sel := test.Selector(signature)
	return append([]byte{0x60, 0x80, 0x60, 0x40, 0x63}, sel[:]...)
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	recipient := bob

	setup := func(t *testing.T, kind types.FactoryKind, creator common.Address) (*fixture, *Client) {
		f := newFixture(t)
		scriptFactory(f.chain, kind, bob, feeTier, big.NewInt(0))
		f.chain.OnCall(factoryAddress(kind), test.Selector("getTokenCreator(address)"), test.Pack([]string{"address"}, creator))
		return f, f.client(t, kind)
	}

	t.Run("foreign creator", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, bob)
		f.chain.SetCode(token, mintableCode("mint(address,uint256)"))

		_, err := c.Mint(ctx, token, recipient, big.NewInt(10))
		assert.ErrorIs(t, err, types.ErrNotCreator)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("not a factory token", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, common.Address{})

		_, err := c.Mint(ctx, token, recipient, big.NewInt(10))
		assert.ErrorIs(t, err, types.ErrNotFactoryToken)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("not mintable", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, alice)
		f.chain.SetCode(token, []byte{0x60, 0x80, 0x60, 0x40})

		_, err := c.Mint(ctx, token, recipient, big.NewInt(10))
		assert.ErrorIs(t, err, types.ErrNotMintable)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("invalid quantity is rejected before any read", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, alice)
		f.chain.SetCode(token, mintableCode("mint(address,uint256)"))
		reads := f.chain.Reads()

		_, err := c.Mint(ctx, token, recipient, big.NewInt(0))
		assert.ErrorIs(t, err, types.ErrInvalidQuantity)
		assert.Equal(t, reads, f.chain.Reads())
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("creator read failure", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, alice)
		f.chain.OnCallError(erc20, test.Selector("getTokenCreator(address)"), errors.New("connection reset"))

		_, err := c.Mint(ctx, token, recipient, big.NewInt(10))
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.Equal(t, types.NetworkCategory, typedErr(t, err).Category)
		assert.ErrorContains(t, err, "connection reset")
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("collection creator read failure is not a permission error", func(t *testing.T) {
		f, c := setup(t, types.NonFungibleFactory, alice)
		f.chain.SetCode(token, mintableCode("factoryBatchMint(address,uint256)"))
		f.chain.OnCallError(token, test.Selector("creator()"), errors.New("connection reset"))

		_, err := c.Mint(ctx, token, recipient, big.NewInt(1))
		assert.ErrorIs(t, err, types.ErrReadFailed)
		assert.False(t, errors.Is(err, types.ErrNotCreator))
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("token mint", func(t *testing.T) {
		f, c := setup(t, types.FungibleFactory, alice)
		f.chain.SetCode(token, mintableCode("mint(address,uint256)"))
		f.chain.EmitLogs(func(call ethereum.CallMsg) []*gethtypes.Log {
			return []*gethtypes.Log{test.TokenMintedLog(erc20, token, recipient, big.NewInt(10000), big.NewInt(3000))}
		})

		outcome, err := c.Mint(ctx, token, recipient, big.NewInt(10000))
		assert.NoError(t, err)
		assert.Equal(t, fees.Large, outcome.Tier)
		assert.Equal(t, int64(3000), f.chain.Sent()[0].Value.Int64())
		assert.Equal(t, recipient, outcome.Minted.To)
		assert.Equal(t, int64(10000), outcome.Minted.Quantity.Int64())

		expected, _ := contracts.PackMint(token, recipient, big.NewInt(10000))
		assert.Equal(t, expected, f.chain.Sent()[0].Data)
	})

	t.Run("collection checks its own creator", func(t *testing.T) {
		f, c := setup(t, types.NonFungibleFactory, alice)
		f.chain.SetCode(token, mintableCode("factoryBatchMint(address,uint256)"))
		f.chain.OnCall(token, test.Selector("creator()"), test.Pack([]string{"address"}, bob))

		_, err := c.Mint(ctx, token, recipient, big.NewInt(1))
		assert.ErrorIs(t, err, types.ErrNotCreator)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("collection mint", func(t *testing.T) {
		f, c := setup(t, types.NonFungibleFactory, alice)
		f.chain.SetCode(token, mintableCode("factoryBatchMint(address,uint256)"))
		f.chain.OnCall(token, test.Selector("creator()"), test.Pack([]string{"address"}, alice))

		_, err := c.Mint(ctx, token, recipient, big.NewInt(501))
		assert.ErrorIs(t, err, types.ErrInvalidQuantity)

		// the fungible mint entry point does not make a collection mintable
		f.chain.SetCode(token, mintableCode("mint(address,uint256)"))
		_, err = c.Mint(ctx, token, recipient, big.NewInt(1))
		assert.ErrorIs(t, err, types.ErrNotMintable)

		f.chain.SetCode(token, mintableCode("factoryBatchMint(address,uint256)"))
		outcome, err := c.Mint(ctx, token, recipient, big.NewInt(49))
		assert.NoError(t, err)
		assert.Equal(t, fees.Small, outcome.Tier)
		assert.True(t, outcome.ConfirmedWithoutEvent)
		assert.Len(t, f.chain.Sent(), 1)
	})
}

func TestOwnerOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner is refused locally", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, bob, feeTier, big.NewInt(0))
		c := f.client(t, types.FungibleFactory)

		_, err := c.Withdraw(ctx, nil)
		assert.ErrorIs(t, err, types.ErrNotOwner)
		_, err = c.UpdateFees(ctx, feeTier)
		assert.ErrorIs(t, err, types.ErrNotOwner)
		_, err = c.RecoverToken(ctx, token, bob, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, types.ErrNotOwner)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("withdraw everything", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(9000))
		c := f.client(t, types.FungibleFactory)

		// the chain reports an empty balance after the withdrawal
		f.chain.OnCall(erc20, test.Selector("getContractBalance()"), test.Pack([]string{"uint256"}, big.NewInt(0)))

		outcome, err := c.Withdraw(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), outcome.Balance.Int64())
		assert.Equal(t, int64(0), c.Configuration().Balance.Int64())

		expected, _ := contracts.PackWithdrawFees(big.NewInt(0))
		assert.Equal(t, expected, f.chain.Sent()[0].Data)
		assert.Nil(t, f.chain.Sent()[0].Value)
	})

	t.Run("update fees refreshes the schedule", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		c := f.client(t, types.FungibleFactory)

		next := types.FeeSchedule{Small: big.NewInt(1), Medium: big.NewInt(2), Large: big.NewInt(3)}
		scriptFactory(f.chain, types.FungibleFactory, alice, next, big.NewInt(0))
		f.chain.EmitLogs(func(call ethereum.CallMsg) []*gethtypes.Log {
			return []*gethtypes.Log{test.FeesUpdatedLog(erc20, next.Small, next.Medium, next.Large)}
		})

		outcome, err := c.UpdateFees(ctx, next)
		assert.NoError(t, err)
		assert.False(t, outcome.ConfirmedWithoutEvent)
		assert.Equal(t, int64(2), outcome.Fees.Medium.Int64())

		fee, err := f.resolver.Resolve(fees.TokenDeploy, registry.Sepolia, "1000")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), fee.Int64())

		_, err = c.UpdateFees(ctx, types.FeeSchedule{Small: big.NewInt(-1), Medium: big.NewInt(0), Large: big.NewInt(0)})
		assert.Equal(t, "small", typedErr(t, err).Field)
	})

	t.Run("recover scales by token decimals", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		f.chain.OnCall(token, test.Selector("decimals()"), test.Pack([]string{"uint8"}, uint8(6)))
		c := f.client(t, types.FungibleFactory)

		_, err := c.RecoverToken(ctx, token, bob, decimal.RequireFromString("1.5"))
		assert.NoError(t, err)

		expected, _ := contracts.PackRecoverERC20(token, bob, big.NewInt(1500000))
		assert.Equal(t, expected, f.chain.Sent()[0].Data)
	})

	t.Run("recover falls back to 18 decimals", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		c := f.client(t, types.FungibleFactory)

		_, err := c.RecoverToken(ctx, token, bob, decimal.NewFromInt(2))
		assert.NoError(t, err)

		amount, _ := new(big.Int).SetString("2000000000000000000", 10)
		expected, _ := contracts.PackRecoverERC20(token, bob, amount)
		assert.Equal(t, expected, f.chain.Sent()[0].Data)

		_, err = c.RecoverToken(ctx, token, bob, decimal.Zero)
		assert.Equal(t, "amount", typedErr(t, err).Field)
	})

	t.Run("recover refuses oversized decimals", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		f.chain.OnCall(token, test.Selector("decimals()"), test.Pack([]string{"uint8"}, uint8(200)))
		c := f.client(t, types.FungibleFactory)

		_, err := c.RecoverToken(ctx, token, bob, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Equal(t, "tokenAddress", typedErr(t, err).Field)
		assert.Empty(t, f.chain.Sent())
	})
}

func TestClientDetachment(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnect detaches clients", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		c := f.client(t, types.FungibleFactory)

		f.session.Disconnect()

		_, err := c.Deploy(ctx, TokenParams{Name: "Gold", Symbol: "GLD", InitialSupply: big.NewInt(1)})
		assert.ErrorIs(t, err, types.ErrClientDetached)
		_, err = c.Withdraw(ctx, nil)
		assert.ErrorIs(t, err, types.ErrClientDetached)
		assert.False(t, c.Attached())

		_, err = f.manager.Client(ctx, types.FungibleFactory)
		assert.ErrorIs(t, err, types.ErrNotConnected)
		assert.Empty(t, f.chain.Sent())
	})

	t.Run("account change yields a fresh client", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Start()
		defer f.manager.Stop()

		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		first := f.client(t, types.FungibleFactory)
		assert.Same(t, first, f.client(t, types.FungibleFactory))
		assert.True(t, first.Configuration().IsOwner)

		f.wallet.Emit(types.ProviderEvent{Kind: types.AccountsChanged, Accounts: []common.Address{bob}})
		assert.Eventually(t, func() bool { return !first.Attached() }, time.Second, 5*time.Millisecond)
		assert.Eventually(t, func() bool { return len(f.manager.Clients()) == 0 }, time.Second, 5*time.Millisecond)

		second := f.client(t, types.FungibleFactory)
		assert.NotSame(t, first, second)
		assert.False(t, second.Configuration().IsOwner)
	})

	t.Run("refresh reloads attached clients", func(t *testing.T) {
		f := newFixture(t)
		scriptFactory(f.chain, types.FungibleFactory, alice, feeTier, big.NewInt(0))
		f.client(t, types.FungibleFactory)

		next := types.FeeSchedule{Small: big.NewInt(7), Medium: big.NewInt(8), Large: big.NewInt(9)}
		scriptFactory(f.chain, types.FungibleFactory, alice, next, big.NewInt(0))

		assert.Equal(t, 1, f.manager.RefreshAll(ctx))
		schedule, _ := f.resolver.Schedule(registry.Sepolia, types.FungibleFactory)
		assert.Equal(t, int64(7), schedule.Small.Int64())
	})

	t.Run("unknown kind", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Client(ctx, types.FactoryKind("erc1155"))
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}
