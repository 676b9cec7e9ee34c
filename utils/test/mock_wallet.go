package test

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/kapildev5262/Token-World/types"
	"github.com/stretchr/testify/mock"
)

// MockWallet is a scripted wallet provider.
// Requests go through testify's mock; events are pushed with Emit.
type MockWallet struct {
	mock.Mock
	Chain *FakeChain
	feed  event.Feed
}

// NewMockWallet creates a wallet whose signers share chain.
// A nil chain gets a fresh FakeChain.
func NewMockWallet(chain *FakeChain) *MockWallet {
	if chain == nil {
		chain = NewFakeChain(common.Address{})
	}
	return &MockWallet{Chain: chain}
}

// ChainID mocks the eth_chainId request
func (m *MockWallet) ChainID(ctx context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// SwitchChain mocks the wallet_switchEthereumChain request
func (m *MockWallet) SwitchChain(ctx context.Context, chainIDHex string) error {
	args := m.Called(chainIDHex)
	return args.Error(0)
}

// AddChain mocks the wallet_addEthereumChain request
func (m *MockWallet) AddChain(ctx context.Context, params types.AddChainParameters) error {
	args := m.Called(params)
	return args.Error(0)
}

// RequestAccounts mocks the eth_requestAccounts request
func (m *MockWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called()
	accounts, _ := args.Get(0).([]common.Address)
	return accounts, args.Error(1)
}

// SubscribeEvents registers a listener for pushed events
func (m *MockWallet) SubscribeEvents(ch chan<- types.ProviderEvent) event.Subscription {
	return m.feed.Subscribe(ch)
}

// Emit pushes an event to every listener and returns how many received it
func (m *MockWallet) Emit(ev types.ProviderEvent) int {
	return m.feed.Send(ev)
}

// Signer returns a signer acting as account on the shared fake chain
func (m *MockWallet) Signer(account common.Address) types.Signer {
	return m.Chain.As(account)
}
