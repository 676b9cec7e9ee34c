package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// Coordinator reconciles the wallet network with a target chain
type Coordinator interface {
	EnsureChain(ctx context.Context, wallet types.ChainSwitcher, target types.ChainDescriptor) error
}

// Chains looks up chain descriptors
type Chains interface {
	Get(id string) (types.ChainDescriptor, error)
}

// Update is published to observers after every accepted transition
type Update struct {
	State types.WalletSessionState
	Err   error
}

// Session tracks the connection between the app and the user's wallet.
// Transitions are compare-and-swap from an expected state; a transition whose source state
// no longer holds is rejected, never queued.
type Session struct {
	provider       types.Provider
	chains         Chains
	coordinator    Coordinator
	requestTimeout time.Duration

	state   atomic.Pointer[types.WalletSessionState]
	lastErr atomic.Value

	mu  sync.Mutex
	sub event.Subscription

	feed event.Feed
}

// Option configures a Session
type Option func(*Session)

// WithRequestTimeout bounds wallet requests issued while handling provider events
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.requestTimeout = d
	}
}

// New creates a disconnected session. provider may be nil when no wallet is available.
func New(provider types.Provider, chains Chains, coordinator Coordinator, opts ...Option) *Session {
	s := &Session{
		provider:       provider,
		chains:         chains,
		coordinator:    coordinator,
		requestTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&types.WalletSessionState{Status: types.Disconnected})
	s.lastErr.Store("")
	return s
}

// State returns a snapshot of the session
func (s *Session) State() types.WalletSessionState {
	return *s.state.Load()
}

// LastError returns the message of the last failure surfaced by event handling
func (s *Session) LastError() string {
	return s.lastErr.Load().(string)
}

// SubscribeState delivers an Update after every accepted transition.
// Receivers must keep draining ch until they unsubscribe.
func (s *Session) SubscribeState(ch chan<- Update) event.Subscription {
	return s.feed.Subscribe(ch)
}

// update applies fn to the current state and swaps the result in.
// fn returns false to leave the state untouched.
func (s *Session) update(fn func(cur types.WalletSessionState) (types.WalletSessionState, bool)) (types.WalletSessionState, bool) {
	return s.transition(nil, fn)
}

func (s *Session) transition(cause error, fn func(cur types.WalletSessionState) (types.WalletSessionState, bool)) (types.WalletSessionState, bool) {
	for {
		cur := s.state.Load()
		next, ok := fn(*cur)
		if !ok {
			return *cur, false
		}
		next.Epoch = cur.Epoch + 1
		if s.state.CompareAndSwap(cur, &next) {
			s.feed.Send(Update{State: next, Err: cause})
			return next, true
		}
	}
}

// Connect requests accounts and binds the session to chainID
func (s *Session) Connect(ctx context.Context, chainID string) error {
	if s.provider == nil {
		return types.ErrNoProviderAvailable
	}
	if chainID == "" {
		return types.ErrNoChainSelected
	}
	target, err := s.chains.Get(chainID)
	if err != nil {
		return err
	}

	_, ok := s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status != types.Disconnected {
			return cur, false
		}
		return types.WalletSessionState{Status: types.Connecting, TargetChainID: chainID}, true
	})
	if !ok {
		return types.ErrTransitionRejected.WithDetail("connect requires a disconnected session")
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = types.ErrNotConnected.WithDetail("wallet returned no accounts")
	}
	if err != nil {
		s.abortConnect()
		var typed *types.Error
		if !errors.As(err, &typed) {
			err = types.ErrNoProviderAvailable.WithDetail("wallet did not answer the account request").Wrap(err)
		}
		return err
	}

	if err := s.coordinator.EnsureChain(ctx, s.provider, target); err != nil {
		s.abortConnect()
		return types.ErrWrongNetwork.WithDetail("wallet is not on %s", target.DisplayName).Wrap(err)
	}

	// The subscription is visible to Disconnect before the session can become Connected.
	ch := make(chan types.ProviderEvent, 16)
	sub := s.provider.SubscribeEvents(ch)
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	s.sub = sub
	s.mu.Unlock()

	account := accounts[0]
	next, ok := s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status != types.Connecting {
			return cur, false
		}
		return types.WalletSessionState{
			Status:        types.Connected,
			Address:       &account,
			ActiveChainID: target.ID,
			TargetChainID: cur.TargetChainID,
			Signer:        s.provider.Signer(account),
		}, true
	})
	if !ok {
		s.mu.Lock()
		if s.sub == sub {
			s.sub = nil
		}
		s.mu.Unlock()
		sub.Unsubscribe()
		return types.ErrTransitionRejected.WithDetail("session changed while connecting")
	}

	go s.loop(sub, ch)

	logger.WithFields(logger.Fields{
		"Address": account.Hex(),
		"ChainID": next.ActiveChainID,
	}).Infof("wallet connected")

	return nil
}

func (s *Session) abortConnect() {
	s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status != types.Connecting {
			return cur, false
		}
		return types.WalletSessionState{Status: types.Disconnected, TargetChainID: cur.TargetChainID}, true
	})
}

// loop handles provider events one at a time, in delivery order
func (s *Session) loop(sub event.Subscription, ch <-chan types.ProviderEvent) {
	for {
		select {
		case ev := <-ch:
			ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
			var err error
			switch ev.Kind {
			case types.AccountsChanged:
				err = s.OnAccountsChanged(ctx, ev.Accounts)
			case types.ChainChanged:
				err = s.OnChainChanged(ctx, ev.ChainID)
			}
			cancel()
			if err != nil {
				logger.WithFields(logger.Fields{
					"Event": string(ev.Kind),
					"Error": err.Error(),
				}).Warnf("wallet event handling failed")
			}
		case <-sub.Err():
			return
		}
	}
}

// OnAccountsChanged follows the wallet's account selection.
// An empty list means the wallet revoked access and always ends in Disconnected.
func (s *Session) OnAccountsChanged(ctx context.Context, accounts []common.Address) error {
	if len(accounts) == 0 {
		s.Disconnect()
		return nil
	}

	account := accounts[0]
	s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status != types.Connected || (cur.Address != nil && *cur.Address == account) {
			return cur, false
		}
		next := cur
		next.Address = &account
		next.Signer = s.provider.Signer(account)
		return next, true
	})
	return nil
}

// OnChainChanged reconciles a network change made in the wallet with the selected chain.
// If the wallet cannot be brought back, the session disconnects with ErrWrongNetwork.
func (s *Session) OnChainChanged(ctx context.Context, chainIDHex string) error {
	cur := s.State()
	if cur.Status != types.Connected {
		return nil
	}

	target, err := s.chains.Get(cur.TargetChainID)
	if err != nil {
		return err
	}
	if types.NormalizeChainIDHex(chainIDHex) == types.NormalizeChainIDHex(target.ChainIDHex) {
		s.markActive(target.ID)
		return nil
	}

	s.update(func(c types.WalletSessionState) (types.WalletSessionState, bool) {
		if c.Status != types.Connected || c.ActiveChainID == "" {
			return c, false
		}
		c.ActiveChainID = ""
		return c, true
	})

	if err := s.coordinator.EnsureChain(ctx, s.provider, target); err != nil {
		wrapped := types.ErrWrongNetwork.WithDetail("wallet moved to %s", chainIDHex).Wrap(err)
		s.fail(wrapped)
		return wrapped
	}

	s.markActive(target.ID)
	return nil
}

// SelectChain changes the target chain and, when connected, brings the wallet onto it
func (s *Session) SelectChain(ctx context.Context, chainID string) error {
	if chainID == "" {
		return types.ErrNoChainSelected
	}
	target, err := s.chains.Get(chainID)
	if err != nil {
		return err
	}

	next, _ := s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.TargetChainID == chainID && (cur.Status != types.Connected || cur.ActiveChainID == chainID) {
			return cur, false
		}
		cur.TargetChainID = chainID
		if cur.Status == types.Connected {
			cur.ActiveChainID = ""
		}
		return cur, true
	})
	if next.Status != types.Connected {
		return nil
	}

	if err := s.coordinator.EnsureChain(ctx, s.provider, target); err != nil {
		wrapped := types.ErrWrongNetwork.WithDetail("could not switch to %s", target.DisplayName).Wrap(err)
		s.fail(wrapped)
		return wrapped
	}

	s.markActive(chainID)
	return nil
}

func (s *Session) markActive(chainID string) {
	s.update(func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status != types.Connected || cur.TargetChainID != chainID || cur.ActiveChainID == chainID {
			return cur, false
		}
		cur.ActiveChainID = chainID
		return cur, true
	})
}

// Disconnect returns the session to Disconnected and stops listening to the provider.
// It always succeeds and may be called in any state.
func (s *Session) Disconnect() {
	s.disconnect(nil)
}

func (s *Session) fail(err error) {
	s.lastErr.Store(err.Error())
	s.disconnect(err)
	logger.WithFields(logger.Fields{
		"Error": err.Error(),
	}).Warnf("wallet session closed")
}

func (s *Session) disconnect(cause error) {
	s.transition(cause, func(cur types.WalletSessionState) (types.WalletSessionState, bool) {
		if cur.Status == types.Disconnected {
			return cur, false
		}
		return types.WalletSessionState{Status: types.Disconnected, TargetChainID: cur.TargetChainID}, true
	})

	s.mu.Lock()
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	s.mu.Unlock()
}

// RequireConnected returns the current state if the session is connected on its target chain
func (s *Session) RequireConnected() (types.WalletSessionState, error) {
	cur := s.State()
	if cur.Status != types.Connected {
		return cur, types.ErrNotConnected
	}
	if cur.TargetChainID == "" {
		return cur, types.ErrNoChainSelected
	}
	if cur.ActiveChainID != cur.TargetChainID {
		return cur, types.ErrWrongNetwork.WithDetail("wallet is not on %s", cur.TargetChainID)
	}
	return cur, nil
}
