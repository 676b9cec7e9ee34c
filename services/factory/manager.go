package factory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/services/session"
	"github.com/kapildev5262/Token-World/services/transaction"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// Session is the part of the wallet session the manager follows
type Session interface {
	StateReader
	RequireConnected() (types.WalletSessionState, error)
	SubscribeState(ch chan<- session.Update) event.Subscription
}

// Manager builds factory clients for the connected session on demand and drops them as soon
// as the session moves to another epoch.
type Manager struct {
	session      Session
	chains       session.Chains
	resolver     *fees.Resolver
	orchestrator *transaction.Orchestrator

	mu      sync.Mutex
	clients map[types.FactoryKind]*Client
	sub     event.Subscription
}

// NewManager creates a manager for sess
func NewManager(sess Session, chains session.Chains, resolver *fees.Resolver, orchestrator *transaction.Orchestrator) *Manager {
	return &Manager{
		session:      sess,
		chains:       chains,
		resolver:     resolver,
		orchestrator: orchestrator,
		clients:      make(map[types.FactoryKind]*Client),
	}
}

// Start follows session updates until Stop is called
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		return
	}

	ch := make(chan session.Update, 16)
	sub := m.session.SubscribeState(ch)
	m.sub = sub

	go func() {
		for {
			select {
			case u := <-ch:
				m.prune(u.State.Epoch)
			case <-sub.Err():
				return
			}
		}
	}()
}

// Stop stops following the session
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
}

func (m *Manager) prune(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for kind, c := range m.clients {
		if c.epoch != epoch {
			delete(m.clients, kind)
		}
	}
}

// Client returns the client of kind for the connected session, creating and loading it on first use
func (m *Manager) Client(ctx context.Context, kind types.FactoryKind) (*Client, error) {
	if !kind.Valid() {
		return nil, types.NewValidationError("kind", "must be erc20 or erc721")
	}

	state, err := m.session.RequireConnected()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if c, ok := m.clients[kind]; ok && c.epoch == state.Epoch {
		m.mu.Unlock()
		return c, nil
	}
	m.mu.Unlock()

	chain, err := m.chains.Get(state.TargetChainID)
	if err != nil {
		return nil, err
	}
	if utils.IsZeroAddress(chain.FactoryAddress(kind)) {
		return nil, types.ErrUnknownChain.WithDetail("no %s factory is deployed on %s", kind, chain.DisplayName)
	}

	c := NewClient(chain, kind, state, m.session, m.resolver, m.orchestrator)
	c.LoadConfiguration(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have won the race for the same epoch
	if existing, ok := m.clients[kind]; ok && existing.epoch == state.Epoch {
		return existing, nil
	}
	m.clients[kind] = c

	logger.WithFields(logger.Fields{
		"ChainID": chain.ID,
		"Kind":    string(kind),
		"Epoch":   state.Epoch,
	}).Debugf("factory client created")

	return c, nil
}

// Clients returns the live clients
func (m *Manager) Clients() []*Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out
}

// RefreshAll reloads the configuration of every client still attached to the session
func (m *Manager) RefreshAll(ctx context.Context) int {
	refreshed := 0
	for _, c := range m.Clients() {
		if !c.Attached() {
			continue
		}
		if cfg := c.LoadConfiguration(ctx); cfg.Known {
			refreshed++
		}
	}
	return refreshed
}
