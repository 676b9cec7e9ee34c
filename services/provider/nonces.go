package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
)

const maxBroadcastAttempts = 3

type nonceSource interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// nonceBook tracks the next nonce of the dev wallet account on every network it has sent on,
// so back to back deployments do not wait for the node's pending pool to catch up.
type nonceBook struct {
	mu   sync.Mutex
	next map[string]uint64 // chain id hex -> next nonce
}

func newNonceBook() *nonceBook {
	return &nonceBook{next: make(map[string]uint64)}
}

// reserve hands out the next nonce on network, reading the pending nonce on first use
func (b *nonceBook) reserve(ctx context.Context, source nonceSource, network string, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	nonce, ok := b.next[network]
	if !ok {
		pending, err := source.PendingNonceAt(ctx, account)
		if err != nil {
			return 0, types.ErrReadFailed.WithDetail("pending nonce of %s on %s", account.Hex(), network).Wrap(err)
		}
		nonce = pending
	}
	b.next[network] = nonce + 1
	return nonce, nil
}

func (b *nonceBook) forget(network string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.next, network)
}

// broadcast signs and sends with reserved nonces until the node accepts one.
// A stale nonce re-reads the pending nonce and signs again. Any other failure is returned as is
// and the next send starts from the node's view.
func (b *nonceBook) broadcast(ctx context.Context, source nonceSource, network string, account common.Address, send func(nonce uint64) error) error {
	for attempt := 1; ; attempt++ {
		nonce, err := b.reserve(ctx, source, network, account)
		if err != nil {
			return err
		}

		err = send(nonce)
		if err == nil {
			return nil
		}
		b.forget(network)

		if !staleNonce(err) {
			return err
		}
		if attempt == maxBroadcastAttempts {
			return types.ErrTransactionFailed.WithDetail("nonce still stale after %d attempts on %s", maxBroadcastAttempts, network).Wrap(err)
		}

		logger.WithFields(logger.Fields{
			"Network": network,
			"Nonce":   nonce,
			"Error":   err.Error(),
		}).Warnf("stale nonce, signing again")
	}
}

func staleNonce(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nonce too low") ||
		strings.Contains(msg, "replacement transaction underpriced") ||
		strings.Contains(msg, "already known")
}
