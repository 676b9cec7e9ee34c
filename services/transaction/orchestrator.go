package transaction

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/kapildev5262/Token-World/services/events"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// ErrTxBroadcastNoReceipt is returned when a transaction was broadcast but its receipt
// did not appear before the wait was abandoned.
var ErrTxBroadcastNoReceipt = errors.New("transaction broadcast but receipt not available")

// Call is a contract write to submit
type Call struct {
	To    common.Address
	Data  []byte
	Value *big.Int
	Label string
}

// Pending is the handle returned as soon as a transaction is broadcast
type Pending struct {
	ID    uuid.UUID
	Hash  common.Hash
	Label string

	done    chan struct{}
	receipt *gethtypes.Receipt
	err     error
}

// Done is closed once the transaction is confirmed or the wait fails
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Awaiting reports whether the confirmation wait is still running
func (p *Pending) Awaiting() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the confirmation outcome is known or ctx ends.
// A reverted transaction returns ErrTransactionFailed with the receipt.
func (p *Pending) Wait(ctx context.Context) (*gethtypes.Receipt, error) {
	select {
	case <-p.done:
		return p.receipt, p.err
	case <-ctx.Done():
		return nil, fmt.Errorf("tx %s: %w", p.Hash.Hex(), errors.Join(ErrTxBroadcastNoReceipt, ctx.Err()))
	}
}

// Result is a confirmed transaction and the event found in its logs
type Result struct {
	Hash    common.Hash
	Receipt *gethtypes.Receipt
	Event   events.Event
}

// Orchestrator submits transactions through a wallet signer and follows them to confirmation
type Orchestrator struct {
	pollInterval time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*Pending
}

// NewOrchestrator creates an orchestrator polling for receipts every pollInterval
func NewOrchestrator(pollInterval time.Duration) *Orchestrator {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Orchestrator{
		pollInterval: pollInterval,
		pending:      make(map[uuid.UUID]*Pending),
	}
}

// Submit broadcasts call and returns without waiting for confirmation.
// The confirmation wait runs until the receipt appears or waitCtx ends.
func (o *Orchestrator) Submit(ctx, waitCtx context.Context, signer types.Signer, call Call) (*Pending, error) {
	to := call.To
	hash, err := signer.SendTransaction(ctx, ethereum.CallMsg{
		From:  signer.Account(),
		To:    &to,
		Value: call.Value,
		Data:  call.Data,
	})
	if err != nil {
		classified := Classify(err)
		logger.WithFields(logger.Fields{
			"Label":   call.Label,
			"To":      call.To.Hex(),
			"Account": signer.Account().Hex(),
			"Error":   err.Error(),
		}).Warnf("transaction submission failed")
		return nil, classified
	}

	p := &Pending{
		ID:    uuid.New(),
		Hash:  hash,
		Label: call.Label,
		done:  make(chan struct{}),
	}

	o.mu.Lock()
	o.pending[p.ID] = p
	o.mu.Unlock()

	go o.await(waitCtx, signer, p)

	logger.WithFields(logger.Fields{
		"Label": call.Label,
		"Hash":  hash.Hex(),
	}).Infof("transaction submitted")

	return p, nil
}

func (o *Orchestrator) await(ctx context.Context, signer types.Signer, p *Pending) {
	defer func() {
		o.mu.Lock()
		delete(o.pending, p.ID)
		o.mu.Unlock()
		close(p.done)
	}()

	for {
		receipt, err := signer.TransactionReceipt(ctx, p.Hash)
		if err == nil && receipt != nil {
			p.receipt = receipt
			if receipt.Status != gethtypes.ReceiptStatusSuccessful {
				p.err = types.ErrTransactionFailed.WithDetail("transaction %s reverted", p.Hash.Hex())
			}
			return
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			p.err = types.ErrTransactionFailed.WithDetail("transaction %s was broadcast but its receipt could not be read", p.Hash.Hex()).Wrap(err)
			return
		}

		select {
		case <-ctx.Done():
			p.err = fmt.Errorf("tx %s: %w", p.Hash.Hex(), errors.Join(ErrTxBroadcastNoReceipt, ctx.Err()))
			return
		case <-time.After(o.pollInterval):
		}
	}
}

// InFlight returns the number of transactions still awaiting confirmation
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Lookup returns a pending transaction by id
func (o *Orchestrator) Lookup(id uuid.UUID) (*Pending, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.pending[id]
	return p, ok
}

// SubmitAndConfirm submits call, waits for one confirmation and decodes eventName from the receipt.
// A confirmed transaction without the event returns a Result with a nil Event.
func (o *Orchestrator) SubmitAndConfirm(ctx context.Context, signer types.Signer, call Call, decoder *events.Decoder, eventName string) (*Result, error) {
	p, err := o.Submit(ctx, ctx, signer, call)
	if err != nil {
		return nil, err
	}

	receipt, err := p.Wait(ctx)
	if err != nil {
		return &Result{Hash: p.Hash, Receipt: receipt}, err
	}

	result := &Result{Hash: p.Hash, Receipt: receipt}
	if decoder != nil && eventName != "" {
		if ev, ok := decoder.Decode(receipt.Logs, eventName); ok {
			result.Event = ev
		} else {
			logger.WithFields(logger.Fields{
				"Label": call.Label,
				"Hash":  p.Hash.Hex(),
				"Event": eventName,
			}).Warnf("transaction confirmed without expected event")
		}
	}
	return result, nil
}

// Classify maps a wallet submission failure onto the transaction error taxonomy
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var typed *types.Error
	if errors.As(err, &typed) && typed.Category == types.TransactionCategory {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case isUserRejection(msg):
		return types.ErrUserRejected.Wrap(err)
	case strings.Contains(msg, "insufficient funds"):
		return types.ErrInsufficientFunds.Wrap(err)
	default:
		return types.ErrTransactionFailed.Wrap(err)
	}
}

func isUserRejection(msg string) bool {
	return strings.Contains(msg, "user rejected") ||
		strings.Contains(msg, "user denied") ||
		strings.Contains(msg, "action_rejected")
}
