package test

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrExecutionReverted is returned for calls that were not scripted
var ErrExecutionReverted = errors.New("execution reverted")

type callKey struct {
	to       common.Address
	selector [4]byte
}

type callResult struct {
	output []byte
	err    error
}

type fakeState struct {
	mu           sync.Mutex
	calls        map[callKey]callResult
	code         map[common.Address][]byte
	sent         []ethereum.CallMsg
	receipts     map[common.Hash]*gethtypes.Receipt
	polls        map[common.Hash]int
	sendErr      error
	receiptErr   error
	reads        int
	logs         func(call ethereum.CallMsg) []*gethtypes.Log
	status       uint64
	pendingPolls int
}

// FakeChain is a scripted signer: calls answer from a table keyed by target and selector,
// and every sent transaction is recorded and confirmed with a synthetic receipt.
type FakeChain struct {
	*fakeState
	account common.Address
}

// NewFakeChain creates a fake chain acting as account
func NewFakeChain(account common.Address) *FakeChain {
	return &FakeChain{
		fakeState: &fakeState{
			calls:    make(map[callKey]callResult),
			code:     make(map[common.Address][]byte),
			receipts: make(map[common.Hash]*gethtypes.Receipt),
			polls:    make(map[common.Hash]int),
			status:   gethtypes.ReceiptStatusSuccessful,
		},
		account: account,
	}
}

// As returns a signer for another account sharing the same chain state
func (f *FakeChain) As(account common.Address) *FakeChain {
	return &FakeChain{fakeState: f.fakeState, account: account}
}

// OnCall scripts the output of calls to a selector on a contract
func (f *FakeChain) OnCall(to common.Address, selector [4]byte, output []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[callKey{to, selector}] = callResult{output: output}
}

// OnCallError scripts a failing call
func (f *FakeChain) OnCallError(to common.Address, selector [4]byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[callKey{to, selector}] = callResult{err: err}
}

// SetCode sets the bytecode returned for a contract
func (f *FakeChain) SetCode(addr common.Address, code []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code[addr] = code
}

// FailSends makes every following SendTransaction fail with err
func (f *FakeChain) FailSends(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

// FailReceipts makes every following receipt lookup fail with err
func (f *FakeChain) FailReceipts(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptErr = err
}

// EmitLogs sets the logs attached to the receipt of each sent transaction
func (f *FakeChain) EmitLogs(fn func(call ethereum.CallMsg) []*gethtypes.Log) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = fn
}

// SetReceiptStatus sets the status of the receipts of following transactions
func (f *FakeChain) SetReceiptStatus(status uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// DelayReceipts makes receipts appear only after n polls
func (f *FakeChain) DelayReceipts(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingPolls = n
}

// Sent returns the transactions submitted so far
func (f *FakeChain) Sent() []ethereum.CallMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ethereum.CallMsg, len(f.sent))
	copy(out, f.sent)
	return out
}

// Reads returns the number of calls and code reads served so far
func (f *FakeChain) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Account returns the account the signer acts as
func (f *FakeChain) Account() common.Address {
	return f.account
}

// CodeAt returns the scripted bytecode
func (f *FakeChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.code[contract], nil
}

// CallContract answers from the call table
func (f *FakeChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	if call.To == nil || len(call.Data) < 4 {
		return nil, ErrExecutionReverted
	}
	var selector [4]byte
	copy(selector[:], call.Data[:4])

	res, ok := f.calls[callKey{*call.To, selector}]
	if !ok {
		return nil, ErrExecutionReverted
	}
	return res.output, res.err
}

// SendTransaction records the call and prepares its receipt
func (f *FakeChain) SendTransaction(ctx context.Context, call ethereum.CallMsg) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}

	call.From = f.account
	f.sent = append(f.sent, call)
	hash := crypto.Keccak256Hash(f.account.Bytes(), big.NewInt(int64(len(f.sent))).Bytes())

	var logs []*gethtypes.Log
	if f.logs != nil {
		logs = f.logs(call)
	}
	for i, log := range logs {
		log.TxHash = hash
		log.Index = uint(i)
	}

	f.receipts[hash] = &gethtypes.Receipt{
		Status:      f.status,
		TxHash:      hash,
		Logs:        logs,
		BlockNumber: big.NewInt(int64(len(f.sent))),
	}
	f.polls[hash] = f.pendingPolls

	return hash, nil
}

// TransactionReceipt returns the receipt once the scripted delay has elapsed
func (f *FakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	receipt, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	if f.polls[txHash] > 0 {
		f.polls[txHash]--
		return nil, ethereum.NotFound
	}
	return receipt, nil
}
