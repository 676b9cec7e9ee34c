package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MockBackend is an in-memory node for the local signing wallet.
// It accepts every signed transaction and reports it as mined.
type MockBackend struct {
	mu sync.Mutex

	Nonce       uint64
	GasEstimate uint64
	TipCap      *big.Int
	BaseFee     *big.Int
	SendErr     error

	sent []*types.Transaction
}

// NewMockBackend creates a backend with a 1 gwei tip and base fee
func NewMockBackend() *MockBackend {
	return &MockBackend{
		GasEstimate: 100000,
		TipCap:      big.NewInt(1000000000),
		BaseFee:     big.NewInt(1000000000),
	}
}

// PendingNonceAt returns the next unused nonce
func (m *MockBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Nonce, nil
}

// SuggestGasTipCap returns the configured tip
func (m *MockBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return m.TipCap, nil
}

// EstimateGas returns the configured gas estimate
func (m *MockBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return m.GasEstimate, nil
}

// CodeAt returns empty code
func (m *MockBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{}, nil
}

// CallContract returns empty output
func (m *MockBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return []byte{}, nil
}

// HeaderByNumber returns a header carrying the configured base fee
func (m *MockBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: m.BaseFee}, nil
}

// SendTransaction records tx and advances the nonce
func (m *MockBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.sent = append(m.sent, tx)
	m.Nonce = tx.Nonce() + 1
	return nil
}

// TransactionReceipt returns a successful receipt for any recorded transaction
func (m *MockBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.sent {
		if tx.Hash() == txHash {
			return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash, BlockNumber: big.NewInt(1)}, nil
		}
	}
	return nil, ethereum.NotFound
}

// Sent returns the transactions broadcast so far
func (m *MockBackend) Sent() []*types.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.Transaction, len(m.sent))
	copy(out, m.sent)
	return out
}
