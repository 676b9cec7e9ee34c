package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
	fastshot "github.com/opus-domini/fast-shot"
	"github.com/opus-domini/fast-shot/constant/header"
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Bridge is the primary wallet provider: an injected-style wallet reached over JSON-RPC.
// Requests are EIP-1193 methods; account and network changes are detected by polling.
type Bridge struct {
	url          string
	timeout      time.Duration
	pollInterval time.Duration
	nextID       atomic.Uint64

	feed event.Feed

	mu           sync.Mutex
	lastAccounts []common.Address
	lastChainID  string
	watching     bool
	stop         chan struct{}
}

// NewBridge creates a provider for the wallet endpoint at url
func NewBridge(url string, timeout, pollInterval time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Bridge{
		url:          url,
		timeout:      timeout,
		pollInterval: pollInterval,
	}
}

// call performs one JSON-RPC request and decodes its result into result
func (b *Bridge) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params == nil {
		params = []interface{}{}
	}

	res, err := fastshot.NewClient(b.url).
		Config().SetTimeout(b.timeout).
		Header().AddAll(map[header.Type]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}).Build().POST("").
		Body().AsJSON(rpcRequest{
		JSONRPC: "2.0",
		ID:      b.nextID.Add(1),
		Method:  method,
		Params:  params,
	}).Send()
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	var response rpcResponse
	if err := res.Body().AsJSON(&response); err != nil {
		if res.Status().IsError() {
			return fmt.Errorf("%s: wallet endpoint returned status %d", method, res.Status().Code())
		}
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if response.Error != nil {
		return mapRPCError(response.Error)
	}
	if res.Status().IsError() {
		return fmt.Errorf("%s: wallet endpoint returned status %d", method, res.Status().Code())
	}

	if result == nil {
		return nil
	}
	if len(response.Result) == 0 || string(response.Result) == "null" {
		return ethereum.NotFound
	}
	if err := json.Unmarshal(response.Result, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// RequestAccounts asks the wallet to expose its accounts, prompting the user if needed
func (b *Bridge) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := b.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.lastAccounts = accounts
	b.mu.Unlock()

	return accounts, nil
}

// ChainID returns the wallet's active network as a hex chain id
func (b *Bridge) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := b.call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return types.NormalizeChainIDHex(chainID), nil
}

// SwitchChain asks the wallet to change network
func (b *Bridge) SwitchChain(ctx context.Context, chainIDHex string) error {
	return b.call(ctx, "wallet_switchEthereumChain", []interface{}{
		map[string]string{"chainId": chainIDHex},
	}, nil)
}

// AddChain asks the wallet to register a network
func (b *Bridge) AddChain(ctx context.Context, params types.AddChainParameters) error {
	return b.call(ctx, "wallet_addEthereumChain", []interface{}{params}, nil)
}

// SubscribeEvents registers ch for accountsChanged and chainChanged notifications
func (b *Bridge) SubscribeEvents(ch chan<- types.ProviderEvent) event.Subscription {
	return b.feed.Subscribe(ch)
}

// Signer returns a handle that submits through the wallet as account
func (b *Bridge) Signer(account common.Address) types.Signer {
	return &bridgeSigner{bridge: b, account: account}
}

// Start polls the wallet for account and network changes until Stop is called
func (b *Bridge) Start() {
	b.mu.Lock()
	if b.watching {
		b.mu.Unlock()
		return
	}
	b.watching = true
	b.stop = make(chan struct{})
	stop := b.stop
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(b.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
				if err := b.Poll(ctx); err != nil {
					logger.WithFields(logger.Fields{
						"Error": err.Error(),
						"URL":   b.url,
					}).Debugf("wallet poll failed")
				}
				cancel()
			}
		}
	}()
}

// Stop ends polling
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watching {
		close(b.stop)
		b.watching = false
	}
}

// Poll reads accounts and network once and emits an event for each change since the last read
func (b *Bridge) Poll(ctx context.Context) error {
	var accounts []common.Address
	if err := b.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return err
	}
	chainID, err := b.ChainID(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	accountsChanged := !sameAccounts(accounts, b.lastAccounts)
	chainChanged := b.lastChainID != "" && chainID != b.lastChainID
	b.lastAccounts = accounts
	b.lastChainID = chainID
	b.mu.Unlock()

	if accountsChanged {
		b.feed.Send(types.ProviderEvent{Kind: types.AccountsChanged, Accounts: accounts})
	}
	if chainChanged {
		b.feed.Send(types.ProviderEvent{Kind: types.ChainChanged, ChainID: chainID})
	}
	return nil
}

func sameAccounts(a, b []common.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type bridgeSigner struct {
	bridge  *Bridge
	account common.Address
}

func toCallArg(msg ethereum.CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	return arg
}

func (s *bridgeSigner) Account() common.Address {
	return s.account
}

func (s *bridgeSigner) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var code hexutil.Bytes
	if err := s.bridge.call(ctx, "eth_getCode", []interface{}{contract, blockArg(blockNumber)}, &code); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *bridgeSigner) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if call.From == (common.Address{}) {
		call.From = s.account
	}
	var out hexutil.Bytes
	if err := s.bridge.call(ctx, "eth_call", []interface{}{toCallArg(call), blockArg(blockNumber)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bridgeSigner) SendTransaction(ctx context.Context, call ethereum.CallMsg) (common.Hash, error) {
	call.From = s.account
	var hash common.Hash
	if err := s.bridge.call(ctx, "eth_sendTransaction", []interface{}{toCallArg(call)}, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (s *bridgeSigner) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	var receipt gethtypes.Receipt
	if err := s.bridge.call(ctx, "eth_getTransactionReceipt", []interface{}{txHash}, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func blockArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}
