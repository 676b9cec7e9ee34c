package provider

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jarcoal/httpmock"
	"github.com/kapildev5262/Token-World/types"
	"github.com/stretchr/testify/assert"
)

const bridgeURL = "http://wallet.test/rpc"

type handler func(params []json.RawMessage) (interface{}, *RPCError)

// walletServer answers JSON-RPC requests by method and records what it received
type walletServer struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []string
	params   map[string][]json.RawMessage
}

func newWalletServer(handlers map[string]handler) *walletServer {
	s := &walletServer{handlers: handlers, params: make(map[string][]json.RawMessage)}
	httpmock.RegisterResponder("POST", bridgeURL, func(req *http.Request) (*http.Response, error) {
		var body struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return httpmock.NewStringResponse(400, "bad request"), nil
		}

		s.mu.Lock()
		s.calls = append(s.calls, body.Method)
		s.params[body.Method] = body.Params
		h, ok := s.handlers[body.Method]
		s.mu.Unlock()

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": body.ID}
		if !ok {
			resp["error"] = RPCError{Code: CodeUnsupportedMethod, Message: "method not supported"}
			return httpmock.NewJsonResponse(200, resp)
		}
		result, rpcErr := h(body.Params)
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		return httpmock.NewJsonResponse(200, resp)
	})
	return s
}

func (s *walletServer) set(method string, h handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

func (s *walletServer) called() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func result(v interface{}) handler {
	return func([]json.RawMessage) (interface{}, *RPCError) { return v, nil }
}

func failure(code int, message string) handler {
	return func([]json.RawMessage) (interface{}, *RPCError) {
		return nil, &RPCError{Code: code, Message: message}
	}
}

func TestBridgeRequests(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	account := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	server := newWalletServer(map[string]handler{
		"eth_requestAccounts": result([]string{account.Hex()}),
		"eth_chainId":         result("0xAA36A7"),
	})
	bridge := NewBridge(bridgeURL, time.Second, time.Second)
	ctx := context.Background()

	t.Run("request accounts", func(t *testing.T) {
		accounts, err := bridge.RequestAccounts(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []common.Address{account}, accounts)
	})

	t.Run("chain id is normalized", func(t *testing.T) {
		chainID, err := bridge.ChainID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "0xaa36a7", chainID)
	})

	t.Run("rejected request maps to user rejected", func(t *testing.T) {
		server.set("eth_requestAccounts", failure(CodeUserRejected, "User rejected the request."))
		_, err := bridge.RequestAccounts(ctx)
		assert.ErrorIs(t, err, types.ErrUserRejected)
	})

	t.Run("unknown network maps to unrecognized chain", func(t *testing.T) {
		server.set("wallet_switchEthereumChain", failure(CodeUnrecognizedChain, "Unrecognized chain ID"))
		err := bridge.SwitchChain(ctx, "0x14a34")
		assert.ErrorIs(t, err, types.ErrUnrecognizedChain)

		server.set("wallet_switchEthereumChain", failure(-32603, "Unrecognized chain ID \"0x14a34\". Try adding the chain"))
		err = bridge.SwitchChain(ctx, "0x14a34")
		assert.ErrorIs(t, err, types.ErrUnrecognizedChain)
	})

	t.Run("add chain sends the network parameters", func(t *testing.T) {
		server.set("wallet_addEthereumChain", result(nil))
		err := bridge.AddChain(ctx, types.AddChainParameters{
			ChainID:   "0x14a34",
			ChainName: "Base Sepolia",
			RPCURLs:   []string{"https://sepolia.base.org"},
		})
		assert.NoError(t, err)

		server.mu.Lock()
		params := server.params["wallet_addEthereumChain"]
		server.mu.Unlock()
		var sent types.AddChainParameters
		assert.Len(t, params, 1)
		assert.NoError(t, json.Unmarshal(params[0], &sent))
		assert.Equal(t, "Base Sepolia", sent.ChainName)
		assert.Equal(t, []string{"https://sepolia.base.org"}, sent.RPCURLs)
	})

	t.Run("http failure is reported", func(t *testing.T) {
		httpmock.RegisterResponder("POST", "http://down.test/rpc", httpmock.NewStringResponder(502, "bad gateway"))
		_, err := NewBridge("http://down.test/rpc", time.Second, time.Second).ChainID(ctx)
		assert.Error(t, err)
	})
}

func TestBridgeSigner(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	account := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	factory := common.HexToAddress("0x3506bDaDB1a7C7649180Be7C0A10B4b0806DC111")
	txHash := common.HexToHash("0xabc123")

	server := newWalletServer(map[string]handler{
		"eth_call":                  result("0x000000000000000000000000000000000000000000000000000000000000002a"),
		"eth_getCode":               result("0x6080"),
		"eth_sendTransaction":       result(txHash.Hex()),
		"eth_getTransactionReceipt": result(nil),
	})
	signer := NewBridge(bridgeURL, time.Second, time.Second).Signer(account)
	ctx := context.Background()

	out, err := signer.CallContract(ctx, ethereum.CallMsg{To: &factory, Data: []byte{0x8d, 0xa5, 0xcb, 0x5b}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), new(big.Int).SetBytes(out).Int64())

	code, err := signer.CodeAt(ctx, factory, nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, code)

	hash, err := signer.SendTransaction(ctx, ethereum.CallMsg{To: &factory, Value: big.NewInt(5), Data: []byte{0x01}})
	assert.NoError(t, err)
	assert.Equal(t, txHash, hash)

	server.mu.Lock()
	var sent map[string]string
	assert.NoError(t, json.Unmarshal(server.params["eth_sendTransaction"][0], &sent))
	server.mu.Unlock()
	assert.Equal(t, "0x5", sent["value"])
	assert.Equal(t, "0x01", sent["data"])
	assert.Equal(t, account, common.HexToAddress(sent["from"]))

	_, err = signer.TransactionReceipt(ctx, txHash)
	assert.ErrorIs(t, err, ethereum.NotFound)

	assert.Equal(t, []string{"eth_call", "eth_getCode", "eth_sendTransaction", "eth_getTransactionReceipt"}, server.called())
}

func TestBridgePoll(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	alice := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	server := newWalletServer(map[string]handler{
		"eth_accounts": result([]string{alice.Hex()}),
		"eth_chainId":  result("0xaa36a7"),
	})
	bridge := NewBridge(bridgeURL, time.Second, time.Second)
	ctx := context.Background()

	ch := make(chan types.ProviderEvent, 8)
	sub := bridge.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	// first read reports the accounts but not a network change
	assert.NoError(t, bridge.Poll(ctx))
	ev := <-ch
	assert.Equal(t, types.AccountsChanged, ev.Kind)
	assert.Equal(t, []common.Address{alice}, ev.Accounts)

	// nothing changed
	assert.NoError(t, bridge.Poll(ctx))
	assert.Len(t, ch, 0)

	server.set("eth_accounts", result([]string{bob.Hex()}))
	server.set("eth_chainId", result("0x14a34"))
	assert.NoError(t, bridge.Poll(ctx))

	ev = <-ch
	assert.Equal(t, types.AccountsChanged, ev.Kind)
	assert.Equal(t, []common.Address{bob}, ev.Accounts)
	ev = <-ch
	assert.Equal(t, types.ChainChanged, ev.Kind)
	assert.Equal(t, "0x14a34", ev.ChainID)

	server.set("eth_accounts", result([]string{}))
	assert.NoError(t, bridge.Poll(ctx))
	ev = <-ch
	assert.Equal(t, types.AccountsChanged, ev.Kind)
	assert.Empty(t, ev.Accounts)
}
