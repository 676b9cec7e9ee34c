package provider

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	bip39 "github.com/cosmos/go-bip39"
)

// Backend is the node surface the dev wallet reads from and submits through
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// Dialer opens a Backend for an RPC endpoint
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthClient is the Dialer backed by go-ethereum's ethclient
func DialEthClient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// ChainLookup resolves a hex chain id to its descriptor
type ChainLookup interface {
	ByChainIDHex(chainIDHex string) (types.ChainDescriptor, error)
}

// DevWallet is a local wallet derived from an HD mnemonic that signs with its own key.
// It behaves like a browser wallet: it only switches to networks it has been told about.
type DevWallet struct {
	key           *ecdsa.PrivateKey
	account       common.Address
	dial          Dialer
	nonces        *nonceBook
	gasMultiplier float64

	mu       sync.Mutex
	known    map[string]string // chain id hex -> rpc url
	backends map[string]Backend
	active   string

	feed event.Feed
}

// DevWalletOptions configures a DevWallet
type DevWalletOptions struct {
	Mnemonic       string
	AccountIndex   int
	InitialChainID string
	Chains         ChainLookup
	Dial           Dialer
	GasMultiplier  float64
}

// DeriveAccount derives the key at m/44'/60'/0'/0/index from mnemonic
func DeriveAccount(mnemonic string, index int) (common.Address, *ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return common.Address{}, nil, fmt.Errorf("invalid mnemonic")
	}

	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to create wallet from mnemonic: %w", err)
	}

	path, err := hdwallet.ParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", index))
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to parse derivation path: %w", err)
	}

	account, err := wallet.Derive(path, false)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to derive account: %w", err)
	}

	privateKey, err := wallet.PrivateKey(account)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to get private key: %w", err)
	}

	return account.Address, privateKey, nil
}

// NewMnemonic generates a fresh 12 word mnemonic
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// NewDevWallet creates a dev wallet whose only known network is opts.InitialChainID.
// An empty mnemonic generates a throwaway one.
func NewDevWallet(opts DevWalletOptions) (*DevWallet, error) {
	if opts.Chains == nil {
		return nil, fmt.Errorf("chain lookup is required")
	}
	if opts.Dial == nil {
		opts.Dial = DialEthClient
	}
	if opts.GasMultiplier < 1 {
		opts.GasMultiplier = 1
	}

	mnemonic := opts.Mnemonic
	if mnemonic == "" {
		generated, err := NewMnemonic()
		if err != nil {
			return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
		}
		mnemonic = generated
		logger.Warnf("DEV_WALLET_MNEMONIC is not set; using a throwaway account")
	}

	address, key, err := DeriveAccount(mnemonic, opts.AccountIndex)
	if err != nil {
		return nil, err
	}

	initial := types.NormalizeChainIDHex(opts.InitialChainID)
	chain, err := opts.Chains.ByChainIDHex(initial)
	if err != nil {
		return nil, fmt.Errorf("initial chain %s: %w", opts.InitialChainID, err)
	}

	return &DevWallet{
		key:           key,
		account:       address,
		dial:          opts.Dial,
		nonces:        newNonceBook(),
		gasMultiplier: opts.GasMultiplier,
		known:         map[string]string{initial: chain.RPCEndpoint},
		backends:      make(map[string]Backend),
		active:        initial,
	}, nil
}

// Account returns the derived account
func (w *DevWallet) Account() common.Address {
	return w.account
}

func (w *DevWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{w.account}, nil
}

func (w *DevWallet) ChainID(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active, nil
}

func (w *DevWallet) SwitchChain(ctx context.Context, chainIDHex string) error {
	chainIDHex = types.NormalizeChainIDHex(chainIDHex)

	w.mu.Lock()
	if _, ok := w.known[chainIDHex]; !ok {
		w.mu.Unlock()
		return types.ErrUnrecognizedChain.WithDetail("chain %s has not been added to the wallet", chainIDHex)
	}
	changed := w.active != chainIDHex
	w.active = chainIDHex
	w.mu.Unlock()

	if changed {
		w.feed.Send(types.ProviderEvent{Kind: types.ChainChanged, ChainID: chainIDHex})
	}
	return nil
}

func (w *DevWallet) AddChain(ctx context.Context, params types.AddChainParameters) error {
	if len(params.RPCURLs) == 0 || params.RPCURLs[0] == "" {
		return fmt.Errorf("add chain %s: rpc url is required", params.ChainID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.known[types.NormalizeChainIDHex(params.ChainID)] = params.RPCURLs[0]
	return nil
}

func (w *DevWallet) SubscribeEvents(ch chan<- types.ProviderEvent) event.Subscription {
	return w.feed.Subscribe(ch)
}

func (w *DevWallet) Signer(account common.Address) types.Signer {
	return &devSigner{wallet: w, account: account}
}

// backend returns the node client of the active network, dialing it on first use
func (w *DevWallet) backend(ctx context.Context) (Backend, *big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	chainID, err := hexutil.DecodeBig(w.active)
	if err != nil {
		return nil, nil, fmt.Errorf("active chain %s: %w", w.active, err)
	}

	if b, ok := w.backends[w.active]; ok {
		return b, chainID, nil
	}

	b, err := w.dial(ctx, w.known[w.active])
	if err != nil {
		return nil, nil, types.ErrNetworkSwitchFailed.Wrap(err)
	}
	w.backends[w.active] = b
	return b, chainID, nil
}

type devSigner struct {
	wallet  *DevWallet
	account common.Address
}

func (s *devSigner) Account() common.Address {
	return s.account
}

func (s *devSigner) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	backend, _, err := s.wallet.backend(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, contract, blockNumber)
}

func (s *devSigner) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	backend, _, err := s.wallet.backend(ctx)
	if err != nil {
		return nil, err
	}
	if call.From == (common.Address{}) {
		call.From = s.account
	}
	return backend.CallContract(ctx, call, blockNumber)
}

func (s *devSigner) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	backend, _, err := s.wallet.backend(ctx)
	if err != nil {
		return nil, err
	}
	return backend.TransactionReceipt(ctx, txHash)
}

// SendTransaction signs an EIP-1559 transaction with the wallet key and broadcasts it
func (s *devSigner) SendTransaction(ctx context.Context, call ethereum.CallMsg) (common.Hash, error) {
	w := s.wallet
	if s.account != w.account {
		return common.Hash{}, types.ErrNotConnected.WithDetail("account %s is not held by this wallet", s.account.Hex())
	}

	backend, chainID, err := w.backend(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	call.From = w.account
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	gas, err := backend.EstimateGas(ctx, call)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gasLimit := uint64(float64(gas) * w.gasMultiplier)

	tip, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas tip cap: %w", err)
	}

	head, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get latest header: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	signer := gethtypes.LatestSignerForChainID(chainID)

	var hash common.Hash
	err = w.nonces.broadcast(ctx, backend, hexutil.EncodeBig(chainID), w.account, func(nonce uint64) error {
		tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        call.To,
			Value:     value,
			Data:      call.Data,
		})

		signed, err := gethtypes.SignTx(tx, signer, w.key)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}
		if err := backend.SendTransaction(ctx, signed); err != nil {
			return err
		}
		hash = signed.Hash()
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}

	logger.WithFields(logger.Fields{
		"TxHash":  hash.Hex(),
		"ChainID": chainID.String(),
		"From":    w.account.Hex(),
	}).Debugf("dev wallet broadcast transaction")

	return hash, nil
}
