package types

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// NativeCurrency describes the gas token of a chain
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainDescriptor is the static description of a supported network
type ChainDescriptor struct {
	ID                        string         `json:"id"`
	DisplayName               string         `json:"displayName"`
	ChainIDHex                string         `json:"chainId"`
	RPCEndpoint               string         `json:"rpcUrl"`
	BlockExplorerURL          string         `json:"blockExplorerUrl"`
	FungibleFactoryAddress    common.Address `json:"erc20FactoryAddress"`
	NonFungibleFactoryAddress common.Address `json:"erc721FactoryAddress"`
	NativeCurrency            NativeCurrency `json:"nativeCurrency"`
}

// FactoryAddress returns the factory deployed on the chain for the given kind
func (c ChainDescriptor) FactoryAddress(kind FactoryKind) common.Address {
	if kind == NonFungibleFactory {
		return c.NonFungibleFactoryAddress
	}
	return c.FungibleFactoryAddress
}

// NormalizeChainIDHex lower-cases a hex chain id and ensures the 0x prefix
func NormalizeChainIDHex(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if !strings.HasPrefix(id, "0x") {
		id = "0x" + id
	}
	trimmed := strings.TrimLeft(id[2:], "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}

// FactoryKind selects one of the two factory contracts
type FactoryKind string

const (
	FungibleFactory    FactoryKind = "erc20"
	NonFungibleFactory FactoryKind = "erc721"
)

// Valid reports whether k names a known factory
func (k FactoryKind) Valid() bool {
	return k == FungibleFactory || k == NonFungibleFactory
}

// SessionStatus is the lifecycle state of the wallet session
type SessionStatus string

const (
	Disconnected SessionStatus = "disconnected"
	Connecting   SessionStatus = "connecting"
	Connected    SessionStatus = "connected"
)

// WalletSessionState is an immutable snapshot of the wallet session.
// When Status is Connected, Address and Signer are both set.
type WalletSessionState struct {
	Status        SessionStatus   `json:"status"`
	Address       *common.Address `json:"address,omitempty"`
	ActiveChainID string          `json:"activeChainId,omitempty"`
	TargetChainID string          `json:"targetChainId,omitempty"`
	Signer        Signer          `json:"-"`
	Epoch         uint64          `json:"epoch"`
}

// FeeSchedule holds the three tier fees of a factory in wei
type FeeSchedule struct {
	Small  *big.Int `json:"small"`
	Medium *big.Int `json:"medium"`
	Large  *big.Int `json:"large"`
}

// DeploymentRecord describes a token deployed through a factory
type DeploymentRecord struct {
	ContractAddress common.Address `json:"contractAddress"`
	CreatorAddress  common.Address `json:"creatorAddress"`
	Name            string         `json:"name"`
	Symbol          string         `json:"symbol"`
	SizeParameter   *big.Int       `json:"sizeParameter"`
	Decimals        uint8          `json:"decimals,omitempty"`
	IsMintable      bool           `json:"isMintable"`
	ChainID         string         `json:"chainId"`
	Kind            FactoryKind    `json:"kind"`
	TxHash          common.Hash    `json:"txHash"`
}

// ProviderEventKind names a notification pushed by the wallet provider
type ProviderEventKind string

const (
	AccountsChanged ProviderEventKind = "accountsChanged"
	ChainChanged    ProviderEventKind = "chainChanged"
)

// ProviderEvent is a notification pushed by the wallet provider
type ProviderEvent struct {
	Kind     ProviderEventKind
	Accounts []common.Address
	ChainID  string
}

// AddChainParameters is the payload of a wallet add-network request
type AddChainParameters struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// NewAddChainParameters builds the add-network payload for a chain
func NewAddChainParameters(chain ChainDescriptor) AddChainParameters {
	return AddChainParameters{
		ChainID:           chain.ChainIDHex,
		ChainName:         chain.DisplayName,
		NativeCurrency:    chain.NativeCurrency,
		RPCURLs:           []string{chain.RPCEndpoint},
		BlockExplorerURLs: []string{chain.BlockExplorerURL},
	}
}

// ChainSwitcher is the part of a wallet provider that manages its active network
type ChainSwitcher interface {
	ChainID(ctx context.Context) (string, error)
	SwitchChain(ctx context.Context, chainIDHex string) error
	AddChain(ctx context.Context, params AddChainParameters) error
}

// Provider is a request-capable wallet with an event channel.
// SwitchChain fails with ErrUnrecognizedChain when the wallet does not know the network.
type Provider interface {
	ChainSwitcher
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	SubscribeEvents(ch chan<- ProviderEvent) event.Subscription
	Signer(account common.Address) Signer
}

// Signer is the handle used to read contracts and submit transactions as one account
type Signer interface {
	Account() common.Address
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, call ethereum.CallMsg) (common.Hash, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// WalletOption describes an entry of the wallet picker
type WalletOption struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Supported   bool   `json:"supported"`
	Reason      string `json:"reason,omitempty"`
}

// Response is the envelope of every HTTP response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorData describes a failed request in the response envelope
type ErrorData struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Field    string `json:"field,omitempty"`
}

// ConnectPayload is the body of a session connect request
type ConnectPayload struct {
	ChainID string `json:"chainId" binding:"required"`
	Wallet  string `json:"wallet"`
}

// SelectChainPayload is the body of a chain selection request
type SelectChainPayload struct {
	ChainID string `json:"chainId" binding:"required"`
}

// FeePreviewResponse is returned for live fee previews
type FeePreviewResponse struct {
	Operation string `json:"operation"`
	Quantity  string `json:"quantity"`
	Tier      string `json:"tier"`
	FeeWei    string `json:"feeWei"`
	Fee       string `json:"fee"`
	Symbol    string `json:"symbol"`
}

// DeployTokenPayload is the body of a fungible deploy request
type DeployTokenPayload struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	InitialSupply string `json:"initialSupply"`
	Decimals      uint8  `json:"decimals"`
	IsMintable    bool   `json:"isMintable"`
}

// DeployCollectionPayload is the body of a non-fungible deploy request
type DeployCollectionPayload struct {
	Name               string `json:"name"`
	Symbol             string `json:"symbol"`
	BaseURI            string `json:"baseUri"`
	InitialMintSize    string `json:"initialMintSize"`
	IsMintable         bool   `json:"isMintable"`
	RoyaltyBasisPoints uint16 `json:"royaltyBps"`
}

// MintPayload is the body of a mint request
type MintPayload struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Recipient    string `json:"recipient" binding:"required"`
	Quantity     string `json:"quantity" binding:"required"`
}

// UpdateFeesPayload is the body of a fee update; amounts are in ether
type UpdateFeesPayload struct {
	Small  string `json:"small" binding:"required"`
	Medium string `json:"medium" binding:"required"`
	Large  string `json:"large" binding:"required"`
}

// WithdrawPayload is the body of a fee withdrawal; an empty or zero amount withdraws everything
type WithdrawPayload struct {
	Amount string `json:"amount"`
}

// RecoverPayload is the body of a token recovery; the amount is in token units
type RecoverPayload struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Recipient    string `json:"recipient" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}
