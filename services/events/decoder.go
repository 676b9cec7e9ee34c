package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/kapildev5262/Token-World/types"
	"github.com/lmittmann/w3"
)

// Event names emitted by both factories
const (
	TokenDeployed   = "TokenDeployed"
	TokenMinted     = "TokenMinted"
	FeesUpdated     = "FeesUpdated"
	FeesWithdrawn   = "FeesWithdrawn"
	TokensRecovered = "TokensRecovered"
)

// Event is a decoded factory event
type Event interface {
	EventName() string
}

// TokenDeployedEvent is emitted when a factory deploys a token or collection.
// Decimals and Fee are only set by the fungible factory, RoyaltyBasisPoints only by the non-fungible one.
type TokenDeployedEvent struct {
	TokenAddress       common.Address
	Creator            common.Address
	Name               string
	Symbol             string
	Size               *big.Int
	Decimals           uint8
	Fee                *big.Int
	IsMintable         bool
	RoyaltyBasisPoints *big.Int
}

// TokenMintedEvent is emitted when a factory mints for a creator
type TokenMintedEvent struct {
	TokenAddress common.Address
	To           common.Address
	Quantity     *big.Int
	Fee          *big.Int
}

// FeesUpdatedEvent is emitted when the owner changes the tier fees
type FeesUpdatedEvent struct {
	Schedule types.FeeSchedule
}

// FeesWithdrawnEvent is emitted when the owner withdraws fees
type FeesWithdrawnEvent struct {
	To     common.Address
	Amount *big.Int
}

// TokensRecoveredEvent is emitted when the owner recovers tokens held by the factory
type TokensRecoveredEvent struct {
	Token  common.Address
	To     common.Address
	Amount *big.Int
}

func (TokenDeployedEvent) EventName() string   { return TokenDeployed }
func (TokenMintedEvent) EventName() string     { return TokenMinted }
func (FeesUpdatedEvent) EventName() string     { return FeesUpdated }
func (FeesWithdrawnEvent) EventName() string   { return FeesWithdrawn }
func (TokensRecoveredEvent) EventName() string { return TokensRecovered }

var (
	eventTokenDeployed = w3.MustNewEvent(
		"TokenDeployed(address indexed tokenAddress, address indexed creator, string name, string symbol, uint256 initialSupply, uint8 decimals, uint256 fee, bool isMintable)",
	)
	eventCollectionDeployed = w3.MustNewEvent(
		"TokenDeployed(address indexed tokenAddress, address indexed creator, string name, string symbol, uint256 initialMintSize, bool isMintable, uint96 royaltyBps)",
	)
	eventTokenMinted = w3.MustNewEvent(
		"TokenMinted(address indexed tokenAddress, address indexed to, uint256 quantity, uint256 fee)",
	)
	eventFeesUpdated = w3.MustNewEvent(
		"FeesUpdated(uint256 small, uint256 medium, uint256 large)",
	)
	eventFeesWithdrawn = w3.MustNewEvent(
		"FeesWithdrawn(address indexed to, uint256 amount)",
	)
	eventTokensRecovered = w3.MustNewEvent(
		"TokensRecovered(address indexed token, address indexed to, uint256 amount)",
	)
)

type decodeFunc func(log *gethtypes.Log) (Event, error)

// Decoder decodes the events of one factory kind
type Decoder struct {
	emitter common.Address
	table   map[string]decodeFunc
}

// NewDecoder creates the decode table for a factory kind.
// When emitter is not the zero address, logs from other contracts are skipped.
func NewDecoder(kind types.FactoryKind, emitter common.Address) *Decoder {
	table := map[string]decodeFunc{
		TokenMinted:     decodeTokenMinted,
		FeesUpdated:     decodeFeesUpdated,
		FeesWithdrawn:   decodeFeesWithdrawn,
		TokensRecovered: decodeTokensRecovered,
	}
	if kind == types.NonFungibleFactory {
		table[TokenDeployed] = decodeCollectionDeployed
	} else {
		table[TokenDeployed] = decodeTokenDeployed
	}
	return &Decoder{emitter: emitter, table: table}
}

// Decode returns the first log that decodes as the named event.
// Logs that do not match are skipped; finding none is not an error.
func (d *Decoder) Decode(logs []*gethtypes.Log, name string) (Event, bool) {
	decode, ok := d.table[name]
	if !ok {
		return nil, false
	}
	for _, log := range logs {
		if log == nil {
			continue
		}
		if d.emitter != (common.Address{}) && log.Address != d.emitter {
			continue
		}
		if ev, err := decode(log); err == nil {
			return ev, true
		}
	}
	return nil, false
}

// Names returns the event names the decoder understands
func (d *Decoder) Names() []string {
	return []string{TokenDeployed, TokenMinted, FeesUpdated, FeesWithdrawn, TokensRecovered}
}

func decodeTokenDeployed(log *gethtypes.Log) (Event, error) {
	var (
		ev          TokenDeployedEvent
		supply, fee big.Int
	)
	err := eventTokenDeployed.DecodeArgs(log,
		&ev.TokenAddress, &ev.Creator, &ev.Name, &ev.Symbol, &supply, &ev.Decimals, &fee, &ev.IsMintable,
	)
	if err != nil {
		return nil, err
	}
	ev.Size = &supply
	ev.Fee = &fee
	return ev, nil
}

func decodeCollectionDeployed(log *gethtypes.Log) (Event, error) {
	var (
		ev                TokenDeployedEvent
		mintSize, royalty big.Int
	)
	err := eventCollectionDeployed.DecodeArgs(log,
		&ev.TokenAddress, &ev.Creator, &ev.Name, &ev.Symbol, &mintSize, &ev.IsMintable, &royalty,
	)
	if err != nil {
		return nil, err
	}
	ev.Size = &mintSize
	ev.RoyaltyBasisPoints = &royalty
	return ev, nil
}

func decodeTokenMinted(log *gethtypes.Log) (Event, error) {
	var (
		ev            TokenMintedEvent
		quantity, fee big.Int
	)
	if err := eventTokenMinted.DecodeArgs(log, &ev.TokenAddress, &ev.To, &quantity, &fee); err != nil {
		return nil, err
	}
	ev.Quantity = &quantity
	ev.Fee = &fee
	return ev, nil
}

func decodeFeesUpdated(log *gethtypes.Log) (Event, error) {
	var small, medium, large big.Int
	if err := eventFeesUpdated.DecodeArgs(log, &small, &medium, &large); err != nil {
		return nil, err
	}
	return FeesUpdatedEvent{Schedule: types.FeeSchedule{Small: &small, Medium: &medium, Large: &large}}, nil
}

func decodeFeesWithdrawn(log *gethtypes.Log) (Event, error) {
	var (
		ev     FeesWithdrawnEvent
		amount big.Int
	)
	if err := eventFeesWithdrawn.DecodeArgs(log, &ev.To, &amount); err != nil {
		return nil, err
	}
	ev.Amount = &amount
	return ev, nil
}

func decodeTokensRecovered(log *gethtypes.Log) (Event, error) {
	var (
		ev     TokensRecoveredEvent
		amount big.Int
	)
	if err := eventTokensRecovered.DecodeArgs(log, &ev.Token, &ev.To, &amount); err != nil {
		return nil, err
	}
	ev.Amount = &amount
	return ev, nil
}
