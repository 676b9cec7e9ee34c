package factory

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/events"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/services/transaction"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils"
	"github.com/kapildev5262/Token-World/utils/logger"
	"github.com/shopspring/decimal"
)

// StateReader exposes the current wallet session snapshot
type StateReader interface {
	State() types.WalletSessionState
}

// Configuration is what a client knows about its factory contract
type Configuration struct {
	ChainID string            `json:"chainId"`
	Kind    types.FactoryKind `json:"kind"`
	Address common.Address    `json:"address"`
	Owner   common.Address    `json:"owner"`
	IsOwner bool              `json:"isOwner"`
	Fees    types.FeeSchedule `json:"fees"`
	Balance *big.Int          `json:"balance,omitempty"`
	Known   bool              `json:"known"`
}

// DeployOutcome is the result of a confirmed deployment.
// Record is nil when the transaction confirmed but no TokenDeployed event was found.
type DeployOutcome struct {
	TxHash                common.Hash             `json:"txHash"`
	Tier                  fees.Tier               `json:"tier"`
	Fee                   *big.Int                `json:"fee"`
	Record                *types.DeploymentRecord `json:"record,omitempty"`
	ConfirmedWithoutEvent bool                    `json:"confirmedWithoutEvent"`
}

// MintOutcome is the result of a confirmed mint
type MintOutcome struct {
	TxHash                common.Hash              `json:"txHash"`
	Tier                  fees.Tier                `json:"tier"`
	Fee                   *big.Int                 `json:"fee"`
	Minted                *events.TokenMintedEvent `json:"minted,omitempty"`
	ConfirmedWithoutEvent bool                     `json:"confirmedWithoutEvent"`
}

// AdminOutcome is the result of an owner operation
type AdminOutcome struct {
	TxHash                common.Hash        `json:"txHash"`
	Balance               *big.Int           `json:"balance,omitempty"`
	Fees                  *types.FeeSchedule `json:"fees,omitempty"`
	Event                 events.Event       `json:"event,omitempty"`
	ConfirmedWithoutEvent bool               `json:"confirmedWithoutEvent"`
}

// Client talks to one factory contract on one chain for the account of one session epoch.
// Once the session moves on (disconnect, account or chain change) every call fails with
// ErrClientDetached.
type Client struct {
	chain        types.ChainDescriptor
	kind         types.FactoryKind
	epoch        uint64
	signer       types.Signer
	session      StateReader
	factory      *contracts.Factory
	decoder      *events.Decoder
	resolver     *fees.Resolver
	orchestrator *transaction.Orchestrator

	mu     sync.RWMutex
	config Configuration
}

// NewClient binds a client to the factory of kind on chain for the session snapshot state
func NewClient(chain types.ChainDescriptor, kind types.FactoryKind, state types.WalletSessionState, session StateReader, resolver *fees.Resolver, orchestrator *transaction.Orchestrator) *Client {
	address := chain.FactoryAddress(kind)
	return &Client{
		chain:        chain,
		kind:         kind,
		epoch:        state.Epoch,
		signer:       state.Signer,
		session:      session,
		factory:      contracts.NewFactory(address, kind, state.Signer, state.Signer.Account()),
		decoder:      events.NewDecoder(kind, address),
		resolver:     resolver,
		orchestrator: orchestrator,
		config: Configuration{
			ChainID: chain.ID,
			Kind:    kind,
			Address: address,
		},
	}
}

// Kind returns the factory kind of the client
func (c *Client) Kind() types.FactoryKind {
	return c.kind
}

// Chain returns the chain the client is bound to
func (c *Client) Chain() types.ChainDescriptor {
	return c.chain
}

// Epoch returns the session epoch the client is bound to
func (c *Client) Epoch() uint64 {
	return c.epoch
}

// Attached reports whether the session is still in the epoch the client was built for
func (c *Client) Attached() bool {
	st := c.session.State()
	return st.Status == types.Connected && st.Epoch == c.epoch
}

func (c *Client) attached() error {
	if !c.Attached() {
		return types.ErrClientDetached
	}
	return nil
}

// Configuration returns the last loaded configuration
func (c *Client) Configuration() Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// LoadConfiguration reads owner, fees and, for the owner, the factory balance.
// Read failures are logged and reported through Known=false.
func (c *Client) LoadConfiguration(ctx context.Context) Configuration {
	cfg := Configuration{
		ChainID: c.chain.ID,
		Kind:    c.kind,
		Address: c.factory.Address,
	}

	if err := c.attached(); err != nil {
		return cfg
	}

	account := c.signer.Account()
	owner, ownerErr := c.factory.Owner(ctx)
	schedule, feesErr := c.factory.CurrentFees(ctx)

	if ownerErr == nil {
		cfg.Owner = owner
		cfg.IsOwner = owner == account
	}
	if feesErr == nil {
		cfg.Fees = schedule
		c.resolver.Store(c.chain.ID, c.kind, schedule)
	}

	if cfg.IsOwner {
		balance, err := c.factory.Balance(ctx)
		if err != nil {
			logger.WithFields(logger.Fields{
				"Error":   err.Error(),
				"ChainID": c.chain.ID,
				"Factory": c.factory.Address.Hex(),
			}).Warnf("failed to read factory balance")
		} else {
			cfg.Balance = balance
		}
	}

	cfg.Known = ownerErr == nil && feesErr == nil
	if !cfg.Known {
		fields := logger.Fields{
			"ChainID": c.chain.ID,
			"Kind":    string(c.kind),
			"Factory": c.factory.Address.Hex(),
		}
		if ownerErr != nil {
			fields["OwnerError"] = ownerErr.Error()
		}
		if feesErr != nil {
			fields["FeesError"] = feesErr.Error()
		}
		logger.WithFields(fields).Errorf("failed to load factory configuration")
	}

	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	return cfg
}

// quote prices op, loading the fee schedule once if it is not cached yet
func (c *Client) quote(ctx context.Context, op fees.Operation, quantity *big.Int) (fees.Tier, *big.Int, error) {
	tier, fee, err := c.resolver.Quote(op, c.chain.ID, quantity)
	if errors.Is(err, types.ErrFeeScheduleUnavailable) {
		c.LoadConfiguration(ctx)
		tier, fee, err = c.resolver.Quote(op, c.chain.ID, quantity)
	}
	return tier, fee, err
}

// Deploy validates params, pays the tier fee and deploys a token or collection
func (c *Client) Deploy(ctx context.Context, params DeployParams) (*DeployOutcome, error) {
	if params == nil {
		return nil, types.ErrValidation.WithDetail("deployment parameters are required")
	}
	if params.kind() != c.kind {
		return nil, types.ErrValidation.WithDetail("%s parameters cannot be deployed by the %s factory", params.kind(), c.kind)
	}
	if err := params.check(); err != nil {
		return nil, err
	}
	if err := c.attached(); err != nil {
		return nil, err
	}

	tier, fee, err := c.quote(ctx, params.operation(), params.size())
	if err != nil {
		return nil, err
	}

	data, err := params.pack()
	if err != nil {
		return nil, types.ErrValidation.Wrap(err)
	}

	result, err := c.orchestrator.SubmitAndConfirm(ctx, c.signer, transaction.Call{
		To:    c.factory.Address,
		Data:  data,
		Value: fee,
		Label: "deployToken",
	}, c.decoder, events.TokenDeployed)
	if err != nil {
		return nil, err
	}

	outcome := &DeployOutcome{TxHash: result.Hash, Tier: tier, Fee: fee}
	deployed, ok := result.Event.(events.TokenDeployedEvent)
	if !ok {
		outcome.ConfirmedWithoutEvent = true
		return outcome, nil
	}

	outcome.Record = &types.DeploymentRecord{
		ContractAddress: deployed.TokenAddress,
		CreatorAddress:  deployed.Creator,
		Name:            deployed.Name,
		Symbol:          deployed.Symbol,
		SizeParameter:   deployed.Size,
		Decimals:        deployed.Decimals,
		IsMintable:      deployed.IsMintable,
		ChainID:         c.chain.ID,
		Kind:            c.kind,
		TxHash:          result.Hash,
	}

	logger.WithFields(logger.Fields{
		"Token":   deployed.TokenAddress.Hex(),
		"Creator": deployed.Creator.Hex(),
		"ChainID": c.chain.ID,
		"Kind":    string(c.kind),
	}).Infof("token deployed")

	return outcome, nil
}

// Mint mints quantity of a factory token to recipient.
// Only the token's creator may mint, and only tokens deployed as mintable.
func (c *Client) Mint(ctx context.Context, token, recipient common.Address, quantity *big.Int) (*MintOutcome, error) {
	if utils.IsZeroAddress(token) {
		return nil, types.NewValidationError("tokenAddress", "is required")
	}
	if utils.IsZeroAddress(recipient) {
		return nil, types.NewValidationError("recipient", "is required")
	}
	if c.kind == types.NonFungibleFactory {
		if err := checkCollectionQuantity("quantity", quantity); err != nil {
			return nil, types.ErrInvalidQuantity.WithDetail("must be between 1 and %d", MaxCollectionMint)
		}
	} else if quantity == nil || quantity.Sign() <= 0 {
		return nil, types.ErrInvalidQuantity.WithDetail("must be greater than zero")
	}
	if err := c.attached(); err != nil {
		return nil, err
	}

	account := c.signer.Account()

	creator, err := c.factory.TokenCreator(ctx, token)
	if err != nil {
		return nil, err
	}
	if utils.IsZeroAddress(creator) {
		return nil, types.ErrNotFactoryToken.WithDetail("%s was not deployed by this factory", token.Hex())
	}
	if creator != account {
		return nil, types.ErrNotCreator.WithDetail("%s was created by %s", token.Hex(), creator.Hex())
	}

	op := fees.TokenMint
	if c.kind == types.NonFungibleFactory {
		op = fees.CollectionMint
		tokenCreator, err := contracts.TokenCreator(ctx, c.signer, token)
		if err != nil {
			return nil, err
		}
		if tokenCreator != account {
			return nil, types.ErrNotCreator.WithDetail("collection %s does not list %s as its creator", token.Hex(), account.Hex())
		}
	}

	mintable, err := contracts.HasMintEntrypoint(ctx, c.signer, token, c.kind)
	if err != nil {
		return nil, err
	}
	if !mintable {
		return nil, types.ErrNotMintable.WithDetail("%s was not deployed as mintable", token.Hex())
	}

	tier, fee, err := c.quote(ctx, op, quantity)
	if err != nil {
		return nil, err
	}

	data, err := contracts.PackMint(token, recipient, quantity)
	if err != nil {
		return nil, types.ErrValidation.Wrap(err)
	}

	result, err := c.orchestrator.SubmitAndConfirm(ctx, c.signer, transaction.Call{
		To:    c.factory.Address,
		Data:  data,
		Value: fee,
		Label: "mintToken",
	}, c.decoder, events.TokenMinted)
	if err != nil {
		return nil, err
	}

	outcome := &MintOutcome{TxHash: result.Hash, Tier: tier, Fee: fee}
	if minted, ok := result.Event.(events.TokenMintedEvent); ok {
		outcome.Minted = &minted
	} else {
		outcome.ConfirmedWithoutEvent = true
	}
	return outcome, nil
}

// requireOwner checks ownership against the loaded configuration, loading it if needed
func (c *Client) requireOwner(ctx context.Context) error {
	if err := c.attached(); err != nil {
		return err
	}
	cfg := c.Configuration()
	if !cfg.Known {
		cfg = c.LoadConfiguration(ctx)
	}
	if !cfg.IsOwner {
		return types.ErrNotOwner
	}
	return nil
}

func (c *Client) submitAdmin(ctx context.Context, label string, data []byte, eventName string) (*AdminOutcome, error) {
	result, err := c.orchestrator.SubmitAndConfirm(ctx, c.signer, transaction.Call{
		To:    c.factory.Address,
		Data:  data,
		Label: label,
	}, c.decoder, eventName)
	if err != nil {
		return nil, err
	}
	return &AdminOutcome{
		TxHash:                result.Hash,
		Event:                 result.Event,
		ConfirmedWithoutEvent: result.Event == nil,
	}, nil
}

// UpdateFees replaces the factory fee schedule and refreshes it from chain
func (c *Client) UpdateFees(ctx context.Context, schedule types.FeeSchedule) (*AdminOutcome, error) {
	for _, tier := range []struct {
		field string
		value *big.Int
	}{{"small", schedule.Small}, {"medium", schedule.Medium}, {"large", schedule.Large}} {
		if tier.value == nil || tier.value.Sign() < 0 {
			return nil, types.NewValidationError(tier.field, "must be a non-negative amount")
		}
	}
	if err := c.requireOwner(ctx); err != nil {
		return nil, err
	}

	data, err := contracts.PackUpdateFees(schedule)
	if err != nil {
		return nil, types.ErrValidation.Wrap(err)
	}

	outcome, err := c.submitAdmin(ctx, "updateFees", data, events.FeesUpdated)
	if err != nil {
		return nil, err
	}

	refreshed, err := c.factory.CurrentFees(ctx)
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error":   err.Error(),
			"ChainID": c.chain.ID,
			"Factory": c.factory.Address.Hex(),
		}).Warnf("failed to refresh fees after update")
		refreshed = schedule
		if ev, ok := outcome.Event.(events.FeesUpdatedEvent); ok {
			refreshed = ev.Schedule
		}
	}

	c.resolver.Store(c.chain.ID, c.kind, refreshed)
	c.mu.Lock()
	c.config.Fees = refreshed
	c.mu.Unlock()

	outcome.Fees = &refreshed
	return outcome, nil
}

// Withdraw sends amount wei of collected fees to the owner. Zero withdraws the whole balance.
func (c *Client) Withdraw(ctx context.Context, amount *big.Int) (*AdminOutcome, error) {
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Sign() < 0 {
		return nil, types.NewValidationError("amount", "must be a non-negative amount")
	}
	if err := c.requireOwner(ctx); err != nil {
		return nil, err
	}

	data, err := contracts.PackWithdrawFees(amount)
	if err != nil {
		return nil, types.ErrValidation.Wrap(err)
	}

	outcome, err := c.submitAdmin(ctx, "withdrawFees", data, events.FeesWithdrawn)
	if err != nil {
		return nil, err
	}

	balance, err := c.factory.Balance(ctx)
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error":   err.Error(),
			"ChainID": c.chain.ID,
			"Factory": c.factory.Address.Hex(),
		}).Warnf("failed to read factory balance after withdrawal")
		return outcome, nil
	}

	c.mu.Lock()
	c.config.Balance = balance
	c.mu.Unlock()

	outcome.Balance = balance
	return outcome, nil
}

// 10^77 is the largest power of ten below 2^256
const maxTokenDecimals = 77

// RecoverToken sends ERC-20 tokens held by the factory to recipient.
// amount is in whole token units, scaled by the token's decimals (18 when unreadable).
func (c *Client) RecoverToken(ctx context.Context, token, recipient common.Address, amount decimal.Decimal) (*AdminOutcome, error) {
	if utils.IsZeroAddress(token) {
		return nil, types.NewValidationError("tokenAddress", "is required")
	}
	if utils.IsZeroAddress(recipient) {
		return nil, types.NewValidationError("recipient", "is required")
	}
	if !amount.IsPositive() {
		return nil, types.NewValidationError("amount", "must be greater than zero")
	}
	if err := c.requireOwner(ctx); err != nil {
		return nil, err
	}

	decimals, err := contracts.TokenDecimals(ctx, c.signer, token)
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error": err.Error(),
			"Token": token.Hex(),
		}).Warnf("failed to read token decimals, assuming 18")
		decimals = 18
	}

	if decimals > maxTokenDecimals {
		return nil, types.NewValidationError("tokenAddress", fmt.Sprintf("reports %d decimals, at most %d are supported", decimals, maxTokenDecimals))
	}

	data, err := contracts.PackRecoverERC20(token, recipient, utils.ToSubunit(amount, int8(decimals)))
	if err != nil {
		return nil, types.ErrValidation.Wrap(err)
	}

	return c.submitAdmin(ctx, "recoverERC20", data, events.TokensRecovered)
}
