package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/kapildev5262/Token-World/services/factory"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/services/provider"
	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/kapildev5262/Token-World/services/session"
	"github.com/kapildev5262/Token-World/services/transaction"
	"github.com/kapildev5262/Token-World/types"
	u "github.com/kapildev5262/Token-World/utils"
	"github.com/kapildev5262/Token-World/utils/logger"
	"github.com/shopspring/decimal"
)

// Controller serves the wallet session and the factory operations to the UI
type Controller struct {
	chains         *registry.ChainRegistry
	session        *session.Session
	manager        *factory.Manager
	resolver       *fees.Resolver
	wallet         string
	confirmTimeout time.Duration

	mu          sync.RWMutex
	deployments []types.DeploymentRecord
}

// NewController creates a controller over an already wired session and factory manager.
// wallet is the option the session provider was built from.
func NewController(chains *registry.ChainRegistry, sess *session.Session, manager *factory.Manager, resolver *fees.Resolver, wallet string, confirmTimeout time.Duration) *Controller {
	if wallet == "" {
		wallet = provider.Injected
	}
	if confirmTimeout <= 0 {
		confirmTimeout = 5 * time.Minute
	}
	return &Controller{
		chains:         chains,
		session:        sess,
		manager:        manager,
		resolver:       resolver,
		wallet:         wallet,
		confirmTimeout: confirmTimeout,
	}
}

// sessionView is the session snapshot returned to the UI
type sessionView struct {
	types.WalletSessionState
	Wallet    string `json:"wallet"`
	LastError string `json:"lastError,omitempty"`
}

// configurationView adds ether renderings to a factory configuration
type configurationView struct {
	factory.Configuration
	FeesEther    map[string]string `json:"feesEther,omitempty"`
	BalanceEther string            `json:"balanceEther,omitempty"`
	Symbol       string            `json:"symbol"`
}

// GetChains lists the supported networks
func (ctrl *Controller) GetChains(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "OK", ctrl.chains.List())
}

// GetWallets lists the wallet picker entries
func (ctrl *Controller) GetWallets(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "OK", provider.Options())
}

// GetSession returns the current session snapshot
func (ctrl *Controller) GetSession(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "OK", ctrl.sessionView())
}

func (ctrl *Controller) sessionView() sessionView {
	return sessionView{
		WalletSessionState: ctrl.session.State(),
		Wallet:             ctrl.wallet,
		LastError:          ctrl.session.LastError(),
	}
}

// Connect requests the wallet accounts and binds the session to a chain
func (ctrl *Controller) Connect(ctx *gin.Context) {
	var payload types.ConnectPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctrl.renderError(ctx, types.NewValidationError("chainId", "is required"))
		return
	}

	if payload.Wallet != "" {
		if err := provider.Supported(payload.Wallet); err != nil {
			ctrl.renderError(ctx, err)
			return
		}
		if payload.Wallet != ctrl.wallet {
			ctrl.renderError(ctx, types.NewValidationError("wallet", fmt.Sprintf("this server connects through %s", ctrl.wallet)))
			return
		}
	}

	if err := ctrl.session.Connect(ctx.Request.Context(), payload.ChainID); err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Wallet connected", ctrl.sessionView())
}

// Disconnect closes the session; it always succeeds
func (ctrl *Controller) Disconnect(ctx *gin.Context) {
	ctrl.session.Disconnect()
	u.APIResponse(ctx, http.StatusOK, "success", "Wallet disconnected", ctrl.sessionView())
}

// SelectChain changes the target chain of the session
func (ctrl *Controller) SelectChain(ctx *gin.Context) {
	var payload types.SelectChainPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctrl.renderError(ctx, types.NewValidationError("chainId", "is required"))
		return
	}

	if err := ctrl.session.SelectChain(ctx.Request.Context(), payload.ChainID); err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Chain selected", ctrl.sessionView())
}

// GetFeePreview quotes the fee of an operation for a quantity as the user types it
func (ctrl *Controller) GetFeePreview(ctx *gin.Context) {
	op := fees.Operation(ctx.Query("operation"))
	if !op.Valid() {
		ctrl.renderError(ctx, types.NewValidationError("operation", "must be token_deploy, token_mint, collection_deploy or collection_mint"))
		return
	}

	chainID := ctx.Query("chainId")
	if chainID == "" {
		chainID = ctrl.session.State().TargetChainID
	}
	if chainID == "" {
		ctrl.renderError(ctx, types.ErrNoChainSelected)
		return
	}
	chain, err := ctrl.chains.Get(chainID)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	quantity := ctx.Query("quantity")
	q, ok := u.ParseQuantity(quantity)
	if !ok {
		ctrl.renderError(ctx, types.ErrInvalidQuantity.WithDetail("%q is not an integer", quantity))
		return
	}

	tier, fee, err := ctrl.resolver.Quote(op, chain.ID, q)
	if errors.Is(err, types.ErrFeeScheduleUnavailable) && ctrl.session.State().TargetChainID == chain.ID {
		// the schedule is loaded with the factory configuration of the connected chain
		if _, cerr := ctrl.manager.Client(ctx.Request.Context(), op.Kind()); cerr == nil {
			tier, fee, err = ctrl.resolver.Quote(op, chain.ID, q)
		}
	}
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "OK", types.FeePreviewResponse{
		Operation: string(op),
		Quantity:  q.String(),
		Tier:      string(tier),
		FeeWei:    fee.String(),
		Fee:       u.FormatEther(fee),
		Symbol:    chain.NativeCurrency.Symbol,
	})
}

// GetConfiguration loads the owner, fees and, for the owner, the balance of a factory
func (ctrl *Controller) GetConfiguration(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	cfg := client.LoadConfiguration(ctx.Request.Context())
	view := configurationView{
		Configuration: cfg,
		Symbol:        client.Chain().NativeCurrency.Symbol,
	}
	if cfg.Known {
		// the owner's fee form starts from the current fees
		view.FeesEther = map[string]string{
			string(fees.Small):  u.FormatEther(cfg.Fees.Small),
			string(fees.Medium): u.FormatEther(cfg.Fees.Medium),
			string(fees.Large):  u.FormatEther(cfg.Fees.Large),
		}
	}
	if cfg.Balance != nil {
		view.BalanceEther = u.FormatEther(cfg.Balance)
	}

	u.APIResponse(ctx, http.StatusOK, "success", "OK", view)
}

// Deploy creates a token or a collection through the factory of the path kind
func (ctrl *Controller) Deploy(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	var params factory.DeployParams
	switch client.Kind() {
	case types.FungibleFactory:
		var payload types.DeployTokenPayload
		if err := ctx.ShouldBindJSON(&payload); err != nil {
			ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
			return
		}
		supply, err := parseAmountField("initialSupply", payload.InitialSupply)
		if err != nil {
			ctrl.renderError(ctx, err)
			return
		}
		params = factory.TokenParams{
			Name:          payload.Name,
			Symbol:        payload.Symbol,
			InitialSupply: supply,
			Decimals:      payload.Decimals,
			IsMintable:    payload.IsMintable,
		}
	default:
		var payload types.DeployCollectionPayload
		if err := ctx.ShouldBindJSON(&payload); err != nil {
			ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
			return
		}
		size, err := parseAmountField("initialMintSize", payload.InitialMintSize)
		if err != nil {
			ctrl.renderError(ctx, err)
			return
		}
		params = factory.CollectionParams{
			Name:               payload.Name,
			Symbol:             payload.Symbol,
			BaseURI:            payload.BaseURI,
			InitialMintSize:    size,
			IsMintable:         payload.IsMintable,
			RoyaltyBasisPoints: payload.RoyaltyBasisPoints,
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), ctrl.confirmTimeout)
	defer cancel()

	outcome, err := client.Deploy(reqCtx, params)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	message := "Deployment confirmed"
	if outcome.Record != nil {
		ctrl.mu.Lock()
		ctrl.deployments = append(ctrl.deployments, *outcome.Record)
		ctrl.mu.Unlock()
	} else {
		message = "Deployment confirmed without a deployment event"
	}

	u.APIResponse(ctx, http.StatusCreated, "success", message, outcome)
}

// Mint mints more of a factory token to a recipient
func (ctrl *Controller) Mint(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	var payload types.MintPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
		return
	}

	token, err := parseAddressField("tokenAddress", payload.TokenAddress)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}
	recipient, err := parseAddressField("recipient", payload.Recipient)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}
	quantity, ok := u.ParseQuantity(payload.Quantity)
	if !ok {
		ctrl.renderError(ctx, types.ErrInvalidQuantity.WithDetail("%q is not an integer", payload.Quantity))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), ctrl.confirmTimeout)
	defer cancel()

	outcome, err := client.Mint(reqCtx, token, recipient, quantity)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Mint confirmed", outcome)
}

// UpdateFees replaces the fee schedule of a factory; amounts are given in ether
func (ctrl *Controller) UpdateFees(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	var payload types.UpdateFeesPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
		return
	}

	var schedule types.FeeSchedule
	for _, f := range []struct {
		name   string
		amount string
		dst    **big.Int
	}{
		{"small", payload.Small, &schedule.Small},
		{"medium", payload.Medium, &schedule.Medium},
		{"large", payload.Large, &schedule.Large},
	} {
		wei, err := u.ParseEther(f.amount)
		if err != nil {
			ctrl.renderError(ctx, types.NewValidationError(f.name, err.Error()))
			return
		}
		*f.dst = wei
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), ctrl.confirmTimeout)
	defer cancel()

	outcome, err := client.UpdateFees(reqCtx, schedule)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Fees updated", outcome)
}

// Withdraw moves collected fees to the owner; an empty or zero amount withdraws everything
func (ctrl *Controller) Withdraw(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	var payload types.WithdrawPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
		return
	}

	amount := new(big.Int)
	if strings.TrimSpace(payload.Amount) != "" {
		amount, err = u.ParseEther(payload.Amount)
		if err != nil {
			ctrl.renderError(ctx, types.NewValidationError("amount", err.Error()))
			return
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), ctrl.confirmTimeout)
	defer cancel()

	outcome, err := client.Withdraw(reqCtx, amount)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Fees withdrawn", outcome)
}

// Recover sends ERC-20 tokens held by the factory to a recipient
func (ctrl *Controller) Recover(ctx *gin.Context) {
	client, err := ctrl.client(ctx)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	var payload types.RecoverPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctrl.renderError(ctx, types.ErrValidation.Wrap(err))
		return
	}

	token, err := parseAddressField("tokenAddress", payload.TokenAddress)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}
	recipient, err := parseAddressField("recipient", payload.Recipient)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil || !amount.IsPositive() {
		ctrl.renderError(ctx, types.NewValidationError("amount", "must be a positive number"))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), ctrl.confirmTimeout)
	defer cancel()

	outcome, err := client.RecoverToken(reqCtx, token, recipient, amount)
	if err != nil {
		ctrl.renderError(ctx, err)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Tokens recovered", outcome)
}

// GetDeployments lists the tokens deployed through this server, oldest first.
// kind and chainId query parameters filter the list.
func (ctrl *Controller) GetDeployments(ctx *gin.Context) {
	kind := types.FactoryKind(ctx.Query("kind"))
	if kind != "" && !kind.Valid() {
		ctrl.renderError(ctx, types.NewValidationError("kind", "must be erc20 or erc721"))
		return
	}
	chainID := ctx.Query("chainId")

	ctrl.mu.RLock()
	records := make([]types.DeploymentRecord, 0, len(ctrl.deployments))
	for _, r := range ctrl.deployments {
		if kind != "" && r.Kind != kind {
			continue
		}
		if chainID != "" && r.ChainID != chainID {
			continue
		}
		records = append(records, r)
	}
	ctrl.mu.RUnlock()

	u.APIResponse(ctx, http.StatusOK, "success", "OK", records)
}

func (ctrl *Controller) client(ctx *gin.Context) (*factory.Client, error) {
	return ctrl.manager.Client(ctx.Request.Context(), types.FactoryKind(ctx.Param("kind")))
}

func parseAddressField(field, value string) (common.Address, error) {
	if !u.IsValidEthereumAddress(value) {
		return common.Address{}, types.NewValidationError(field, "must be a hex address")
	}
	return common.HexToAddress(value), nil
}

func parseAmountField(field, value string) (*big.Int, error) {
	v, ok := u.ParseQuantity(value)
	if !ok {
		return nil, types.NewValidationError(field, "must be an integer")
	}
	return v, nil
}

// renderError writes a typed error as the response envelope with a status matching its category
func (ctrl *Controller) renderError(ctx *gin.Context, err error) {
	if errors.Is(err, transaction.ErrTxBroadcastNoReceipt) {
		logger.WithFields(logger.Fields{
			"Error": err.Error(),
			"Path":  ctx.FullPath(),
		}).Warnf("transaction receipt not available")
		u.APIResponse(ctx, http.StatusGatewayTimeout, "error", err.Error(), types.ErrorData{
			Category: string(types.TransactionCategory),
			Code:     "BroadcastNoReceipt",
		})
		return
	}

	var typed *types.Error
	if !errors.As(err, &typed) {
		logger.WithFields(logger.Fields{
			"Error": err.Error(),
			"Path":  ctx.FullPath(),
		}).Errorf("unexpected error")
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Internal server error", nil)
		return
	}

	u.APIResponse(ctx, statusFor(typed), "error", typed.Error(), types.ErrorData{
		Category: string(typed.Category),
		Code:     typed.Code,
		Field:    typed.Field,
	})
}

func statusFor(err *types.Error) int {
	switch err.Category {
	case types.ValidationCategory:
		return http.StatusBadRequest
	case types.PermissionCategory:
		return http.StatusForbidden
	case types.TokenStateCategory:
		return http.StatusUnprocessableEntity
	case types.NetworkCategory:
		if err.Code == types.ErrReadFailed.Code {
			return http.StatusBadGateway
		}
		return http.StatusConflict
	case types.TransactionCategory:
		if err.Code == types.ErrTransactionFailed.Code {
			return http.StatusBadGateway
		}
		return http.StatusBadRequest
	case types.SessionCategory:
		if err.Code == types.ErrNoProviderAvailable.Code || err.Code == types.ErrFeeScheduleUnavailable.Code {
			return http.StatusServiceUnavailable
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
