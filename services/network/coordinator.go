package network

import (
	"context"
	"errors"

	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// Coordinator brings a wallet onto a target network
type Coordinator struct{}

// NewCoordinator creates a new Coordinator
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// EnsureChain makes the wallet's active network equal to target.
// It asks to switch, and when the wallet does not know the network it adds it and retries the switch once.
// Any other failure returns ErrNetworkSwitchFailed without retrying.
func (c *Coordinator) EnsureChain(ctx context.Context, wallet types.ChainSwitcher, target types.ChainDescriptor) error {
	current, err := wallet.ChainID(ctx)
	if err != nil {
		return types.ErrNetworkSwitchFailed.WithDetail("reading wallet chain id").Wrap(err)
	}
	if types.NormalizeChainIDHex(current) == types.NormalizeChainIDHex(target.ChainIDHex) {
		return nil
	}

	logger.WithFields(logger.Fields{
		"From": current,
		"To":   target.ChainIDHex,
	}).Infof("switching wallet network to %s", target.DisplayName)

	err = wallet.SwitchChain(ctx, target.ChainIDHex)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrUnrecognizedChain) {
		return types.ErrNetworkSwitchFailed.WithDetail("switching to %s", target.ID).Wrap(err)
	}

	if err := wallet.AddChain(ctx, types.NewAddChainParameters(target)); err != nil {
		return types.ErrNetworkSwitchFailed.WithDetail("adding %s", target.ID).Wrap(err)
	}

	if err := wallet.SwitchChain(ctx, target.ChainIDHex); err != nil {
		return types.ErrNetworkSwitchFailed.WithDetail("switching to %s after adding it", target.ID).Wrap(err)
	}

	return nil
}
