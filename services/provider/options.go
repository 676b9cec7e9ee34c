package provider

import (
	"time"

	"github.com/kapildev5262/Token-World/types"
)

// Wallet option names
const (
	Injected      = "injected"
	Dev           = "dev"
	WalletConnect = "walletconnect"
	Coinbase      = "coinbase"
	Trust         = "trust"
)

const unsupportedReason = "integration requires additional setup"

var options = []types.WalletOption{
	{Name: Injected, DisplayName: "MetaMask", Supported: true},
	{Name: Dev, DisplayName: "Local HD wallet", Supported: true},
	{Name: WalletConnect, DisplayName: "WalletConnect", Reason: unsupportedReason},
	{Name: Coinbase, DisplayName: "Coinbase Wallet", Reason: unsupportedReason},
	{Name: Trust, DisplayName: "Trust Wallet", Reason: unsupportedReason},
}

// Options lists every wallet the picker offers, supported or not
func Options() []types.WalletOption {
	out := make([]types.WalletOption, len(options))
	copy(out, options)
	return out
}

// Deps carries what the supported options need to build a provider
type Deps struct {
	BridgeURL     string
	BridgeTimeout time.Duration
	PollInterval  time.Duration
	DevWallet     DevWalletOptions
}

// Select builds the provider for a wallet option.
// Unsupported options fail with ErrUnsupportedWallet and never reach a provider.
func Select(name string, deps Deps) (types.Provider, error) {
	if name == "" {
		name = Injected
	}

	switch name {
	case Injected:
		bridge := NewBridge(deps.BridgeURL, deps.BridgeTimeout, deps.PollInterval)
		bridge.Start()
		return bridge, nil
	case Dev:
		wallet, err := NewDevWallet(deps.DevWallet)
		if err != nil {
			return nil, err
		}
		return wallet, nil
	}

	if err := Supported(name); err != nil {
		return nil, err
	}
	return nil, types.ErrUnsupportedWallet.WithDetail("unknown wallet option %q", name)
}

// Supported returns nil for an option that can connect and ErrUnsupportedWallet otherwise
func Supported(name string) error {
	for _, opt := range options {
		if opt.Name != name {
			continue
		}
		if !opt.Supported {
			return types.ErrUnsupportedWallet.WithDetail("%s %s", opt.DisplayName, opt.Reason)
		}
		return nil
	}
	return types.ErrUnsupportedWallet.WithDetail("unknown wallet option %q", name)
}
