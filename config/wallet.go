package config

import (
	"time"

	"github.com/spf13/viper"
)

// WalletConfiguration type defines how the wallet provider is reached
type WalletConfiguration struct {
	Option            string
	BridgeURL         string
	BridgeTimeout     time.Duration
	PollInterval      time.Duration
	DevMnemonic       string
	DevAccountIndex   int
	DevInitialChainID string
}

// WalletConfig sets the wallet provider configuration
func WalletConfig() *WalletConfiguration {
	viper.SetDefault("WALLET_OPTION", "injected")
	viper.SetDefault("WALLET_BRIDGE_URL", "http://127.0.0.1:8545")
	viper.SetDefault("WALLET_BRIDGE_TIMEOUT", 30*time.Second)
	viper.SetDefault("WALLET_POLL_INTERVAL", 2*time.Second)
	viper.SetDefault("DEV_WALLET_MNEMONIC", "")
	viper.SetDefault("DEV_WALLET_ACCOUNT_INDEX", 0)
	viper.SetDefault("DEV_WALLET_CHAIN", "0xaa36a7")

	return &WalletConfiguration{
		Option:            viper.GetString("WALLET_OPTION"),
		BridgeURL:         viper.GetString("WALLET_BRIDGE_URL"),
		BridgeTimeout:     viper.GetDuration("WALLET_BRIDGE_TIMEOUT"),
		PollInterval:      viper.GetDuration("WALLET_POLL_INTERVAL"),
		DevMnemonic:       viper.GetString("DEV_WALLET_MNEMONIC"),
		DevAccountIndex:   viper.GetInt("DEV_WALLET_ACCOUNT_INDEX"),
		DevInitialChainID: viper.GetString("DEV_WALLET_CHAIN"),
	}
}
