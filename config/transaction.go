package config

import (
	"time"

	"github.com/spf13/viper"
)

// TransactionConfiguration type defines submission and confirmation settings
type TransactionConfiguration struct {
	ReceiptPollInterval time.Duration
	ConfirmationTimeout time.Duration
	GasLimitMultiplier  float64
}

// TransactionConfig sets the transaction configuration
func TransactionConfig() *TransactionConfiguration {
	viper.SetDefault("RECEIPT_POLL_INTERVAL", 2*time.Second)
	viper.SetDefault("CONFIRMATION_TIMEOUT", 5*time.Minute)
	viper.SetDefault("GAS_LIMIT_MULTIPLIER", 1.2)

	return &TransactionConfiguration{
		ReceiptPollInterval: viper.GetDuration("RECEIPT_POLL_INTERVAL"),
		ConfirmationTimeout: viper.GetDuration("CONFIRMATION_TIMEOUT"),
		GasLimitMultiplier:  viper.GetFloat64("GAS_LIMIT_MULTIPLIER"),
	}
}
