package config

import (
	"strings"

	"github.com/spf13/viper"
)

// ChainOverrides returns the RPC endpoints configured for the given chain ids.
// A chain id "baseSepolia" is read from BASE_SEPOLIA_RPC_URL.
func ChainOverrides(chainIDs ...string) map[string]string {
	overrides := make(map[string]string)
	for _, id := range chainIDs {
		if url := viper.GetString(envKey(id) + "_RPC_URL"); url != "" {
			overrides[id] = url
		}
	}
	return overrides
}

func envKey(chainID string) string {
	var sb strings.Builder
	for i, r := range chainID {
		if r >= 'A' && r <= 'Z' && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}
