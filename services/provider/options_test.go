package provider

import (
	"testing"

	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/kapildev5262/Token-World/types"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	opts := Options()
	assert.Len(t, opts, 5)
	assert.Equal(t, Injected, opts[0].Name)
	assert.True(t, opts[0].Supported)

	for _, opt := range opts[2:] {
		assert.False(t, opt.Supported, opt.Name)
		assert.Equal(t, "integration requires additional setup", opt.Reason)
	}

	// callers get a copy
	opts[0].Supported = false
	assert.True(t, Options()[0].Supported)
}

func TestSelect(t *testing.T) {
	deps := Deps{
		BridgeURL: "http://127.0.0.1:8545",
		DevWallet: DevWalletOptions{
			Mnemonic:       testMnemonic,
			InitialChainID: "0xaa36a7",
			Chains:         registry.NewDefault(nil),
		},
	}

	for _, name := range []string{WalletConnect, Coinbase, Trust, "ledger"} {
		t.Run(name, func(t *testing.T) {
			p, err := Select(name, deps)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, types.ErrUnsupportedWallet)
		})
	}

	t.Run("dev", func(t *testing.T) {
		p, err := Select(Dev, deps)
		assert.NoError(t, err)
		assert.IsType(t, &DevWallet{}, p)
	})

	t.Run("injected is the default", func(t *testing.T) {
		p, err := Select("", deps)
		assert.NoError(t, err)
		bridge, ok := p.(*Bridge)
		assert.True(t, ok)
		bridge.Stop()
	})
}
