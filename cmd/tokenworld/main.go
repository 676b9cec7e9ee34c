package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kapildev5262/Token-World/config"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/provider"
	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/spf13/cobra"
)

// dialFunc connects to the RPC endpoint of a chain for read-only calls
type dialFunc func(ctx context.Context, rpcURL string) (contracts.Caller, error)

func dialEthClient(ctx context.Context, rpcURL string) (contracts.Caller, error) {
	return provider.DialEthClient(ctx, rpcURL)
}

// app carries what every command needs; tests swap dial for a scripted chain
type app struct {
	chains *registry.ChainRegistry
	dial   dialFunc
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tokenworld",
		Short:         "Token World factory tools",
		Long:          `tokenworld inspects the supported networks and the token factories deployed on them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newChainsCmd(a),
		newFeesCmd(a),
		newQuoteCmd(a),
		newAccountCmd(),
	)

	return rootCmd
}

func main() {
	a := &app{
		chains: registry.NewDefault(config.ChainOverrides(registry.Sepolia, registry.BaseSepolia)),
		dial:   dialEthClient,
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
