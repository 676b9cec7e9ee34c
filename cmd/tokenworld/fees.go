package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils"
	"github.com/spf13/cobra"
)

const readTimeout = 30 * time.Second

// readSchedule reads the current fees of the factory of kind on chainID
func (a *app) readSchedule(ctx context.Context, chainID string, kind types.FactoryKind) (types.ChainDescriptor, types.FeeSchedule, error) {
	if !kind.Valid() {
		return types.ChainDescriptor{}, types.FeeSchedule{}, fmt.Errorf("unknown factory kind %q, use erc20 or erc721", kind)
	}
	chain, err := a.chains.Get(chainID)
	if err != nil {
		return types.ChainDescriptor{}, types.FeeSchedule{}, err
	}

	caller, err := a.dial(ctx, chain.RPCEndpoint)
	if err != nil {
		return chain, types.FeeSchedule{}, fmt.Errorf("dial %s: %w", chain.RPCEndpoint, err)
	}

	schedule, err := contracts.NewFactory(chain.FactoryAddress(kind), kind, caller, common.Address{}).CurrentFees(ctx)
	if err != nil {
		return chain, types.FeeSchedule{}, err
	}
	return chain, schedule, nil
}

func newFeesCmd(a *app) *cobra.Command {
	var (
		chainID string
		kind    string
	)

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show the tier fees of a factory",
		Long: `Read the current tier fees of a factory from the chain.

Examples:
  tokenworld fees --chain sepolia --kind erc20
  tokenworld fees --chain baseSepolia --kind erc721`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), readTimeout)
			defer cancel()

			chain, schedule, err := a.readSchedule(ctx, chainID, types.FactoryKind(kind))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s factory %s\n", color.New(color.Bold).Sprint(chain.DisplayName), kind, chain.FactoryAddress(types.FactoryKind(kind)).Hex())
			for _, tier := range []fees.Tier{fees.Small, fees.Medium, fees.Large} {
				fmt.Fprintf(out, "  %-6s %s %s\n", tier, utils.FormatEther(fees.Pick(schedule, tier)), chain.NativeCurrency.Symbol)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chainID, "chain", "sepolia", "Chain id from the registry")
	cmd.Flags().StringVar(&kind, "kind", string(types.FungibleFactory), "Factory kind: erc20 or erc721")

	return cmd
}

func newQuoteCmd(a *app) *cobra.Command {
	var (
		chainID   string
		operation string
		quantity  string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the fee of a factory operation",
		Long: `Quote the fee charged for deploying or minting a quantity.

Operations: token_deploy, token_mint, collection_deploy, collection_mint.

Examples:
  tokenworld quote --operation token_deploy --quantity 5000
  tokenworld quote --chain baseSepolia --operation collection_mint --quantity 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op := fees.Operation(operation)
			if !op.Valid() {
				return fmt.Errorf("unknown operation %q", operation)
			}
			q, ok := utils.ParseQuantity(quantity)
			if !ok {
				return types.ErrInvalidQuantity.WithDetail("%q is not an integer", quantity)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), readTimeout)
			defer cancel()

			chain, schedule, err := a.readSchedule(ctx, chainID, op.Kind())
			if err != nil {
				return err
			}

			resolver := fees.NewResolver()
			resolver.Store(chain.ID, op.Kind(), schedule)
			tier, fee, err := resolver.Quote(op, chain.ID, q)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s of %s on %s: %s tier, %s %s\n",
				op, q, chain.DisplayName, tier, utils.FormatEther(fee), chain.NativeCurrency.Symbol)
			return nil
		},
	}

	cmd.Flags().StringVar(&chainID, "chain", "sepolia", "Chain id from the registry")
	cmd.Flags().StringVar(&operation, "operation", string(fees.TokenDeploy), "Operation to quote")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Supply or number of NFTs")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}
