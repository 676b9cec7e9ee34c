package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kapildev5262/Token-World/config"
	"github.com/kapildev5262/Token-World/services/provider"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	var (
		index    int
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the address of the local HD wallet",
		Long: `Show the account the dev wallet signs with.

The mnemonic is read from DEV_WALLET_MNEMONIC. With --new a fresh
mnemonic is generated and printed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic := config.WalletConfig().DevMnemonic
			if generate {
				var err error
				if mnemonic, err = provider.NewMnemonic(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.YellowString("mnemonic:"), mnemonic)
			}
			if mnemonic == "" {
				return fmt.Errorf("DEV_WALLET_MNEMONIC is not set, pass --new to generate one")
			}

			address, _, err := provider.DeriveAccount(mnemonic, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "m/44'/60'/0'/0/%d %s\n", index, address.Hex())
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "Account index on the derivation path")
	cmd.Flags().BoolVar(&generate, "new", false, "Generate a new mnemonic")

	return cmd
}
