package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChainsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the supported networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, color.New(color.Bold).Sprint("ID\tNAME\tCHAIN ID\tERC20 FACTORY\tERC721 FACTORY\tRPC"))
			for _, c := range a.chains.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.DisplayName, c.ChainIDHex,
					c.FungibleFactoryAddress.Hex(), c.NonFungibleFactoryAddress.Hex(), c.RPCEndpoint)
			}
			return w.Flush()
		},
	}
}
