package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/circuitc/internal/network"
)

func newNetworksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List the built-in network profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range network.Builtin() {
				marker := " "
				if p.Name == network.DefaultName {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, p)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "circuitc v%s (%s)\n", version, commit)
			fmt.Fprintf(cmd.OutOrStdout(), "protocols %s\n", network.SupportedProtocols)
		},
	}
}
