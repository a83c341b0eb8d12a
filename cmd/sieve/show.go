package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sieve/internal/cli"
)

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Render a schema's documentation",
	Long:  `Renders the documentation page of the named schema in the terminal, or lists the catalog when no name is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return cli.RunShow(cmd.Context(), globalOptions(cmd), name)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
