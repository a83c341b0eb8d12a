package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sieve/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every schema document for consistency",
	Long:  `Decodes every schema document in the catalog and verifies its structure, reporting the first broken definition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunValidate(cmd.Context(), globalOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
