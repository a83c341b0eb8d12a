package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sieve/internal/cli"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <data-file>",
	Short: "Validate and coerce a value against a schema",
	Long: `Reads a value from a JSON or YAML file (or stdin with "-"), cleans it
against the named schema and prints the coerced result. A validation failure
renders a report with the offending value, the reason and the path trace, and
exits non-zero.`,
	Args: cobra.ExactArgs(1),
	// Failures already render as a report; cobra should not repeat them.
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaName, _ := cmd.Flags().GetString("schema")
		jsonOut, _ := cmd.Flags().GetBool("json")

		return cli.RunClean(cmd.Context(), cli.CleanOptions{
			GlobalOptions: globalOptions(cmd),
			Schema:        schemaName,
			DataFile:      args[0],
			JSON:          jsonOut,
		})
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringP("schema", "s", "", "Name of the schema to clean against")
	cleanCmd.Flags().Bool("json", false, "Print the raw coerced JSON without report styling")
	_ = cleanCmd.MarkFlagRequired("schema")
}
