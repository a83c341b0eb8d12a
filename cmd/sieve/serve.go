package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/internal/cli"
	"github.com/aretw0/sieve/internal/presentation/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	Long:  `Starts the Sieve engine in server mode, exposing the schema catalog and cleaning endpoint as a JSON API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		metrics, _ := cmd.Flags().GetBool("metrics")

		report.PrintBanner(sieve.Version)

		return cli.RunServe(cli.ServeOptions{
			GlobalOptions: globalOptions(cmd),
			Port:          port,
			Metrics:       metrics,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics at /metrics")
}
