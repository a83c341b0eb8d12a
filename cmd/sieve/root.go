package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sieve/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "sieve",
	Short: "Sieve validates and coerces data against named schemas",
	Long: `Sieve cleans loosely-typed data (form input, CSV exports, LLM output)
against declarative schema documents: it validates the shape, coerces every
scalar to its proper type, and reports failures with a trace naming the
exact path that was rejected.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the schema documents")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL to read schema definitions from (overrides --dir)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// globalOptions collects the persistent flags into the options struct the
// run functions take.
func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	dir, _ := cmd.Flags().GetString("dir")
	redisURL, _ := cmd.Flags().GetString("redis")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.GlobalOptions{Dir: dir, RedisURL: redisURL, Debug: debug}
}
