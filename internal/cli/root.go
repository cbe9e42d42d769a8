// Package cli implements the foundry command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freeeve/foundry/internal/logger"
)

var verbose bool

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foundry",
		Short: "foundry - exact branch-and-bound production planner",
		Long: `foundry finds the most geodes a robot factory blueprint can crack within a
time horizon, and the most pressure a valve network can release.

Examples:
  foundry blueprints input.txt
  foundry blueprints input.txt --horizon 32 --first 3 --parallel
  foundry valves network.txt --minutes 30
  foundry token --subject ci --ttl 24h`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.InitWriter(level, os.Stderr)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log search statistics to stderr")

	rootCmd.AddCommand(NewBlueprintsCommand())
	rootCmd.AddCommand(NewValvesCommand())
	rootCmd.AddCommand(NewTokenCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
