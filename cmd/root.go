// Package cmd provides the command-line interface of logicsim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "logicsim",
		Short: "logicsim simulates digital circuits built from gates and plexers.",
		Long: `logicsim simulates digital circuits built from gates and plexers. ` +
			`It can run the plexer demos, report component statistics and ` +
			`serve a monitoring page for a running simulation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	opts.addFlags(rootCmd)

	rootCmd.AddCommand(newPlexerCmd(opts, demuxCommand))
	rootCmd.AddCommand(newPlexerCmd(opts, muxCommand))
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
