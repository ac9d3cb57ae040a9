package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "textkit",
	Short: "Text toolkit - numbers, delimited spans and rewrite tables",
	Long: `textkit parses numeric tokens, extracts escape-aware delimited spans and
rewrites text with ordered pattern tables.

Quick start:
  textkit number 0x1f 1.25 3+3i              # Parse numeric tokens
  textkit extract 'say "a \" b" now'          # Body of the first quoted span
  textkit rewrite --rules rules.yaml "text"   # Rewrite to a fixed point
  textkit capture -- ls --color=always        # Run in a PTY, strip ANSI
  textkit mcp                                 # Serve tools over stdio`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug diagnostics to stderr")

	rootCmd.AddCommand(numberCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(unhexdumpCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
