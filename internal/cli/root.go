// Package cli wires configuration, providers and the question loop behind
// the docqa command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"docqa/internal/logger"
)

var (
	cfgPath string
	topK    int
	useTUI  bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa [url]",
	Short: "Ask questions about a markdown document",
	Long: `Downloads a markdown document, splits it into overlapping chunks,
embeds them into an in-memory index and answers questions with a chat model
using the most relevant chunks as context.

Without a URL argument or source.url in the config file, the URL is read
from standard input. Type "exit" to quit.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
	},
	RunE: runAsk,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (.yaml or .toml; default ./docqa.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of chunks used as context (default from config)")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "use the interactive terminal UI")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
