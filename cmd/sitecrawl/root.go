package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/config"
	sclog "github.com/nao1215/sitecrawl/internal/log"
)

// NewRootCmd creates the root command for sitecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecrawl",
		Short: "Concurrent same-host web crawler",
		Long: `sitecrawl discovers the pages of a website by following host-relative
links ("/path") from a seed URL. Pages are fetched concurrently, each URL is
visited at most once, and the crawl ends when no work is left.

Finished crawls are stored in a local history so they can be listed and
compared later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.LogFormatText,
		"Log output format: text or json")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReplCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.LogFormatText
		}
	}
	return format
}

// newLogger creates the credential-masking logger for cfg. Logs go to the
// command's error stream so reports on stdout stay clean.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return sclog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
}
