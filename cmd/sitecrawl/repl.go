package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/pipeline"
)

// Interactive loop strings.
const (
	replPrompt   = "Enter a URL: "
	replExit     = "exit"
	replGoodbye  = "Exiting program..."
	replURLsHead = "URLs for %s: \n"
)

// NewReplCmd creates the interactive crawl command.
func NewReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read URLs interactively and crawl each one",
		Long: `Repl reads one URL per line and crawls it, printing every discovered URL.
Type "exit" to quit. An invalid URL prints an error and the loop continues.

Crawls started from the interactive loop are not stored in history.
Ctrl-C interrupts the running crawl and prints what was found so far.`,
		Args: cobra.NoArgs,
		RunE: runReplCmd,
	}

	addSessionFlags(cmd)

	return cmd
}

// runReplCmd executes the repl command.
func runReplCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormatFlag(cmd)
	if err := readSessionFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.ValidateSettings(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	factory := newSessionFactory(cfg, newLogger(cmd, cfg))
	return runRepl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), factory)
}

// runRepl runs the read-crawl-print loop until "exit" or end of input.
func runRepl(ctx context.Context, in io.Reader, out io.Writer, factory pipeline.SessionFactory) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, replPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == replExit {
			fmt.Fprintln(out, replGoodbye)
			return nil
		}
		if input == "" {
			continue
		}

		session, err := factory(input)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(out, replURLsHead, input)
		urls, err := crawlInterruptible(ctx, session.Crawl)
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		if err != nil {
			fmt.Fprintf(out, "Crawl interrupted: %v\n", err)
		}
	}
}

// crawlInterruptible runs crawl with a context that Ctrl-C cancels. The
// signal handler is removed afterwards so Ctrl-C at the prompt still quits.
func crawlInterruptible(ctx context.Context, crawl func(context.Context) (*model.CrawlResult, error)) ([]string, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := crawl(ctx)
	if result == nil {
		return nil, err
	}
	return result.URLs, err
}
