package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/nao1215/sitecrawl/internal/urlutil"
)

// defaultHistoryLimit is the number of crawls listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [host]",
		Short: "List stored crawls",
		Long: `History lists the crawls stored by 'sitecrawl crawl'.

Without an argument it lists every host in the history. With a host (or any
URL on that host) it lists that host's crawls, newest first.

Examples:
  # List crawled hosts
  sitecrawl history

  # List the last 5 crawls of a host
  sitecrawl history --limit 5 www.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of crawls to list (0 = all)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, markdownOutput, err := getFormatFlags(cmd)
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return listHosts(ctx, out, db, jsonOutput)
	}

	host := hostArg(args[0])
	crawls, err := db.GetCrawlHistory(ctx, host, limit)
	if err != nil {
		return fmt.Errorf("failed to get crawl history: %w", err)
	}

	_, err = formatWriter(out, jsonOutput, markdownOutput).WriteHistory(crawls)
	return err
}

// listHosts prints every host with stored crawls.
func listHosts(ctx context.Context, out io.Writer, db *database.CrawlDB, jsonOutput bool) error {
	hosts, err := db.ListHosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hosts: %w", err)
	}

	if jsonOutput {
		if hosts == nil {
			hosts = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hosts)
	}

	if len(hosts) == 0 {
		fmt.Fprintln(out, "No crawls found in the history.")
		fmt.Fprintln(out, "\nUse 'sitecrawl crawl <url>' to crawl a site.")
		return nil
	}

	fmt.Fprintf(out, "Crawled hosts (%d):\n\n", len(hosts))
	for _, host := range hosts {
		fmt.Fprintf(out, "  %s\n", host)
	}
	fmt.Fprintln(out, "\nUse 'sitecrawl history <host>' to see the crawls of a host.")
	return nil
}

// getFormatFlags reads and checks the --json and --markdown flags.
func getFormatFlags(cmd *cobra.Command) (jsonOutput, markdownOutput bool, err error) {
	if jsonOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return false, false, err
	}
	if markdownOutput, err = cmd.Flags().GetBool("markdown"); err != nil {
		return false, false, err
	}
	if jsonOutput && markdownOutput {
		return false, false, config.ErrConflictingReportFormats
	}
	return jsonOutput, markdownOutput, nil
}

// formatWriter returns the report writer for the selected output format.
func formatWriter(out io.Writer, jsonOutput, markdownOutput bool) report.Writer {
	switch {
	case jsonOutput:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}

// openHistoryDB opens the existing history database selected by --db-dir.
func openHistoryDB(cmd *cobra.Command) (*database.CrawlDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// hostArg accepts either a bare host or a URL and returns the host.
func hostArg(arg string) string {
	if host, err := urlutil.HostOf(urlutil.Normalize(arg)); err == nil {
		return host
	}
	return arg
}
