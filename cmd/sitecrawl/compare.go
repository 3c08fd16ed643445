package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/model"
)

// errNotEnoughCrawls is returned when a host has fewer than two stored crawls.
var errNotEnoughCrawls = errors.New("at least two stored crawls are needed to compare")

// NewCompareCmd creates the compare command.
// This command compares two stored crawls of the same host.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <host>",
		Short: "Compare two stored crawls of a host",
		Long: `Compare shows which URLs appeared or disappeared between two crawls of the
same host stored in the history.

By default the two most recent crawls are compared. Use --base and --target
with the IDs shown by 'sitecrawl history <host>' to pick specific crawls.

Examples:
  # Compare the latest two crawls
  sitecrawl compare www.example.com

  # Compare crawl 3 with the latest crawl
  sitecrawl compare --base 3 www.example.com

  # Output the comparison as Markdown
  sitecrawl compare --markdown www.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64("base", 0,
		"ID of the older crawl (default: second most recent)")
	cmd.Flags().Int64("target", 0,
		"ID of the newer crawl (default: most recent)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	baseID, err := cmd.Flags().GetInt64("base")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetInt64("target")
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

	host := hostArg(args[0])
	base, target, err := selectCrawls(cmd.Context(), db, host, baseID, targetID)
	if err != nil {
		return err
	}

	_, err = formatWriter(cmd.OutOrStdout(), jsonOutput, markdownOutput).WriteDiff(model.Compare(base, target))
	return err
}

// selectCrawls loads the two crawls to compare. IDs of zero select the
// most recent crawls of host.
func selectCrawls(ctx context.Context, db *database.CrawlDB, host string, baseID, targetID int64) (*model.CrawlResult, *model.CrawlResult, error) {
	recent, err := db.GetRecentCrawlResults(ctx, host, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load crawls: %w", err)
	}

	var base, target *model.CrawlResult
	switch {
	case targetID != 0:
		if target, err = loadCrawl(ctx, db, host, targetID); err != nil {
			return nil, nil, err
		}
	case len(recent) > 0:
		target = recent[0]
	}

	switch {
	case baseID != 0:
		if base, err = loadCrawl(ctx, db, host, baseID); err != nil {
			return nil, nil, err
		}
	case len(recent) > 1:
		base = recent[1]
	}

	if base == nil || target == nil {
		return nil, nil, fmt.Errorf("%w (host %s)", errNotEnoughCrawls, host)
	}
	return base, target, nil
}

// loadCrawl loads a crawl by ID and checks that it belongs to host.
func loadCrawl(ctx context.Context, db *database.CrawlDB, host string, id int64) (*model.CrawlResult, error) {
	result, err := db.GetCrawlResult(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.Host != host {
		return nil, fmt.Errorf("crawl %d belongs to %s, not %s", id, result.Host, host)
	}
	return result, nil
}
