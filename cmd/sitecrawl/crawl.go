package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/pipeline"
	"github.com/nao1215/sitecrawl/internal/report"
)

// errCrawlsFailed is returned when at least one seed could not be crawled.
var errCrawlsFailed = errors.New("some crawls failed")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>...",
		Short: "Crawl one or more websites and list the discovered URLs",
		Long: `Crawl fetches the seed URL, follows every link whose href starts with "/",
and prints each discovered URL once. Only the seed's host is crawled.

A seed without a scheme is prefixed with "http://". Pages that fail to load
are reported as diagnostics and left out of the URL list.

Examples:
  # Crawl a single site
  sitecrawl crawl www.example.com

  # Crawl several sites, two at a time
  sitecrawl crawl --batch 2 site-a.example site-b.example site-c.example

  # Bound simultaneous fetches and stop after 500 URLs
  sitecrawl crawl --concurrency 8 --max-pages 500 www.example.com

  # Write a Markdown report without storing the crawl in history
  sitecrawl crawl --markdown -o report.md --no-save www.example.com

Configuration file (.sitecrawl) example:
  defaults:
    ignorePatterns:
      - "/static/*"
  sites:
    www.example.com:
      cookie: "session=abc123"
      headers:
        Authorization: "Bearer token"
      followPatterns:
        - "/docs/*"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	addSessionFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sites crawled at the same time")
	cmd.Flags().Bool("no-save", false,
		"Do not store the crawl in history")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().BoolP("summary", "s", false,
		"Add a summary header and failure list to the text output")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cmd, cfg, summary, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormatFlag(cmd)

	if err := readSessionFlags(cmd, cfg); err != nil {
		return nil, err
	}

	var err error
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	cfg.Targets = args
	return cfg, nil
}

// runCrawl crawls every target and writes one report per finished crawl.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, summary bool, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var store pipeline.ResultStore
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		store = db
		logger.Info("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cmd.OutOrStdout(), cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(output, cfg, summary)
	factory := newSessionFactory(cfg, logger)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(factory, store, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var (
		mu     sync.Mutex
		failed int
	)
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(job *pipeline.Job, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if job.Err != nil && !errors.Is(job.Err, context.Canceled) {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "crawl error for %s: %v\n", job.Seed, job.Err)
		}
		if job.Result == nil {
			return
		}
		if _, err := writer.Write(job.Result); err != nil {
			logger.Error("report failed", "seed", job.Seed, "error", err)
		}
	})

	if batchErr != nil {
		return fmt.Errorf("crawl interrupted: %w", batchErr)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errCrawlsFailed, failed, len(cfg.Targets))
	}
	return nil
}

// newReportWriter selects the report format requested by cfg.
func newReportWriter(output io.Writer, cfg *config.Config, summary bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithSummary(summary))
	}
}

// openOutput returns the report destination: path when set, otherwise
// stdout. The returned function closes the file.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain session URLs, so they are readable by the owner only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
