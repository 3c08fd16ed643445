package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of seeds crawled at once when no
// limit is configured.
const DefaultBatchConcurrency = 4

// BatchProcessor crawls several seeds concurrently, one pipeline per seed.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each seed.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent crawls.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawls.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per seed so no step state leaks between crawls.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch crawls every seed and returns one job per seed, in input
// order. A failing seed does not stop the others; its error is kept in
// Job.Err. The returned error is non-nil only when ctx ended.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seeds []string) ([]*Job, error) {
	jobs := make([]*Job, len(seeds))
	for i, seed := range seeds {
		jobs[i] = NewJob(seed)
	}

	err := bp.run(ctx, jobs, nil)
	return jobs, err
}

// ProcessBatchWithCallback crawls every seed and calls callback with each
// finished job and its index in seeds. The callback runs on the goroutine
// that finished the job and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	seeds []string,
	callback func(job *Job, index int),
) error {
	jobs := make([]*Job, len(seeds))
	for i, seed := range seeds {
		jobs[i] = NewJob(seed)
	}
	return bp.run(ctx, jobs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, jobs []*Job, callback func(*Job, int)) error {
	bp.logger.Info("starting batch crawl",
		"total_seeds", len(jobs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				job.Err = gctx.Err()
				return gctx.Err()
			default:
			}

			bp.logger.Info("crawling seed",
				"seed", job.Seed,
				"index", i+1,
				"total", len(jobs),
			)

			// Each job keeps its own error; the batch goes on.
			if err := bp.pipelineFactory().Execute(gctx, job); err != nil {
				bp.logger.Warn("crawl failed", "seed", job.Seed, "error", err)
			}

			if callback != nil {
				callback(job, i)
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // only cancellation is reported, below

	bp.logger.Info("batch crawl complete",
		"total_seeds", len(jobs),
		"elapsed", time.Since(startTime),
	)
	return ctx.Err()
}
