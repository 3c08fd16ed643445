package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Job is one seed URL travelling through a pipeline.
type Job struct {
	// Seed is the seed URL as given by the user.
	Seed string

	// Result is the crawl result. It is set by the crawl step, also when
	// the crawl was cancelled.
	Result *model.CrawlResult

	// CrawlID is the history ID assigned by the save step, zero if the
	// result was not stored.
	CrawlID int64

	// Err is the error that stopped the pipeline, if any.
	Err error

	// Performed lists the names of the steps that ran.
	Performed []string
}

// NewJob creates a job for the given seed.
func NewJob(seed string) *Job {
	return &Job{Seed: seed}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the job updated by the
// previous ones.
type Step interface {
	// Do executes the step. A returned error is recorded in the job.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError keeps executing steps after one fails.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails. The first error is still recorded in the job.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; a running step handles its own.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"seed", job.Seed,
				"reason", ctx.Err(),
			)
			if job.Err == nil {
				job.Err = ctx.Err()
			}
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"seed", job.Seed,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"seed", job.Seed,
				"error", err,
			)

			if job.Err == nil {
				job.Err = err
			}
			if !p.continueOnError {
				return err
			}
		}

		job.Performed = append(job.Performed, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
