package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/model"
)

// ErrNoResult is returned by steps that need a crawl result when the job
// has none.
var ErrNoResult = errors.New("job has no crawl result")

// SessionFactory builds a fresh crawl session for a seed URL.
// Construction errors (for example crawler.ErrInvalidSeedURL) stop the job.
type SessionFactory func(seed string) (*crawler.Session, error)

// ResultStore persists finished crawl results. *database.CrawlDB implements it.
type ResultStore interface {
	SaveCrawlResult(ctx context.Context, result *model.CrawlResult) (int64, error)
}

// CrawlStep crawls the job's seed with a new session.
type CrawlStep struct {
	factory SessionFactory
	logger  *slog.Logger
}

// NewCrawlStep creates a crawl step that builds sessions with factory.
func NewCrawlStep(factory SessionFactory, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{factory: factory, logger: logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls the seed. When the crawl is cancelled the partial result is
// still stored in the job and the context error is returned.
func (s *CrawlStep) Do(ctx context.Context, job *Job) error {
	session, err := s.factory(job.Seed)
	if err != nil {
		return err
	}

	result, err := session.Crawl(ctx)
	job.Result = result
	if err != nil {
		return err
	}

	s.logger.Debug("crawl step completed",
		"seed", session.Seed(),
		"urls", len(result.URLs),
		"failures", len(result.Failures),
	)
	return nil
}

// SaveStep stores the crawl result in the history.
type SaveStep struct {
	store  ResultStore
	logger *slog.Logger
}

// NewSaveStep creates a save step writing to store.
func NewSaveStep(store ResultStore, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the job's result and records the assigned ID.
// Cancelled crawls are not stored.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if job.Result == nil {
		return ErrNoResult
	}
	if job.Result.Cancelled {
		s.logger.Debug("not saving cancelled crawl", "seed", job.Result.Seed)
		return nil
	}

	id, err := s.store.SaveCrawlResult(ctx, job.Result)
	if err != nil {
		return err
	}
	job.CrawlID = id

	s.logger.Debug("crawl saved", "id", id, "host", job.Result.Host)
	return nil
}

// DefaultPipeline creates the crawl pipeline used by the CLI: a crawl step
// followed by a save step when store is not nil.
func DefaultPipeline(factory SessionFactory, store ResultStore, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddStep(NewCrawlStep(factory, p.logger))
	if store != nil {
		p.AddStep(NewSaveStep(store, p.logger))
	}
	return p
}
