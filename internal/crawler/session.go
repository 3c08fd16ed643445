package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/urlutil"
)

// Session is one crawl of one seed. It is created by New, run once with
// Crawl and then discarded. Sessions share no state with each other, so any
// number may run concurrently.
type Session struct {
	// seed is the normalized seed URL.
	seed string

	// host is the authority of seed. Every discovered URL is built on it.
	host string

	fetcher   Fetcher
	extractor LinkExtractor
	logger    *slog.Logger
	filter    *PathFilter

	queueCapacity int
	concurrency   int
	maxPages      int

	dedup    *DedupStore
	frontier *Frontier

	// sem bounds simultaneous Fetcher calls. Nil means unbounded.
	sem *semaphore.Weighted

	// active counts page processors currently running.
	active atomic.Int64

	// fetched counts successful fetches.
	fetched atomic.Int64

	failMu   sync.Mutex
	failures []model.PageFailure

	used atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithFetcher replaces the default HTTPFetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Session) {
		s.fetcher = f
	}
}

// WithExtractor replaces the default HTMLExtractor.
func WithExtractor(e LinkExtractor) Option {
	return func(s *Session) {
		s.extractor = e
	}
}

// WithLogger sets the logger for crawl progress and page failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithQueueCapacity sets the frontier capacity.
func WithQueueCapacity(n int) Option {
	return func(s *Session) {
		s.queueCapacity = n
	}
}

// WithConcurrency bounds the number of simultaneous fetches.
// Zero keeps one unbounded goroutine per dequeued URL.
func WithConcurrency(n int) Option {
	return func(s *Session) {
		s.concurrency = n
	}
}

// WithMaxPages caps the number of URLs admitted, seed included.
// Zero means unlimited.
func WithMaxPages(n int) Option {
	return func(s *Session) {
		s.maxPages = n
	}
}

// WithIgnorePatterns sets path patterns whose links are never admitted.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) Option {
	return func(s *Session) {
		s.filter.ignore = patterns
	}
}

// WithFollowPatterns restricts admission to links matching at least one
// pattern. Empty means all links are allowed (subject to ignore patterns).
func WithFollowPatterns(patterns []string) Option {
	return func(s *Session) {
		s.filter.follow = patterns
	}
}

// New creates a session for seedURL. The seed is normalized once, here, and
// must then be a well-formed URI with a host; otherwise the returned error
// wraps ErrInvalidSeedURL.
func New(seedURL string, opts ...Option) (*Session, error) {
	seed := urlutil.Normalize(seedURL)
	if !urlutil.Validate(seed) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeedURL, seedURL)
	}
	host, err := urlutil.HostOf(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSeedURL, seedURL, err)
	}

	s := &Session{
		seed:          seed,
		host:          host,
		filter:        NewPathFilter(nil, nil),
		queueCapacity: DefaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher(nil)
	}
	if s.extractor == nil {
		s.extractor = NewHTMLExtractor()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.concurrency > 0 {
		s.sem = semaphore.NewWeighted(int64(s.concurrency))
	}

	s.dedup = NewDedupStore(s.maxPages)
	s.frontier = NewFrontier(s.queueCapacity)

	return s, nil
}

// Seed returns the normalized seed URL.
func (s *Session) Seed() string {
	return s.seed
}

// Host returns the host every discovered URL belongs to.
func (s *Session) Host() string {
	return s.host
}

// Pending returns the outstanding-work counter: queued plus in-flight URLs.
func (s *Session) Pending() int64 {
	return s.frontier.Pending()
}

// Active returns the number of page processors currently running.
func (s *Session) Active() int64 {
	return s.active.Load()
}

// Discovered returns the URLs admitted so far, sorted.
func (s *Session) Discovered() []string {
	return s.dedup.Snapshot()
}

// Failures returns the page failures reported so far.
func (s *Session) Failures() []model.PageFailure {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	out := make([]model.PageFailure, len(s.failures))
	copy(out, s.failures)
	return out
}

// Crawl discovers every same-host URL reachable from the seed and blocks
// until the frontier is drained. Page failures never abort the crawl; they
// are logged and listed in the result.
//
// If ctx ends first, Crawl stops dispatching, waits for running processors
// to return and reports what was admitted so far together with ctx.Err().
// A session can be crawled only once.
func (s *Session) Crawl(ctx context.Context) (*model.CrawlResult, error) {
	if !s.used.CompareAndSwap(false, true) {
		return nil, ErrSessionUsed
	}

	result := model.NewCrawlResult(s.seed, s.host)
	s.logger.Info("crawl started", "seed", s.seed, "host", s.host)

	s.dedup.Admit(s.seed)
	if err := s.frontier.Push(ctx, s.seed); err != nil {
		return s.finish(result, err), err
	}

	var g errgroup.Group
	for {
		pageURL, ok := s.frontier.Pop(ctx)
		if !ok {
			break
		}

		s.active.Add(1)
		g.Go(func() error {
			defer s.frontier.CloseIfDrained()
			defer s.active.Add(-1)

			s.Process(ctx, pageURL)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // processors never return errors

	err := ctx.Err()
	return s.finish(result, err), err
}

// finish fills result from the session state.
func (s *Session) finish(result *model.CrawlResult, err error) *model.CrawlResult {
	result.Failures = s.Failures()
	result.URLs = excludeFailed(s.dedup.Snapshot(), result.Failures)
	result.PagesFetched = int(s.fetched.Load())
	result.Duration = time.Since(result.StartedAt)
	result.Cancelled = err != nil

	s.logger.Info("crawl finished",
		"seed", s.seed,
		"urls", len(result.URLs),
		"fetched", result.PagesFetched,
		"failures", len(result.Failures),
		"duration", result.Duration,
		"cancelled", result.Cancelled,
	)
	return result
}

// excludeFailed drops the URLs of failed pages from a sorted snapshot.
func excludeFailed(urls []string, failures []model.PageFailure) []string {
	if len(failures) == 0 {
		return urls
	}
	failed := make(map[string]struct{}, len(failures))
	for _, f := range failures {
		failed[f.URL] = struct{}{}
	}
	out := urls[:0]
	for _, u := range urls {
		if _, ok := failed[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}
