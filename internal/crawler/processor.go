package crawler

import (
	"context"
	"errors"

	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/urlutil"
)

// Process runs the page processor for one URL: fetch it, extract its links,
// keep host-relative hrefs that pass the path filter, rewrite them to
// "http://<host><href>" and push every newly admitted one onto the frontier.
//
// Failures are contained: they are logged and recorded, never returned.
// Crawl calls Process once per dequeued URL; it may also be called directly
// to expand a single page.
func (s *Session) Process(ctx context.Context, pageURL string) {
	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.reportFailure(ctx, pageURL, err)
		return
	}
	s.fetched.Add(1)

	for _, href := range s.extractor.Extract(body) {
		if !isHostRelative(href) || !s.filter.Allow(href) {
			continue
		}

		link := urlutil.HTTPPrefix + s.host + href
		if !s.dedup.Admit(link) {
			continue
		}
		if err := s.frontier.Push(ctx, link); err != nil {
			return
		}
		s.logger.Debug("url discovered", "url", link, "from", pageURL)
	}
}

// fetch calls the Fetcher, holding a semaphore slot when concurrency is bounded.
func (s *Session) fetch(ctx context.Context, pageURL string) (string, error) {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer s.sem.Release(1)
	}
	return s.fetcher.Fetch(ctx, pageURL)
}

// reportFailure logs a failed page and records it in the session. Fetches
// aborted by cancellation and non-HTML pages are not failures.
func (s *Session) reportFailure(ctx context.Context, pageURL string, err error) {
	if ctx.Err() != nil {
		s.logger.Debug("fetch cancelled", "url", pageURL)
		return
	}
	if errors.Is(err, ErrNotHTML) {
		s.logger.Debug("skipping non-html page", "url", pageURL, "error", err)
		return
	}

	s.logger.Warn("page fetch failed", "url", pageURL, "error", err)

	s.failMu.Lock()
	s.failures = append(s.failures, model.PageFailure{URL: pageURL, Reason: err.Error()})
	s.failMu.Unlock()
}
