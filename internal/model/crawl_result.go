package model

import (
	"sort"
	"time"
)

// CrawlResult is the outcome of one crawl session.
// It is produced by crawler.Session.Crawl and consumed by the report writers
// and the history database.
type CrawlResult struct {
	// Seed is the normalized seed URL the crawl started from.
	Seed string `json:"seed"`

	// Host is the authority every discovered URL shares with the seed.
	Host string `json:"host"`

	// URLs is every URL discovered during the crawl, including the seed,
	// sorted lexicographically. Each URL appears exactly once. Pages whose
	// fetch failed are listed in Failures instead.
	URLs []string `json:"urls"`

	// Failures lists pages whose fetch failed.
	Failures []PageFailure `json:"failures,omitempty"`

	// PagesFetched is the number of pages whose body was fetched successfully.
	PagesFetched int `json:"pages_fetched"`

	// StartedAt is when Crawl was invoked.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock time of the crawl.
	Duration time.Duration `json:"duration"`

	// Cancelled is true when the crawl stopped because its context ended.
	// URLs then holds whatever had been admitted up to that point.
	Cancelled bool `json:"cancelled"`
}

// PageFailure records a page whose fetch failed.
type PageFailure struct {
	// URL is the page that failed.
	URL string `json:"url"`

	// Reason is a human-readable description of the failure.
	Reason string `json:"reason"`
}

// NewCrawlResult creates an empty result for the given seed and host.
func NewCrawlResult(seed, host string) *CrawlResult {
	return &CrawlResult{
		Seed:      seed,
		Host:      host,
		URLs:      []string{},
		StartedAt: time.Now(),
	}
}

// Contains reports whether u was discovered by the crawl.
func (r *CrawlResult) Contains(u string) bool {
	i := sort.SearchStrings(r.URLs, u)
	return i < len(r.URLs) && r.URLs[i] == u
}

// FailedCount returns the number of pages that failed to fetch.
func (r *CrawlResult) FailedCount() int {
	return len(r.Failures)
}
