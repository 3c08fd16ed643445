package model

import "time"

// CrawlSummary is one stored crawl without its URL list, as listed by the
// history command.
type CrawlSummary struct {
	// ID is the database identifier of the crawl.
	ID int64 `json:"id"`

	// Seed is the normalized seed URL.
	Seed string `json:"seed"`

	// Host is the crawled host.
	Host string `json:"host"`

	// StartedAt is when the crawl started.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the crawl took.
	Duration time.Duration `json:"duration"`

	// PagesFetched is the number of pages fetched successfully.
	PagesFetched int `json:"pages_fetched"`

	// URLCount is the number of URLs discovered.
	URLCount int `json:"url_count"`

	// FailureCount is the number of pages that failed.
	FailureCount int `json:"failure_count"`

	// Cancelled is true when the crawl was interrupted.
	Cancelled bool `json:"cancelled"`
}

// Summarize returns the summary of a finished crawl. The ID is left zero.
func (r *CrawlResult) Summarize() CrawlSummary {
	return CrawlSummary{
		Seed:         r.Seed,
		Host:         r.Host,
		StartedAt:    r.StartedAt,
		Duration:     r.Duration,
		PagesFetched: r.PagesFetched,
		URLCount:     len(r.URLs),
		FailureCount: len(r.Failures),
		Cancelled:    r.Cancelled,
	}
}
