// Package model defines the data structures shared by the crawler, the
// report writers and the crawl history database.
//
// This package contains the following main types:
//   - CrawlResult: The outcome of one crawl session
//   - PageFailure: A page that could not be fetched during a crawl
//   - Diff: The difference between two crawls of the same host
//
// The models are serializable to JSON for report output and are flattened
// into rows by the database package.
package model
