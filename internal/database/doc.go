// Package database provides SQLite-based crawl history for sitecrawl.
//
// CrawlDB stores every finished crawl in three tables:
//   - crawls: one row per crawl with its seed, host, timing and counters
//   - crawl_urls: the URLs discovered by a crawl
//   - crawl_failures: the pages that could not be fetched, with the reason
//
// The crawler never reads this data back. It exists so the history and
// compare commands can report on earlier runs.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// database is a single file under the XDG data directory and the binary
// cross-compiles without a C toolchain. WAL mode is enabled by default.
package database
