// Package crawler discovers every same-host page reachable from a seed URL.
//
// # Architecture
//
// A crawl is driven by a Session. The session owns four pieces of state that
// are shared by its worker goroutines for the lifetime of one crawl:
//
//   - DedupStore: the set of URLs ever admitted, with an atomic Admit
//   - Frontier: a bounded FIFO of URLs awaiting a fetch, plus the
//     outstanding-work counter used for termination
//   - an active-worker counter, kept for inspection
//   - the failures reported by the page processor
//
// The dispatcher pops URLs from the Frontier and starts one goroutine per URL.
// Each goroutine runs the page processor: fetch, extract links, keep host
// relative hrefs, rewrite them to absolute URLs, admit and push the new ones.
//
// # Termination
//
// Every Push increments the outstanding-work counter before the URL is
// queued, and every processed URL decrements it exactly once after all of its
// children have been pushed. The decrement that brings the counter to zero
// closes the Frontier, which ends the dispatcher loop. No other path closes
// the queue.
//
// # Collaborators
//
// Fetching and link extraction are behind the Fetcher and LinkExtractor
// interfaces. HTTPFetcher and HTMLExtractor are the production
// implementations; tests substitute in-memory fakes.
//
// # Usage
//
//	session, err := crawler.New("www.example.com", crawler.WithConcurrency(8))
//	if err != nil {
//		return err
//	}
//	result, err := session.Crawl(ctx)
package crawler
