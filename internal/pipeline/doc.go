// Package pipeline runs crawl jobs through a sequence of steps.
//
// A Job carries one seed URL. The default pipeline crawls it with a fresh
// crawler.Session and then stores the result in the crawl history. Each stage
// is a Step, so the CLI can drop the save step (--no-save) without changing
// the crawl itself.
//
// BatchProcessor runs one pipeline per seed, several at a time, using
// errgroup with a concurrency limit. Sessions never share state, so batch
// crawls are fully independent.
package pipeline
