// Package main provides the entry point for the sitecrawl CLI.
//
// sitecrawl discovers every page of a website that is reachable from a seed
// URL through host-relative links. Crawls are concurrent and confined to the
// seed's host.
//
// Usage:
//
//	sitecrawl crawl <url>...
//	sitecrawl repl
//
// See --help for all available options.
package main

// main is the entry point for sitecrawl.
func main() {
	Execute()
}
