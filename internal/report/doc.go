// Package report renders crawl results, crawl comparisons and crawl history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text, one discovered URL per line
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//
// Writers implement the Writer interface, so the CLI selects one from its
// flags and uses it without knowing the format.
package report
