package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// SimpleWriter outputs plain text. By default a crawl result is printed as
// one discovered URL per line, which keeps the output pipeable.
type SimpleWriter struct {
	baseWriter

	// summary adds a header and the failure list around the URL list.
	summary bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary adds a header block and a failure section to crawl results.
func WithSummary(summary bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = summary
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the crawl result.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder

	if w.summary {
		w.writeHeader(&sb, result)
	}

	for _, u := range result.URLs {
		sb.WriteString(u)
		sb.WriteString("\n")
	}

	if w.summary && len(result.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for _, f := range result.Failures {
			fmt.Fprintf(&sb, "  %s: %s\n", f.URL, f.Reason)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the summary block of a crawl result.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Seed:          %s\n", result.Seed)
	fmt.Fprintf(sb, "Host:          %s\n", result.Host)
	fmt.Fprintf(sb, "Started:       %s\n", result.StartedAt.Format(timeFormat))
	fmt.Fprintf(sb, "Duration:      %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(sb, "URLs:          %d\n", len(result.URLs))
	fmt.Fprintf(sb, "Pages Fetched: %d\n", result.PagesFetched)
	fmt.Fprintf(sb, "Failures:      %d\n", len(result.Failures))
	fmt.Fprintf(sb, "Status:        %s\n", statusText(result.Cancelled, len(result.Failures)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// WriteDiff outputs added URLs prefixed with "+" and removed URLs with "-".
func (w *SimpleWriter) WriteDiff(diff *model.Diff) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Host: %s\n", diff.Host)
	if diff.Base != nil {
		fmt.Fprintf(&sb, "Base:   %s (%d urls)\n", diff.Base.StartedAt.Format(timeFormat), len(diff.Base.URLs))
	}
	if diff.Target != nil {
		fmt.Fprintf(&sb, "Target: %s (%d urls)\n", diff.Target.StartedAt.Format(timeFormat), len(diff.Target.URLs))
	}
	sb.WriteString("\n")

	if !diff.HasChanges() {
		sb.WriteString("No changes.\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, u := range diff.Added {
		fmt.Fprintf(&sb, "+ %s\n", u)
	}
	for _, u := range diff.Removed {
		fmt.Fprintf(&sb, "- %s\n", u)
	}
	fmt.Fprintf(&sb, "\n%d added, %d removed\n", len(diff.Added), len(diff.Removed))

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs one line per stored crawl.
func (w *SimpleWriter) WriteHistory(crawls []model.CrawlSummary) (int, error) {
	if len(crawls) == 0 {
		return io.WriteString(w.output, "No crawls found.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-23s %6s %6s %8s  %s\n", "ID", "STARTED", "URLS", "FAILED", "DURATION", "SEED")
	for _, c := range crawls {
		seed := c.Seed
		if c.Cancelled {
			seed += " (cancelled)"
		}
		fmt.Fprintf(&sb, "%-6d %-23s %6d %6d %8s  %s\n",
			c.ID,
			c.StartedAt.Format(timeFormat),
			c.URLCount,
			c.FailureCount,
			c.Duration.Round(time.Second),
			seed,
		)
	}
	return io.WriteString(w.output, sb.String())
}
