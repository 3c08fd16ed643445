package report

import (
	"io"

	"github.com/nao1215/sitecrawl/internal/model"
)

// Writer defines the interface for report output.
// Each method returns the number of bytes written and any error encountered.
type Writer interface {
	// Write outputs one crawl result.
	Write(result *model.CrawlResult) (int, error)

	// WriteDiff outputs the comparison of two crawls of the same host.
	WriteDiff(diff *model.Diff) (int, error)

	// WriteHistory outputs a list of stored crawls, newest first.
	WriteHistory(crawls []model.CrawlSummary) (int, error)
}

// MultiWriter writes to multiple Writers in order and stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
func (m *MultiWriter) Write(result *model.CrawlResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(result) })
}

// WriteDiff outputs the diff to all configured Writers.
func (m *MultiWriter) WriteDiff(diff *model.Diff) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDiff(diff) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(crawls []model.CrawlSummary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(crawls) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeFormat is the timestamp layout used by the text and Markdown writers.
const timeFormat = "2006-01-02 15:04:05 MST"

// statusText describes how a crawl ended.
func statusText(cancelled bool, failures int) string {
	switch {
	case cancelled:
		return "Cancelled (partial results)"
	case failures > 0:
		return "Complete with failures"
	default:
		return "Complete"
	}
}
