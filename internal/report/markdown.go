package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sitecrawl/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl result.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", code(result.Seed)},
			{"Host", code(result.Host)},
			{"Started", result.StartedAt.Format(timeFormat)},
			{"Duration", result.Duration.Round(time.Millisecond).String()},
			{"URLs Discovered", strconv.Itoa(len(result.URLs))},
			{"Pages Fetched", strconv.Itoa(result.PagesFetched)},
			{"Status", statusText(result.Cancelled, len(result.Failures))},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result)
	w.writePieChart(md, result)

	md.H2("Discovered URLs")
	md.PlainText("")
	if len(result.URLs) == 0 {
		md.PlainText("No URLs discovered.")
	} else {
		md.BulletList(codeAll(result.URLs)...)
	}
	md.PlainText("")

	if len(result.Failures) > 0 {
		md.H2("Failures")
		md.PlainText("")
		rows := make([][]string, len(result.Failures))
		for i, f := range result.Failures {
			rows[i] = []string{code(f.URL), truncateString(f.Reason, 80)}
		}
		md.Table(markdown.TableSet{Header: []string{"URL", "Reason"}, Rows: rows})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeAlert writes an alert describing how the crawl ended.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.CrawlResult) {
	switch {
	case result.Cancelled:
		md.Cautionf("The crawl was cancelled. %d URL(s) were discovered before it stopped.", len(result.URLs))
	case len(result.Failures) > 0:
		md.Warningf("%d page(s) could not be fetched. See the failures section.", len(result.Failures))
	default:
		md.Tip("Every discovered page was fetched successfully.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of page outcomes when some pages
// were not fetched successfully.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.CrawlResult) {
	failed := len(result.Failures)
	skipped := len(result.URLs) - result.PagesFetched
	if failed == 0 && skipped <= 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)
	if result.PagesFetched > 0 {
		chart.LabelAndIntValue("Fetched", uint64(result.PagesFetched))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(failed))
	}
	if skipped > 0 {
		chart.LabelAndIntValue("Not fetched", uint64(skipped))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteDiff outputs the comparison of two crawls.
func (w *MarkdownWriter) WriteDiff(diff *model.Diff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Comparison")
	md.PlainText("")

	rows := [][]string{{"Host", code(diff.Host)}}
	if diff.Base != nil {
		rows = append(rows, []string{"Base", diff.Base.StartedAt.Format(timeFormat) + " (" + strconv.Itoa(len(diff.Base.URLs)) + " URLs)"})
	}
	if diff.Target != nil {
		rows = append(rows, []string{"Target", diff.Target.StartedAt.Format(timeFormat) + " (" + strconv.Itoa(len(diff.Target.URLs)) + " URLs)"})
	}
	rows = append(rows,
		[]string{"Added", strconv.Itoa(len(diff.Added))},
		[]string{"Removed", strconv.Itoa(len(diff.Removed))},
	)
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if !diff.HasChanges() {
		md.Note("The two crawls discovered the same URLs.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	if len(diff.Added) > 0 {
		md.H2("Added")
		md.PlainText("")
		md.BulletList(codeAll(diff.Added)...)
		md.PlainText("")
	}
	if len(diff.Removed) > 0 {
		md.H2("Removed")
		md.PlainText("")
		md.BulletList(codeAll(diff.Removed)...)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteHistory outputs stored crawls as a table.
func (w *MarkdownWriter) WriteHistory(crawls []model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl History")
	md.PlainText("")

	if len(crawls) == 0 {
		md.PlainText("No crawls found.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(crawls))
	for i, c := range crawls {
		rows[i] = []string{
			strconv.FormatInt(c.ID, 10),
			c.StartedAt.Format(timeFormat),
			code(c.Seed),
			strconv.Itoa(c.URLCount),
			strconv.Itoa(c.FailureCount),
			statusText(c.Cancelled, c.FailureCount),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Seed", "URLs", "Failures", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [sitecrawl](https://github.com/nao1215/sitecrawl)*")
}

func code(s string) string {
	return "`" + s + "`"
}

func codeAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = code(s)
	}
	return out
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
