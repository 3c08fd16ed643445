package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkSelector selects anchor elements that carry an href.
const DefaultLinkSelector = "a[href]"

// LinkExtractor returns the raw href values of the anchors in an HTML body,
// in document order. Implementations degrade gracefully on malformed input
// and must be safe for concurrent use.
type LinkExtractor interface {
	Extract(body string) []string
}

// ExtractorFunc adapts an ordinary function to the LinkExtractor interface.
type ExtractorFunc func(body string) []string

// Extract calls f(body).
func (f ExtractorFunc) Extract(body string) []string {
	return f(body)
}

// HTMLExtractor extracts hrefs with a CSS selector.
type HTMLExtractor struct {
	selector string
}

// ExtractorOption configures an HTMLExtractor.
type ExtractorOption func(*HTMLExtractor)

// WithSelector replaces DefaultLinkSelector. The selected elements must
// carry an href attribute to contribute a link.
func WithSelector(selector string) ExtractorOption {
	return func(e *HTMLExtractor) {
		if selector != "" {
			e.selector = selector
		}
	}
}

// NewHTMLExtractor creates an extractor.
func NewHTMLExtractor(opts ...ExtractorOption) *HTMLExtractor {
	e := &HTMLExtractor{selector: DefaultLinkSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract implements LinkExtractor. The HTML5 parser recovers from malformed
// markup, so unbalanced or broken documents still yield their anchors.
// Surrounding whitespace is trimmed from each href.
func (e *HTMLExtractor) Extract(body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var hrefs []string
	doc.Find(e.selector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs
}
