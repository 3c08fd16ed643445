package crawler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultUserAgent identifies the crawler in the User-Agent header.
	DefaultUserAgent = "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)"

	// DefaultMaxBodySize is the largest response body read per page (5MB).
	// Anything beyond it is silently dropped.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5"
)

// Fetcher retrieves the body of a page.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, pageURL string) (string, error)

// Fetch calls f(ctx, pageURL).
func (f FetcherFunc) Fetch(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

// HTTPFetcher fetches pages with an *http.Client and decodes them to UTF-8.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize limits how many bytes of each response body are read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates a fetcher using client. A nil client selects a
// client built by NewHTTPClient with zero options.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client, _ = NewHTTPClient(ClientOptions{}) //nolint:errcheck // zero options cannot fail
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a GET for pageURL and returns the decoded body.
// Every failure is returned as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Cause: CauseNetwork, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Cause: CauseNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Cause:      CauseStatus,
			Err:        ErrUnexpectedStatus,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Cause:      CauseContentType,
			Err:        fmt.Errorf("%w: %s", ErrNotHTML, contentType),
		}
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Cause: CauseBody, Err: err}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Cause: CauseBody, Err: err}
	}
	return string(body), nil
}

// isHTML reports whether a Content-Type header denotes an HTML document.
// A missing header is accepted.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
