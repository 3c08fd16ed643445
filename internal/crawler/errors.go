package crawler

import (
	"errors"
	"fmt"

	"github.com/nao1215/sitecrawl/internal/urlutil"
)

var (
	// ErrInvalidSeedURL is returned by New when the normalized seed is not a
	// well-formed URI or has no host.
	ErrInvalidSeedURL = errors.New("invalid seed url")

	// ErrSessionUsed is returned when Crawl is called more than once on the
	// same Session.
	ErrSessionUsed = errors.New("crawl session already used")

	// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrNotHTML is wrapped by FetchError when the response is not an HTML
	// document. The processor treats it as a leaf page, not a failure.
	ErrNotHTML = errors.New("response is not html")

	// ErrInvalidProxyURL is returned by NewHTTPClient for an unusable proxy.
	ErrInvalidProxyURL = errors.New("invalid proxy url")
)

// FetchCause classifies why a fetch failed.
type FetchCause string

const (
	// CauseNetwork covers request construction, dialing, TLS and timeouts.
	CauseNetwork FetchCause = "network"

	// CauseStatus means the server answered with a non-2xx status.
	CauseStatus FetchCause = "status"

	// CauseBody means the body could not be read or decoded.
	CauseBody FetchCause = "body"

	// CauseContentType means the response was not HTML.
	CauseContentType FetchCause = "content-type"
)

// FetchError describes a failed page fetch.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Cause classifies the failure.
	Cause FetchCause

	// Err is the underlying error.
	Err error
}

// Error implements error. Credentials in the URL are redacted.
func (e *FetchError) Error() string {
	u := urlutil.Redact(e.URL)
	if e.Cause == CauseStatus {
		return fmt.Sprintf("fetch %s: status %d", u, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", u, e.Cause, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
