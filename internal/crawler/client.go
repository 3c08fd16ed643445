package crawler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds a single fetch, including redirects and body.
	DefaultTimeout = 30 * time.Second

	// maxRedirects is the number of redirects followed before the last
	// response is returned as is.
	maxRedirects = 10
)

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	// Timeout bounds each request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// ProxyURL routes requests through a proxy. socks5:// and socks5h://
	// are dialed with golang.org/x/net/proxy; http:// and https:// are
	// used as a forward proxy. Empty means direct connections.
	ProxyURL string

	// Cookie is a raw Cookie header value added to every request.
	Cookie string

	// Headers are set on every request.
	Headers map[string]string
}

// NewHTTPClient builds the *http.Client used by HTTPFetcher. The client is
// safe for concurrent use, so one instance is shared by all worker goroutines
// of a session.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if opts.ProxyURL != "" {
		if err := configureProxy(transport, opts.ProxyURL); err != nil {
			return nil, err
		}
	}

	var rt http.RoundTripper = transport
	if opts.Cookie != "" || len(opts.Headers) > 0 {
		rt = &headerInjectingTransport{
			base:    transport,
			cookie:  opts.Cookie,
			headers: opts.Headers,
		}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// configureProxy points transport at the proxy described by rawURL.
func configureProxy(transport *http.Transport, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProxyURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxyURL, err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxyURL, u.Scheme)
	}
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers and cookies into every request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
