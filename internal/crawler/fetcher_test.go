package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ua=" + r.Header.Get("User-Agent") + "</body></html>")) //nolint:errcheck
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p>caf\xe9</p>")) //nolint:errcheck
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4")) //nolint:errcheck
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(strings.Repeat("a", 1024))) //nolint:errcheck
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fetcher := NewHTTPFetcher(server.Client(), WithUserAgent("test-agent"), WithMaxBodySize(100))
	ctx := context.Background()

	t.Run("returns body and sends user agent", func(t *testing.T) {
		t.Parallel()

		body, err := fetcher.Fetch(ctx, server.URL+"/ok")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if !strings.Contains(body, "ua=test-agent") {
			t.Errorf("body = %q, want user agent echoed", body)
		}
	})

	t.Run("follows redirects", func(t *testing.T) {
		t.Parallel()

		body, err := fetcher.Fetch(ctx, server.URL+"/redirect")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if !strings.Contains(body, "ua=") {
			t.Errorf("body = %q, want redirected page", body)
		}
	})

	t.Run("decodes declared charset", func(t *testing.T) {
		t.Parallel()

		body, err := fetcher.Fetch(ctx, server.URL+"/latin1")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if !strings.Contains(body, "café") {
			t.Errorf("body = %q, want utf-8 café", body)
		}
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		t.Parallel()

		_, err := fetcher.Fetch(ctx, server.URL+"/missing")
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("Fetch() error = %v, want *FetchError", err)
		}
		if fe.Cause != CauseStatus || fe.StatusCode != http.StatusNotFound {
			t.Errorf("FetchError = %+v, want status 404", fe)
		}
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Error("error does not wrap ErrUnexpectedStatus")
		}
		if !strings.Contains(err.Error(), "status 404") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("non-html content is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := fetcher.Fetch(ctx, server.URL+"/pdf")
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("Fetch() error = %v, want ErrNotHTML", err)
		}
	})

	t.Run("body is truncated to max size", func(t *testing.T) {
		t.Parallel()

		body, err := fetcher.Fetch(ctx, server.URL+"/big")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(body) != 100 {
			t.Errorf("len(body) = %d, want 100", len(body))
		}
	})

	t.Run("network failure", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		_, err := fetcher.Fetch(ctx, addr+"/")
		var fe *FetchError
		if !errors.As(err, &fe) || fe.Cause != CauseNetwork {
			t.Errorf("Fetch() error = %v, want network FetchError", err)
		}
	})
}

func TestIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"", true},
		{"application/json", false},
		{"image/png", false},
		{";;;", false},
	}

	for _, tt := range tests {
		if got := isHTML(tt.contentType); got != tt.want {
			t.Errorf("isHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestCrawlOverHTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	page := func(hrefs ...string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(htmlWithLinks(hrefs...))) //nolint:errcheck
		}
	}
	mux.HandleFunc("/{$}", page("/careers", "/blog", "https://elsewhere.example.org/"))
	mux.HandleFunc("/careers", page("/contact"))
	mux.HandleFunc("/blog", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/contact", page("mailto:hello@example.com", "/careers"))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	s, err := New(server.URL+"/",
		WithFetcher(NewHTTPFetcher(server.Client())),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	result, err := s.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error: %v", err)
	}

	want := []string{server.URL + "/", server.URL + "/careers", server.URL + "/contact"}
	if !reflect.DeepEqual(result.URLs, want) {
		t.Errorf("URLs = %v, want %v", result.URLs, want)
	}
	if len(result.Failures) != 1 || result.Failures[0].URL != server.URL+"/blog" {
		t.Errorf("Failures = %v, want /blog", result.Failures)
	}
}
