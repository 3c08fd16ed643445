package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathFilter decides whether a host-relative link should be admitted, based
// on glob patterns matched against its path.
//
// Logic:
//  1. If the path matches any ignore pattern, skip it
//  2. If follow patterns are set and the path matches none, skip it
//  3. Otherwise, admit it
type PathFilter struct {
	ignore []string
	follow []string
}

// NewPathFilter creates a filter. Both slices may be empty.
func NewPathFilter(ignore, follow []string) *PathFilter {
	return &PathFilter{ignore: ignore, follow: follow}
}

// Allow reports whether href passes the filter. A nil filter allows all.
func (f *PathFilter) Allow(href string) bool {
	if f == nil || (len(f.ignore) == 0 && len(f.follow) == 0) {
		return true
	}

	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	if path == "" {
		path = "/"
	}

	for _, pattern := range f.ignore {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(f.follow) > 0 {
		for _, pattern := range f.follow {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// isHostRelative reports whether href is a path on the current host: it
// starts with a single "/". Protocol-relative links ("//host/x") point
// elsewhere and are rejected, as are absolute, mailto: and fragment links.
func isHostRelative(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//   - a trailing "/*" to match a whole subtree
//
// Examples:
//   - "/admin/*" matches "/admin", "/admin/users/edit"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Bare name patterns like "logout*" match the last path segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
