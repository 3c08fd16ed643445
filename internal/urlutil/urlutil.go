// Package urlutil provides the small, pure URL helpers used by the crawler:
// seed normalization, syntactic validation and host extraction.
//
// None of the functions perform I/O. Identity of a URL elsewhere in the
// crawler is exact string equality, so Normalize must be applied exactly once,
// when a seed is accepted.
package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// Scheme prefixes recognised by Normalize.
const (
	HTTPPrefix  = "http://"
	HTTPSPrefix = "https://"
)

// ErrNoHost is returned by HostOf when the URL has no authority component.
var ErrNoHost = errors.New("url has no host")

// Normalize returns raw unchanged if it already starts with http:// or
// https://, otherwise it prefixes raw with http://.
// It never fails and performs no other canonicalization.
func Normalize(raw string) string {
	if strings.HasPrefix(raw, HTTPPrefix) || strings.HasPrefix(raw, HTTPSPrefix) {
		return raw
	}
	return HTTPPrefix + raw
}

// Validate reports whether s is a syntactically well-formed URI reference.
// It does not check reachability.
//
// net/url alone is too lenient for this (it accepts spaces in paths), so the
// string is first checked against the RFC 3986 character set, then parsed,
// and a URI that declares an authority ("scheme://") must carry a host.
func Validate(s string) bool {
	if s == "" || !hasOnlyURIChars(s) {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	if u.Scheme != "" && strings.HasPrefix(s[len(u.Scheme)+1:], "//") && u.Host == "" {
		return false
	}
	return true
}

// HostOf returns the authority of an absolute URL without userinfo.
// The port is kept, so "http://localhost:8080/a" yields "localhost:8080".
func HostOf(absoluteURL string) (string, error) {
	u, err := url.Parse(absoluteURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", ErrNoHost
	}
	return u.Host, nil
}

// Redact replaces the password of a URL's userinfo with "xxxxx".
// Strings that do not parse, or carry no password, are returned unchanged.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	return u.Redacted()
}

// HasUserinfo reports whether raw parses as a URL carrying a password.
func HasUserinfo(raw string) bool {
	if !strings.Contains(raw, "@") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}

// hasOnlyURIChars checks every byte against the RFC 3986 unreserved,
// reserved and percent-encoding sets. A '%' must be followed by two hex digits.
func hasOnlyURIChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("-._~:/?#[]@!$&'()*+,;=", c) >= 0:
		case c == '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return false
			}
			i += 2
		default:
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
