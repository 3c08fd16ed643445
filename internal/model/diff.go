package model

import "sort"

// Diff describes how the URL set of a host changed between two crawls.
type Diff struct {
	// Host is the host both crawls were run against.
	Host string `json:"host"`

	// Base is the older crawl.
	Base *CrawlResult `json:"base"`

	// Target is the newer crawl.
	Target *CrawlResult `json:"target"`

	// Added lists URLs present in Target but not in Base, sorted.
	Added []string `json:"added"`

	// Removed lists URLs present in Base but not in Target, sorted.
	Removed []string `json:"removed"`
}

// HasChanges reports whether the two crawls discovered different URL sets.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Compare computes the URL set difference between base and target.
// Either argument may be nil, which is treated as an empty crawl.
func Compare(base, target *CrawlResult) *Diff {
	d := &Diff{
		Base:    base,
		Target:  target,
		Added:   []string{},
		Removed: []string{},
	}

	var baseURLs, targetURLs []string
	if base != nil {
		baseURLs = base.URLs
		d.Host = base.Host
	}
	if target != nil {
		targetURLs = target.URLs
		d.Host = target.Host
	}

	d.Added = difference(targetURLs, baseURLs)
	d.Removed = difference(baseURLs, targetURLs)
	return d
}

// difference returns the sorted elements of a that are not in b.
func difference(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		seen[s] = struct{}{}
	}

	out := []string{}
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
