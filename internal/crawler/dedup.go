package crawler

import (
	"sort"
	"sync"
)

// DedupStore is the set of URLs admitted to the frontier during one crawl.
// It is safe for concurrent use.
type DedupStore struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	limit int
}

// NewDedupStore creates an empty store. A positive limit caps the number of
// URLs that can ever be admitted; zero means unlimited.
func NewDedupStore(limit int) *DedupStore {
	return &DedupStore{
		seen:  make(map[string]struct{}),
		limit: limit,
	}
}

// Admit inserts u if it is absent and reports whether this call inserted it.
// Membership check and insertion happen under one lock, so for any u exactly
// one concurrent caller gets true.
func (d *DedupStore) Admit(u string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[u]; ok {
		return false
	}
	if d.limit > 0 && len(d.seen) >= d.limit {
		return false
	}
	d.seen[u] = struct{}{}
	return true
}

// Contains reports whether u has been admitted.
// It must not be combined with a later Admit as a check-then-insert.
func (d *DedupStore) Contains(u string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[u]
	return ok
}

// Len returns the number of admitted URLs.
func (d *DedupStore) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Snapshot returns all admitted URLs, sorted.
func (d *DedupStore) Snapshot() []string {
	d.mu.Lock()
	urls := make([]string, 0, len(d.seen))
	for u := range d.seen {
		urls = append(urls, u)
	}
	d.mu.Unlock()

	sort.Strings(urls)
	return urls
}
