package crawler

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultQueueCapacity is the frontier capacity used when none is configured.
const DefaultQueueCapacity = 100

// Frontier is a bounded FIFO of URLs awaiting a fetch, paired with the
// outstanding-work counter (queued plus in-flight items).
//
// The queue is closed exactly once, by the CloseIfDrained call that brings
// the counter to zero. Because Push is only ever called by the session before
// the first Pop or by a task that still holds its own unit of work, nothing
// can be sent after the close.
type Frontier struct {
	queue     chan string
	pending   atomic.Int64
	closeOnce sync.Once
}

// NewFrontier creates a frontier holding at most capacity queued URLs.
// A non-positive capacity selects DefaultQueueCapacity.
func NewFrontier(capacity int) *Frontier {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Frontier{queue: make(chan string, capacity)}
}

// Push counts one unit of outstanding work and enqueues u, blocking while the
// queue is full. If ctx ends first the unit is released again and ctx.Err()
// is returned.
func (f *Frontier) Push(ctx context.Context, u string) error {
	f.pending.Add(1)
	select {
	case f.queue <- u:
		return nil
	case <-ctx.Done():
		f.CloseIfDrained()
		return ctx.Err()
	}
}

// Pop blocks until a URL is available. It returns false once the frontier is
// closed and empty, or when ctx ends.
func (f *Frontier) Pop(ctx context.Context) (string, bool) {
	select {
	case u, ok := <-f.queue:
		return u, ok
	case <-ctx.Done():
		return "", false
	}
}

// CloseIfDrained releases one unit of outstanding work and closes the queue
// when none remain. It must be called exactly once per popped URL.
func (f *Frontier) CloseIfDrained() {
	if f.pending.Add(-1) == 0 {
		f.closeOnce.Do(func() {
			close(f.queue)
		})
	}
}

// Pending returns the outstanding-work counter.
func (f *Frontier) Pending() int64 {
	return f.pending.Load()
}

// Len returns the number of URLs currently queued.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Cap returns the queue capacity.
func (f *Frontier) Cap() int {
	return cap(f.queue)
}
