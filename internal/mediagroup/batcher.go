// Package mediagroup correlates bursts of messages that share one
// media-group identifier and hands each group to a flush callback as a
// single unit after a fixed quiescence delay.
//
// State is process-local and non-durable: pending groups are lost on
// restart.
package mediagroup

import (
	"sync"
	"time"
)

// FlushFunc receives a group's items in arrival order, exactly once per
// pending entry. It runs on the timer goroutine.
type FlushFunc[T any] func(key string, items []T)

// Batcher accumulates items per key. The first Add for a key schedules a
// one-shot flush after the configured delay; later Adds only append and
// never reschedule. One mutex serializes every mutation of the pending
// table, covering the race between the flush timer and new arrivals.
type Batcher[T any] struct {
	mu      sync.Mutex
	pending map[string][]T
	delay   time.Duration
	flush   FlushFunc[T]
}

func New[T any](delay time.Duration, flush FlushFunc[T]) *Batcher[T] {
	return &Batcher[T]{
		pending: make(map[string][]T),
		delay:   delay,
		flush:   flush,
	}
}

// Add appends item to the group's pending buffer, creating the buffer and
// scheduling its flush when this is the first item. An item arriving after
// its group already flushed starts a fresh entry with its own timer.
func (b *Batcher[T]) Add(key string, item T) {
	b.mu.Lock()
	items, ok := b.pending[key]
	b.pending[key] = append(items, item)
	b.mu.Unlock()

	if !ok {
		time.AfterFunc(b.delay, func() { b.Flush(key) })
	}
}

// Flush removes the group's buffer and invokes the flush callback with its
// contents. A missing or empty buffer is a no-op, so a second Flush for the
// same entry does nothing.
func (b *Batcher[T]) Flush(key string) {
	b.mu.Lock()
	items := b.pending[key]
	delete(b.pending, key)
	b.mu.Unlock()

	if len(items) == 0 {
		return
	}
	b.flush(key, items)
}
