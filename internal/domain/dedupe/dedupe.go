// Package dedupe tracks inbound update ids so gateway redeliveries are
// answered without being processed twice.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen update IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Used when an update was recorded but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// cache implements Deduper with a map plus a fixed ring of insertion order.
// When the ring is full the oldest recorded id is evicted. maxSize <= 0
// disables eviction entirely.
type cache struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	head    int
	maxSize int
}

// Default capacity covers several hours of updates at party scale.
const defaultMaxSize = 50000

// New creates a deduper with configuration options.
func New(opts ...Option) Deduper {
	c := &cache{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	c.seen = make(map[string]struct{})
	if c.maxSize > 0 {
		c.ring = make([]string, c.maxSize)
	}
	return c
}

func (c *cache) SeenAndRecord(_ context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[id]; ok {
		return true
	}

	if c.maxSize > 0 {
		if old := c.ring[c.head]; old != "" {
			delete(c.seen, old)
		}
		c.ring[c.head] = id
		c.head = (c.head + 1) % c.maxSize
	}
	c.seen[id] = struct{}{}
	return false
}

func (c *cache) Unrecord(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[id]; !ok {
		return
	}
	delete(c.seen, id)
	if c.maxSize > 0 {
		// Clear the ring slot so eviction never deletes a re-recorded id.
		for i := range c.ring {
			if c.ring[i] == id {
				c.ring[i] = ""
				break
			}
		}
	}
}

func (c *cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.seen))
}
