// Package queue buffers inbound conversation updates between the transport
// shell and the single dispatcher that processes them in order.
package queue

import (
	"context"
	"sync"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/metrics"
)

// Default queue capacity; party-scale traffic never gets close.
const defaultCapacity = 1024

// Item is one queued update: the raw update, its decoded input, and the
// channel the dispatcher delivers the reply on. The reply channel must be
// buffered so the dispatcher never blocks on a caller that gave up.
type Item struct {
	Update model.Update
	Input  types.Input
	Reply  chan model.Reply
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an update to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, item Item) bool

	// Dequeue returns the channel updates arrive on, in enqueue order.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Item

	// Len returns the current number of queued updates.
	Len(ctx context.Context) int

	// Close shuts down the queue. No new updates can be enqueued and the
	// dequeue channel drains then closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an update to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, item Item) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.items <- item:
		size := len(q.items)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the channel updates arrive on.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Item {
	return q.items
}

// Len returns the current number of queued updates.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
