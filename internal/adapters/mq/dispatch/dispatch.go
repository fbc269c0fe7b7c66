// Package dispatch runs the single consumer loop that serializes all state
// transitions: one update is taken to completion (transition, persist,
// reply) before the next one for any session begins.
package dispatch

import (
	"context"
	"time"

	"github.com/okian/fiesta/internal/adapters/mq/queue"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/logger"
	"github.com/okian/fiesta/pkg/metrics"
)

// Default shutdown wait for the loop to drain.
const shutdownTimeout = 5 * time.Second

// Handler processes one decoded update and produces its reply.
type Handler interface {
	Handle(ctx context.Context, update model.Update, in types.Input) model.Reply
}

// Source is the dispatcher's view of the update queue.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Item
}

// Dispatcher owns the consumer goroutine.
type Dispatcher struct {
	source  Source
	handler Handler
	log     logger.Logger
	done    chan struct{}
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a dispatcher over the given queue and handler.
func New(source Source, handler Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:  source,
		handler: handler,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the consumer loop. It exits when the queue closes or the
// context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	items := d.source.Dequeue(ctx)
	for {
		select {
		case item, ok := <-items:
			if !ok {
				return
			}
			d.process(ctx, item)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, item queue.Item) {
	start := time.Now()
	reply := d.handler.Handle(ctx, item.Update, item.Input)
	metrics.RecordDispatchLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordUpdateProcessed()

	if d.log != nil {
		d.log.Debug(ctx, "update dispatched",
			logger.String("update_id", item.Update.UpdateID),
			logger.String("external_id", item.Update.ExternalID),
		)
	}

	// The reply channel is buffered; if the submitter already gave up the
	// reply is dropped rather than blocking the loop.
	select {
	case item.Reply <- reply:
	default:
	}
}

// Stop waits for the loop to finish after the queue has been closed.
func (d *Dispatcher) Stop(ctx context.Context) error {
	select {
	case <-d.done:
		return nil
	case <-time.After(shutdownTimeout):
		return ErrShutdownTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
