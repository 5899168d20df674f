package audit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Config controls dispatcher buffering.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events when the buffer is full instead of blocking
	// the emitting controller.
	DropIfFull bool
	// Logger reports sink panics.
	Logger zerolog.Logger
}

// Dispatcher forwards events to a sink from a single goroutine so a slow sink
// never delays a submit.
//
// Emitters hold mu for reading while they enqueue; Close takes it for writing
// before closing the queue, so no send can hit a closed channel.
type Dispatcher struct {
	cfg    Config
	sink   Sink
	queue  chan Event
	done   sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	stats  struct{ dropped, delivered, failed atomic.Uint64 }
}

// Stats is a point-in-time view of the dispatcher counters.
type Stats struct {
	Dropped   uint64
	Delivered uint64
	Failed    uint64
	Queued    int
}

// NewDispatcher starts a dispatcher. It returns nil when cfg is disabled; a
// nil *Dispatcher accepts and ignores every call.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	d := &Dispatcher{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan Event, max(cfg.BufferSize, 1)),
	}
	d.done.Add(1)
	go func() {
		defer d.done.Done()
		for event := range d.queue {
			d.deliver(event)
		}
	}()
	return d
}

// deliver hands event to the sink. A panicking sink loses that event only.
func (d *Dispatcher) deliver(event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.failed.Add(1)
			d.cfg.Logger.Error().
				Str("event", event.EventType).
				Err(fmt.Errorf("audit sink panic: %v", r)).
				Msg("audit event lost")
		}
	}()
	d.sink.Emit(context.Background(), event)
	d.stats.delivered.Add(1)
}

// Emit queues event. With DropIfFull a full queue drops it; otherwise Emit
// waits for room or for ctx. Both losses are counted in Dropped.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		default:
			d.stats.dropped.Add(1)
		}
		return
	}
	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.stats.dropped.Add(1)
	}
}

// Close stops accepting events, delivers the queued ones and waits for the
// delivery goroutine to exit. It is idempotent.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.done.Wait()
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Dropped:   d.stats.dropped.Load(),
		Delivered: d.stats.delivered.Load(),
		Failed:    d.stats.failed.Load(),
		Queued:    len(d.queue),
	}
}

// Dropped reports events lost to a full queue or a cancelled context.
func (d *Dispatcher) Dropped() uint64 { return d.Stats().Dropped }

// Delivered reports events handed to the sink.
func (d *Dispatcher) Delivered() uint64 { return d.Stats().Delivered }

// Failed reports events whose sink panicked.
func (d *Dispatcher) Failed() uint64 { return d.Stats().Failed }
