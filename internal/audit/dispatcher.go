package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// DispatcherConfig controls the buffering behavior of a Dispatcher.
type DispatcherConfig struct {
	// BufferSize is the capacity of the entry queue. Zero or negative
	// falls back to 256.
	BufferSize int

	// DropIfFull selects what happens when the queue is full: drop the
	// entry (true, the default posture for primary-path safety) or block
	// the emitter until space frees up (false).
	DropIfFull bool
}

// Dispatcher moves entries from emitters to a Sink on a dedicated
// goroutine. Emit never returns an error and, with DropIfFull, never
// blocks; dropped entries are counted and observable via Dropped.
type Dispatcher struct {
	sink       Sink
	queue      chan Entry
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
	dropIfFull bool
	dropped    atomic.Uint64
}

func NewDispatcher(cfg DispatcherConfig, sink Sink) *Dispatcher {
	if sink == nil {
		sink = NoOpSink{}
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 256
	}

	d := &Dispatcher{
		sink:       sink,
		queue:      make(chan Entry, size),
		done:       make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Emit enqueues an entry for delivery. After Close it is a no-op counted
// as a drop.
func (d *Dispatcher) Emit(_ context.Context, entry Entry) {
	if d == nil {
		return
	}

	select {
	case <-d.done:
		d.dropped.Add(1)
		return
	default:
	}

	if d.dropIfFull {
		select {
		case d.queue <- entry:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- entry:
	case <-d.done:
		d.dropped.Add(1)
	}
}

// Dropped reports how many entries were discarded because the queue was
// full or the dispatcher was closed.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Close stops intake, drains the queue to the sink, and waits for the
// delivery goroutine to exit. Safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	ctx := context.Background()

	for {
		select {
		case entry := <-d.queue:
			d.sink.Emit(ctx, entry)
		case <-d.done:
			for {
				select {
				case entry := <-d.queue:
					d.sink.Emit(ctx, entry)
				default:
					return
				}
			}
		}
	}
}
