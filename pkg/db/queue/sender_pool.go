package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/rs/zerolog/log"
)

const defaultBufferSize = 1024

// Dispatcher hands events to an EventSender from a fixed pool of worker
// goroutines so that callers never wait on the broker. Each worker owns a
// buffer and events are routed by Key, so events of one security are sent
// in the order they were enqueued. Events are dropped, not queued without
// bound, when a buffer is full.
type Dispatcher struct {
	sender  messaging.EventSender
	shards  []chan *messaging.OrderEvent
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewDispatcher starts workers goroutines forwarding to sender. bufferSize
// is split evenly across the workers.
func NewDispatcher(sender messaging.EventSender, workers, bufferSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	perShard := max(bufferSize/workers, 1)

	d := &Dispatcher{
		sender: sender,
		shards: make([]chan *messaging.OrderEvent, workers),
	}

	for i := range d.shards {
		d.shards[i] = make(chan *messaging.OrderEvent, perShard)
		d.wg.Add(1)
		go d.run(d.shards[i])
	}
	return d
}

func (d *Dispatcher) run(events <-chan *messaging.OrderEvent) {
	defer d.wg.Done()
	for event := range events {
		if err := d.sender.SendOrderEvent(context.Background(), event); err != nil {
			d.failed.Add(1)
			log.Error().Err(err).
				Str("order_id", event.OrderID).
				Str("type", string(event.Type)).
				Uint64("sequence", event.Sequence).
				Msg("Failed to send order event")
		}
	}
}

func (d *Dispatcher) shard(key string) chan *messaging.OrderEvent {
	return d.shards[xxhash.Sum64String(key)%uint64(len(d.shards))]
}

// SendOrderEvent enqueues the event without blocking. It returns
// ErrBufferFull when the event had to be dropped.
func (d *Dispatcher) SendOrderEvent(_ context.Context, event *messaging.OrderEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.shard(event.Key()) <- event:
		return nil
	default:
		d.dropped.Add(1)
		return ErrBufferFull
	}
}

// Dropped returns the number of events dropped because the buffer was full
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Failed returns the number of events the sender rejected
func (d *Dispatcher) Failed() int64 {
	return d.failed.Load()
}

// Close drains the buffer, waits for workers and closes the sender
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, events := range d.shards {
		close(events)
	}
	d.mu.Unlock()

	d.wg.Wait()
	return d.sender.Close()
}

var _ messaging.EventSender = (*Dispatcher)(nil)
