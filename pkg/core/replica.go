package core

import (
	"errors"
	"sync"

	"github.com/erain9/ordercache/pkg/messaging"
)

// Replica rebuilds a cache from the order events of another cache. Events
// may arrive in any order; they are applied in sequence order starting at
// sequence 1, and an event is held until every earlier sequence has been
// applied. A lost event therefore stalls the replica. Events without a
// sequence are applied on arrival. Redelivered sequences are ignored.
type Replica struct {
	mu      sync.Mutex
	cache   OrderCache
	next    uint64
	pending map[uint64]*messaging.OrderEvent
}

// NewReplica creates a Replica applying events to cache
func NewReplica(cache OrderCache) *Replica {
	return &Replica{
		cache:   cache,
		next:    1,
		pending: make(map[uint64]*messaging.OrderEvent),
	}
}

// Apply applies event and every held event that becomes ready after it.
// Events that fail to apply still consume their sequence; their errors are
// joined into the returned error.
func (r *Replica) Apply(event *messaging.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Sequence == 0 {
		return ApplyEvent(r.cache, event)
	}
	if event.Sequence < r.next {
		return nil
	}
	if _, ok := r.pending[event.Sequence]; ok {
		return nil
	}
	r.pending[event.Sequence] = event

	var errs []error
	for {
		ready, ok := r.pending[r.next]
		if !ok {
			break
		}
		delete(r.pending, r.next)
		r.next++
		if err := ApplyEvent(r.cache, ready); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pending returns the number of events held back by a missing sequence
func (r *Replica) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
