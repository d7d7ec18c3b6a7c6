package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/erain9/ordercache/pkg/core"
)

// MemoryBackend implements OrderCacheBackend interface with in-memory
// storage. One mutex guards the whole collection.
type MemoryBackend struct {
	sync.Mutex
	orders []*core.Order
	seq    uint64
}

// NewMemoryBackend creates new instance of MemoryBackend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		orders: make([]*core.Order, 0),
	}
}

// AppendOrder stores an order after all others
func (b *MemoryBackend) AppendOrder(order *core.Order) uint64 {
	b.Lock()
	defer b.Unlock()
	b.orders = append(b.orders, order)
	b.seq++
	return b.seq
}

// RemoveOrders removes every order accepted by match, keeping the relative
// order of the survivors
func (b *MemoryBackend) RemoveOrders(match func(order *core.Order) bool) ([]*core.Order, uint64) {
	b.Lock()
	defer b.Unlock()

	var removed []*core.Order
	kept := b.orders[:0]
	for _, order := range b.orders {
		if match(order) {
			removed = append(removed, order)
			continue
		}
		kept = append(kept, order)
	}

	// drop references held by the tail so removed orders can be collected
	clear(b.orders[len(kept):])
	b.orders = kept

	if len(removed) == 0 {
		return nil, 0
	}
	first := b.seq + 1
	b.seq += uint64(len(removed))
	return removed, first
}

// Orders returns a copy of all stored orders
func (b *MemoryBackend) Orders() []*core.Order {
	b.Lock()
	defer b.Unlock()

	orders := make([]*core.Order, len(b.orders))
	copy(orders, b.orders)
	return orders
}

// View runs fn with the stored orders while holding the lock
func (b *MemoryBackend) View(fn func(orders []*core.Order)) {
	b.Lock()
	defer b.Unlock()
	fn(b.orders)
}

// Len returns the number of stored orders
func (b *MemoryBackend) Len() int {
	b.Lock()
	defer b.Unlock()
	return len(b.orders)
}

// String implements fmt.Stringer interface
func (b *MemoryBackend) String() string {
	b.Lock()
	defer b.Unlock()

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("orders: %d", len(b.orders)))
	for _, order := range b.orders {
		sb.WriteString("\n")
		sb.WriteString(order.String())
	}
	return sb.String()
}

var _ core.OrderCacheBackend = (*MemoryBackend)(nil)
