package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/erain9/ordercache/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(orders []*core.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID()
	}
	return out
}

func TestNewMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	assert.NotNil(t, backend)
	assert.NotNil(t, backend.orders)
	assert.Equal(t, 0, backend.Len())
	assert.Empty(t, backend.Orders())
}

func TestMemoryBackend_AppendOrder(t *testing.T) {
	backend := NewMemoryBackend()

	backend.AppendOrder(core.NewOrder("1", "ABCD", core.Sell, 100, "u1", "c1"))
	backend.AppendOrder(core.NewOrder("2", "ABCD", core.Buy, 200, "u2", "c2"))
	// duplicates are stored as-is
	backend.AppendOrder(core.NewOrder("2", "EFGH", core.Buy, 300, "u2", "c2"))

	assert.Equal(t, 3, backend.Len())
	assert.Equal(t, []string{"1", "2", "2"}, ids(backend.Orders()))
}

func TestMemoryBackend_RemoveOrders(t *testing.T) {
	backend := NewMemoryBackend()
	for i := 1; i <= 6; i++ {
		side := core.Buy
		if i%2 == 0 {
			side = core.Sell
		}
		backend.AppendOrder(core.NewOrder(fmt.Sprintf("%d", i), "SEC", side, uint64(i*100), "user", "company"))
	}

	removed, first := backend.RemoveOrders(func(o *core.Order) bool {
		return o.Side() == core.Sell
	})

	assert.Equal(t, []string{"2", "4", "6"}, ids(removed))
	assert.Equal(t, []string{"1", "3", "5"}, ids(backend.Orders()))
	assert.Equal(t, uint64(7), first)

	// Removing again matches nothing
	removed, first = backend.RemoveOrders(func(o *core.Order) bool {
		return o.Side() == core.Sell
	})
	assert.Empty(t, removed)
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, 3, backend.Len())
}

func TestMemoryBackend_Sequence(t *testing.T) {
	backend := NewMemoryBackend()

	assert.Equal(t, uint64(1), backend.AppendOrder(core.NewOrder("1", "SEC", core.Buy, 1, "u1", "c")))
	assert.Equal(t, uint64(2), backend.AppendOrder(core.NewOrder("2", "SEC", core.Buy, 1, "u2", "c")))
	assert.Equal(t, uint64(3), backend.AppendOrder(core.NewOrder("3", "SEC", core.Buy, 1, "u1", "c")))

	// Two removed orders take sequences 4 and 5
	removed, first := backend.RemoveOrders(func(o *core.Order) bool { return o.User() == "u1" })
	require.Len(t, removed, 2)
	assert.Equal(t, uint64(4), first)

	assert.Equal(t, uint64(6), backend.AppendOrder(core.NewOrder("4", "SEC", core.Sell, 1, "u3", "c")))
}

func TestMemoryBackend_SequenceConcurrent(t *testing.T) {
	backend := NewMemoryBackend()
	const workers = 8
	const perWorker = 100

	var (
		mu   sync.Mutex
		seen = make(map[uint64]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seq := backend.AppendOrder(core.NewOrder(fmt.Sprintf("w%d-%d", w, i), "SEC", core.Buy, 1, "u", "c"))
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	// Every sequence from 1 to N was handed out exactly once
	require.Len(t, seen, workers*perWorker)
	for seq := uint64(1); seq <= workers*perWorker; seq++ {
		assert.True(t, seen[seq], "missing sequence %d", seq)
	}
}

func TestMemoryBackend_RemoveOrdersClearsTail(t *testing.T) {
	backend := NewMemoryBackend()
	backend.AppendOrder(core.NewOrder("1", "SEC", core.Buy, 1, "u", "c"))
	backend.AppendOrder(core.NewOrder("2", "SEC", core.Buy, 1, "u", "c"))

	backend.RemoveOrders(func(o *core.Order) bool { return o.ID() == "1" })

	require.Equal(t, 1, len(backend.orders))
	// The slot past the survivors no longer references the removed order
	tail := backend.orders[:cap(backend.orders)]
	assert.Nil(t, tail[1])
}

func TestMemoryBackend_OrdersIsCopy(t *testing.T) {
	backend := NewMemoryBackend()
	backend.AppendOrder(core.NewOrder("1", "SEC", core.Buy, 10, "u", "c"))

	snapshot := backend.Orders()
	backend.AppendOrder(core.NewOrder("2", "SEC", core.Sell, 10, "u", "c"))
	backend.RemoveOrders(func(o *core.Order) bool { return o.ID() == "1" })

	assert.Equal(t, []string{"1"}, ids(snapshot))
	assert.Equal(t, []string{"2"}, ids(backend.Orders()))
}

func TestMemoryBackend_View(t *testing.T) {
	backend := NewMemoryBackend()
	backend.AppendOrder(core.NewOrder("1", "SEC", core.Buy, 10, "u", "c"))
	backend.AppendOrder(core.NewOrder("2", "SEC", core.Sell, 20, "u", "c"))

	var total uint64
	backend.View(func(orders []*core.Order) {
		for _, o := range orders {
			total += o.Quantity()
		}
	})
	assert.Equal(t, uint64(30), total)
}

func TestMemoryBackend_String(t *testing.T) {
	backend := NewMemoryBackend()
	backend.AppendOrder(core.NewOrder("1", "SEC", core.Buy, 10, "u", "c"))

	s := backend.String()
	assert.Contains(t, s, "orders: 1")
	assert.Contains(t, s, "1 BUY SEC qty=10 user=u company=c")
}

func TestMemoryBackend_ConcurrentAccess(t *testing.T) {
	backend := NewMemoryBackend()
	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				backend.AppendOrder(core.NewOrder(id, "SEC", core.Buy, 1, fmt.Sprintf("user%d", w), "c"))
				if i%2 == 1 {
					backend.RemoveOrders(func(o *core.Order) bool { return o.ID() == id })
				}
				backend.View(func(orders []*core.Order) {
					for _, o := range orders {
						_ = o.Quantity()
					}
				})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker/2, backend.Len())
}
