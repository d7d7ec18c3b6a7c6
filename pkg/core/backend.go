package core

// OrderCacheBackend defines the storage used by Cache. Implementations must
// serialize every call on one lock so that a caller never observes a
// collection mid-mutation.
//
// Every stored or removed order is assigned the next value of a per-backend
// sequence, starting at 1, inside the same critical section as the
// mutation. Sequences give the storage order of mutations to consumers
// that see them out of order.
type OrderCacheBackend interface {
	// AppendOrder stores order after every order already stored and returns
	// the sequence of the mutation
	AppendOrder(order *Order) uint64
	// RemoveOrders removes every order for which match returns true and
	// returns the removed orders in storage order. The i-th removed order
	// was assigned sequence first+i. first is 0 when nothing was removed.
	RemoveOrders(match func(order *Order) bool) (removed []*Order, first uint64)
	// Orders returns a copy of the stored orders in storage order
	Orders() []*Order
	// View runs fn while holding the backend lock. fn must not retain the
	// slice or call back into the backend.
	View(fn func(orders []*Order))
	// Len returns the number of stored orders
	Len() int
}
