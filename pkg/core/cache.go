package core

import (
	"context"

	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/erain9/ordercache/pkg/otel"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// OrderCache is the public contract of the order registry
type OrderCache interface {
	// AddOrder adds order to the cache
	AddOrder(order *Order)
	// CancelOrder removes the order with this order id
	CancelOrder(orderID string)
	// CancelOrdersForUser removes all orders of user
	CancelOrdersForUser(user string)
	// CancelOrdersForSecIDWithMinimumQty removes all orders of securityID
	// with quantity >= minQty
	CancelOrdersForSecIDWithMinimumQty(securityID string, minQty uint64)
	// GetMatchingSizeForSecurity returns the total quantity that can match
	// for securityID
	GetMatchingSizeForSecurity(securityID string) uint64
	// GetAllOrders returns a snapshot of all orders in the cache
	GetAllOrders() []*Order
}

// Cache implements OrderCache on top of an OrderCacheBackend
type Cache struct {
	backend OrderCacheBackend
	sender  messaging.EventSender
	metrics *otel.CacheMetrics
}

// Option configures a Cache
type Option func(*Cache)

// WithEventSender publishes an event for every added and removed order
func WithEventSender(sender messaging.EventSender) Option {
	return func(c *Cache) {
		c.sender = sender
	}
}

// WithMetrics records cache metrics on m instead of the global instruments
func WithMetrics(m *otel.CacheMetrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// NewCache creates Cache object with a backend
func NewCache(backend OrderCacheBackend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		metrics: otel.GetCacheMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ OrderCache = (*Cache)(nil)

// AddOrder stores order as-is. A nil order is ignored.
func (c *Cache) AddOrder(order *Order) {
	if order == nil {
		return
	}

	ctx, span := otel.StartCacheSpan(context.Background(), otel.SpanAddOrder,
		attribute.String(otel.AttributeOrderID, order.ID()),
		attribute.String(otel.AttributeSecurityID, order.SecurityID()),
		attribute.String(otel.AttributeOrderSide, order.Side().String()),
		attribute.Int64(otel.AttributeQuantity, int64(order.Quantity())),
	)
	defer span.End()

	seq := c.backend.AppendOrder(order)

	log.Debug().
		Uint64("sequence", seq).
		Str("order_id", order.ID()).
		Str("security_id", order.SecurityID()).
		Str("side", order.Side().String()).
		Uint64("quantity", order.Quantity()).
		Msg("Order added")

	c.metrics.RecordAdded(ctx, order.SecurityID())
	c.publish(ctx, newOrderEvent(seq, messaging.EventAdded, "", order))
}

// CancelOrder removes every order with orderID
func (c *Cache) CancelOrder(orderID string) {
	c.cancel(ReasonOrderID, func(order *Order) bool {
		return order.id == orderID
	})
}

// CancelOrdersForUser removes every order owned by user
func (c *Cache) CancelOrdersForUser(user string) {
	c.cancel(ReasonUser, func(order *Order) bool {
		return order.user == user
	})
}

// CancelOrdersForSecIDWithMinimumQty removes every order for securityID
// whose quantity is at least minQty
func (c *Cache) CancelOrdersForSecIDWithMinimumQty(securityID string, minQty uint64) {
	c.cancel(ReasonSecurityMinQty, func(order *Order) bool {
		return order.securityID == securityID && order.quantity >= minQty
	})
}

func (c *Cache) cancel(reason string, match func(*Order) bool) {
	ctx, span := otel.StartCacheSpan(context.Background(), otel.SpanCancelOrders,
		attribute.String(otel.AttributeCancelReason, reason),
	)
	defer span.End()

	removed, first := c.backend.RemoveOrders(match)
	otel.AddAttributes(span, attribute.Int(otel.AttributeRemovedCount, len(removed)))
	if len(removed) == 0 {
		return
	}

	log.Debug().
		Str("reason", reason).
		Int("removed", len(removed)).
		Msg("Orders canceled")

	c.metrics.RecordCanceled(ctx, reason, int64(len(removed)))
	for i, order := range removed {
		c.publish(ctx, newOrderEvent(first+uint64(i), messaging.EventCanceled, reason, order))
	}
}

// GetMatchingSizeForSecurity returns the total quantity that can match for
// securityID. The whole computation runs under the backend lock.
func (c *Cache) GetMatchingSizeForSecurity(securityID string) uint64 {
	ctx, span := otel.StartCacheSpan(context.Background(), otel.SpanMatchingSize,
		attribute.String(otel.AttributeSecurityID, securityID),
	)
	defer span.End()

	var matched uint64
	c.backend.View(func(orders []*Order) {
		matched = MatchingSize(orders, securityID)
	})

	otel.AddAttributes(span, attribute.Int64(otel.AttributeMatchedSize, int64(matched)))
	c.metrics.RecordMatchingSize(ctx, securityID, matched)

	return matched
}

// GetAllOrders returns a copy of all orders in insertion order
func (c *Cache) GetAllOrders() []*Order {
	return c.backend.Orders()
}

// Securities returns the distinct security ids in first-seen order
func (c *Cache) Securities() []string {
	var securities []string
	c.backend.View(func(orders []*Order) {
		seen := make(map[string]struct{})
		for _, order := range orders {
			if _, ok := seen[order.securityID]; ok {
				continue
			}
			seen[order.securityID] = struct{}{}
			securities = append(securities, order.securityID)
		}
	})
	return securities
}

// Len returns the number of stored orders
func (c *Cache) Len() int {
	return c.backend.Len()
}

func (c *Cache) publish(ctx context.Context, event *messaging.OrderEvent) {
	if c.sender == nil {
		return
	}
	if err := c.sender.SendOrderEvent(ctx, event); err != nil {
		c.metrics.RecordPublishFailure(ctx, string(event.Type))
		log.Error().Err(err).
			Str("order_id", event.OrderID).
			Str("type", string(event.Type)).
			Msg("Failed to publish order event")
	}
}
