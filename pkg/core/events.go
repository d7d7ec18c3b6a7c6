package core

import (
	"fmt"
	"time"

	"github.com/erain9/ordercache/pkg/messaging"
)

func newOrderEvent(seq uint64, eventType messaging.EventType, reason string, order *Order) *messaging.OrderEvent {
	return &messaging.OrderEvent{
		Sequence:   seq,
		Type:       eventType,
		Reason:     reason,
		OrderID:    order.id,
		SecurityID: order.securityID,
		Side:       order.side.String(),
		Quantity:   order.quantity,
		User:       order.user,
		Company:    order.company,
		Timestamp:  time.Now().UTC(),
	}
}

// OrderFromEvent rebuilds the order carried by event
func OrderFromEvent(event *messaging.OrderEvent) (*Order, error) {
	side, err := ParseSide(event.Side)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", event.OrderID, err)
	}
	return NewOrder(event.OrderID, event.SecurityID, side, event.Quantity, event.User, event.Company), nil
}

// ApplyEvent replays a single event onto cache: an added order is added
// again and a canceled order is canceled by id. Events are applied as
// given; use a Replica to apply a stream in sequence order.
func ApplyEvent(cache OrderCache, event *messaging.OrderEvent) error {
	switch event.Type {
	case messaging.EventAdded:
		order, err := OrderFromEvent(event)
		if err != nil {
			return err
		}
		cache.AddOrder(order)
	case messaging.EventCanceled:
		cache.CancelOrder(event.OrderID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	}
	return nil
}
