package messaging

import (
	"context"
	"errors"
	"time"
)

// EventType identifies what happened to an order
type EventType string

// Event types
const (
	EventAdded    EventType = "ADDED"
	EventCanceled EventType = "CANCELED"
)

// EventSender defines an interface for publishing order events.
// This keeps the core package free of any specific transport such as Kafka
// or Redis.
type EventSender interface {
	SendOrderEvent(ctx context.Context, event *OrderEvent) error
	Close() error
}

// OrderEvent is the message published whenever an order enters or leaves
// the cache. Sequence is the position of the mutation in the publishing
// cache, starting at 1; events may reach the bus out of sequence order.
type OrderEvent struct {
	Sequence   uint64    `json:"sequence"`
	Type       EventType `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	OrderID    string    `json:"orderId"`
	SecurityID string    `json:"securityId"`
	Side       string    `json:"side"`
	Quantity   uint64    `json:"quantity"`
	User       string    `json:"user"`
	Company    string    `json:"company"`
	Timestamp  time.Time `json:"timestamp"`
}

// Key returns the partitioning key for the event. Events of one security
// share a key so that consumers see them in publish order.
func (e *OrderEvent) Key() string {
	return e.SecurityID
}

// Errors returned by EventSender constructors
var (
	ErrEmptyBrokerAddr = errors.New("empty broker address")
	ErrEmptyTopic      = errors.New("empty topic")
	ErrEmptyChannel    = errors.New("empty channel")
)
