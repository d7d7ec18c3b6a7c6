package messaging

import (
	"context"
	"sync"
)

// MockMessageSender records events in memory for testing.
type MockMessageSender struct {
	mu     sync.Mutex
	events []*OrderEvent
	err    error
	closed bool
}

// NewMockMessageSender creates a new MockMessageSender.
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// FailWith makes every subsequent send return err.
func (m *MockMessageSender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SendOrderEvent records the event unless a failure was configured.
func (m *MockMessageSender) SendOrderEvent(_ context.Context, event *OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockMessageSender) Events() []*OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*OrderEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Closed reports whether Close was called.
func (m *MockMessageSender) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the sender closed.
func (m *MockMessageSender) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Ensure MockMessageSender implements EventSender
var _ EventSender = (*MockMessageSender)(nil)
