package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEvent_JSON(t *testing.T) {
	event := &OrderEvent{
		Sequence:   7,
		Type:       EventAdded,
		OrderID:    "OrdId1",
		SecurityID: "SecId1",
		Side:       "BUY",
		Quantity:   1000,
		User:       "User1",
		Company:    "CompanyA",
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sequence": 7,
		"type": "ADDED",
		"orderId": "OrdId1",
		"securityId": "SecId1",
		"side": "BUY",
		"quantity": 1000,
		"user": "User1",
		"company": "CompanyA",
		"timestamp": "2024-01-02T03:04:05Z"
	}`, string(data))

	assert.Equal(t, "SecId1", event.Key())
}

func TestMockMessageSender(t *testing.T) {
	sender := NewMockMessageSender()
	ctx := context.Background()

	require.NoError(t, sender.SendOrderEvent(ctx, &OrderEvent{OrderID: "1"}))
	require.NoError(t, sender.SendOrderEvent(ctx, &OrderEvent{OrderID: "2"}))

	events := sender.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].OrderID)

	boom := errors.New("boom")
	sender.FailWith(boom)
	assert.ErrorIs(t, sender.SendOrderEvent(ctx, &OrderEvent{OrderID: "3"}), boom)
	assert.Len(t, sender.Events(), 2)

	assert.False(t, sender.Closed())
	require.NoError(t, sender.Close())
	assert.True(t, sender.Closed())
}
