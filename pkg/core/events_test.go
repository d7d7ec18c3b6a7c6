package core_test

import (
	"testing"

	"github.com/erain9/ordercache/pkg/core"
	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEvent_InOrderReplay(t *testing.T) {
	sender := messaging.NewMockMessageSender()
	source := newCache(t, fixtureThirteen(), core.WithEventSender(sender))
	source.CancelOrdersForUser("User10")
	source.CancelOrder("OrdId6")
	source.CancelOrdersForSecIDWithMinimumQty("SecId2", 1000)

	replica := newCache(t, nil)
	for _, event := range sender.Events() {
		require.NoError(t, core.ApplyEvent(replica, event))
	}

	assert.Equal(t, orderIDs(source.GetAllOrders()), orderIDs(replica.GetAllOrders()))
	for _, security := range []string{"SecId1", "SecId2", "SecId3"} {
		assert.Equal(t,
			source.GetMatchingSizeForSecurity(security),
			replica.GetMatchingSizeForSecurity(security),
			security,
		)
	}
}

func TestApplyEvent_Errors(t *testing.T) {
	cache := newCache(t, nil)

	err := core.ApplyEvent(cache, &messaging.OrderEvent{Type: "MODIFIED", OrderID: "1"})
	assert.ErrorIs(t, err, core.ErrUnknownEventType)

	err = core.ApplyEvent(cache, &messaging.OrderEvent{Type: messaging.EventAdded, OrderID: "1", Side: "HOLD"})
	assert.ErrorIs(t, err, core.ErrInvalidSide)

	assert.Equal(t, 0, cache.Len())
}

func TestOrderFromEvent(t *testing.T) {
	order, err := core.OrderFromEvent(&messaging.OrderEvent{
		OrderID:    "OrdId2",
		SecurityID: "SecId2",
		Side:       "SELL",
		Quantity:   3000,
		User:       "User2",
		Company:    "CompanyB",
	})
	require.NoError(t, err)

	assert.Equal(t, "OrdId2 SELL SecId2 qty=3000 user=User2 company=CompanyB", order.String())
}
