package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	cacheMetrics     *CacheMetrics
	cacheMetricsOnce sync.Once
)

// CacheMetrics holds metrics for order cache operations. A nil
// *CacheMetrics records nothing.
type CacheMetrics struct {
	ordersAdded     metric.Int64Counter
	ordersCanceled  metric.Int64Counter
	liveOrders      metric.Int64UpDownCounter
	matchingSize    metric.Int64Histogram
	publishFailures metric.Int64Counter
}

// NewCacheMetrics creates the cache instruments on meter
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	ordersAdded, err := meter.Int64Counter(
		"ordercache.orders.added",
		metric.WithDescription("Total number of orders added"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	ordersCanceled, err := meter.Int64Counter(
		"ordercache.orders.canceled",
		metric.WithDescription("Total number of orders removed by cancellation"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	liveOrders, err := meter.Int64UpDownCounter(
		"ordercache.orders.live",
		metric.WithDescription("Number of orders currently stored"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	matchingSize, err := meter.Int64Histogram(
		"ordercache.matching.size",
		metric.WithDescription("Matched quantity returned by matching size queries"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	publishFailures, err := meter.Int64Counter(
		"ordercache.events.failed",
		metric.WithDescription("Order events that could not be published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		ordersAdded:     ordersAdded,
		ordersCanceled:  ordersCanceled,
		liveOrders:      liveOrders,
		matchingSize:    matchingSize,
		publishFailures: publishFailures,
	}, nil
}

// GetCacheMetrics returns the CacheMetrics singleton built on the global
// meter provider
func GetCacheMetrics() *CacheMetrics {
	cacheMetricsOnce.Do(func() {
		m, err := NewCacheMetrics(GetMeterProvider().Meter(instrumentationName))
		if err != nil {
			return
		}
		cacheMetrics = m
	})
	return cacheMetrics
}

// RecordAdded counts one added order
func (m *CacheMetrics) RecordAdded(ctx context.Context, securityID string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttributeSecurityID, securityID))
	m.ordersAdded.Add(ctx, 1, attrs)
	m.liveOrders.Add(ctx, 1)
}

// RecordCanceled counts orders removed for reason
func (m *CacheMetrics) RecordCanceled(ctx context.Context, reason string, count int64) {
	if m == nil || count == 0 {
		return
	}
	m.ordersCanceled.Add(ctx, count, metric.WithAttributes(attribute.String(AttributeCancelReason, reason)))
	m.liveOrders.Add(ctx, -count)
}

// RecordMatchingSize records the result of a matching size query
func (m *CacheMetrics) RecordMatchingSize(ctx context.Context, securityID string, size uint64) {
	if m == nil {
		return
	}
	m.matchingSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String(AttributeSecurityID, securityID)))
}

// RecordPublishFailure counts an event that could not be published
func (m *CacheMetrics) RecordPublishFailure(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.publishFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("event.type", eventType)))
}
