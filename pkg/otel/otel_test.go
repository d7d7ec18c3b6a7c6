package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInit_CollectorDisabled(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	shutdown, err := Init(Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()

	assert.NotNil(t, GetCacheTracer())
	assert.NotNil(t, GetMeterProvider())
}

func TestStartCacheSpan(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	InitForTesting(tp.Tracer("test"))

	_, span := StartCacheSpan(context.Background(), SpanCancelOrders,
		attribute.String(AttributeCancelReason, "user"))
	AddAttributes(span, attribute.Int(AttributeRemovedCount, 2))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanCancelOrders, spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "user", attrs[AttributeCancelReason].AsString())
	assert.Equal(t, int64(2), attrs[AttributeRemovedCount].AsInt64())
}

func TestStartCacheSpan_NoopFallback(t *testing.T) {
	ResetForTesting()

	_, span := StartCacheSpan(context.Background(), SpanAddOrder)
	require.NotNil(t, span)
	span.End()

	AddAttributes(nil, attribute.String(AttributeOrderID, "ignored"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sum(data metricdata.Aggregation) int64 {
	s, ok := data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, dp := range s.DataPoints {
		total += dp.Value
	}
	return total
}

func TestCacheMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewCacheMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAdded(ctx, "SecId1")
	m.RecordAdded(ctx, "SecId1")
	m.RecordAdded(ctx, "SecId2")
	m.RecordCanceled(ctx, "user", 2)
	m.RecordCanceled(ctx, "order_id", 0)
	m.RecordMatchingSize(ctx, "SecId1", 300)
	m.RecordPublishFailure(ctx, "ADDED")

	data := collect(t, reader)
	assert.Equal(t, int64(3), sum(data["ordercache.orders.added"]))
	assert.Equal(t, int64(2), sum(data["ordercache.orders.canceled"]))
	assert.Equal(t, int64(1), sum(data["ordercache.orders.live"]))
	assert.Equal(t, int64(1), sum(data["ordercache.events.failed"]))

	hist, ok := data["ordercache.matching.size"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(300), hist.DataPoints[0].Sum)
}

func TestCacheMetrics_NilSafe(t *testing.T) {
	var m *CacheMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAdded(ctx, "SecId1")
		m.RecordCanceled(ctx, "user", 1)
		m.RecordMatchingSize(ctx, "SecId1", 10)
		m.RecordPublishFailure(ctx, "ADDED")
	})
}
