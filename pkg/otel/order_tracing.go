package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Span names
	SpanAddOrder     = "add_order"
	SpanCancelOrders = "cancel_orders"
	SpanMatchingSize = "matching_size"

	// Attribute keys
	AttributeOrderID      = "order.id"
	AttributeOrderSide    = "order.side"
	AttributeSecurityID   = "order.security_id"
	AttributeQuantity     = "order.quantity"
	AttributeCancelReason = "cancel.reason"
	AttributeRemovedCount = "cancel.removed"
	AttributeMatchedSize  = "match.size"
)

// StartCacheSpan starts a new span for a cache operation
func StartCacheSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetCacheTracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddAttributes adds attributes to a span
func AddAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}
