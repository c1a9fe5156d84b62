// Business-level span helpers for application services. Handlers get their
// spans from otelgin and queries from otelgorm; these helpers cover the
// transactional middle where the interesting attributes (branch, payment
// type, totals) live.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for business spans.
const TracerName = "retail-backend"

// Attribute keys for business spans.
const (
	SpanAttrOrderID     = "order_id"
	SpanAttrSaleID      = "sale_id"
	SpanAttrRegisterID  = "register_id"
	SpanAttrBranchID    = "branch_id"
	SpanAttrUserID      = "user_id"
	SpanAttrVariantID   = "variant_id"
	SpanAttrPaymentType = "payment_type"
	SpanAttrItemCount   = "item_count"
	SpanAttrQuantity    = "quantity"
	SpanAttrTotal       = "total"
)

// StartSpan starts a span on the business tracer. The caller owns span.End().
//
//	ctx, span := telemetry.StartSpan(ctx, "checkout.create_order")
//	defer span.End()
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
	}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return tracer.Start(ctx, spanName, opts...)
}

// StartServiceSpan starts a span named {service}.{method}, the convention
// used across the application layer.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method), attrs...)
}

// RecordError records an error on the span and marks its status.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a timestamped annotation to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// String builds a string span attribute.
func String(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// Int builds an int span attribute.
func Int(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}
