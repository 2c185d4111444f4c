// Package otel provides OpenTelemetry span helpers shared by the dashboard packages.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for business context, shared so traces use one naming scheme.
const (
	AttrStateCode     = attribute.Key("mgnrega.state_code")
	AttrDistrictCode  = attribute.Key("mgnrega.district_code")
	AttrFinancialYear = attribute.Key("mgnrega.financial_year")
	AttrResultCount   = attribute.Key("result.count")
)

// StartSpan starts a new span if the tracer is non-nil. Otherwise it returns
// the span already carried by ctx, which is a no-op span when there is none.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks it failed. Nil spans and nil
// errors are ignored. The status description stays generic so that store
// details such as SQL only reach the exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
