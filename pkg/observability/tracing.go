// Package observability provides distributed tracing for pipeline runs.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the name of the tracer for pipeline operations.
const TracerName = "guestpulse"

// Span attribute keys
const (
	AttrRunID    = "run_id"
	AttrRunKind  = "run_kind"
	AttrSource   = "source"
	AttrReviewID = "review_id"
	AttrWeekKey  = "week_key"
	AttrStage    = "stage"
	AttrReviews  = "reviews"
	AttrSkipped  = "skipped"
	AttrFailed   = "failed"
)

// Span names
const (
	SpanRun     = "guestpulse.run"
	SpanIngest  = "guestpulse.stage.ingest"
	SpanAnalyze = "guestpulse.stage.analyze"
	SpanStore   = "guestpulse.stage.store"
	SpanRollup  = "guestpulse.stage.rollup"
	SpanReport  = "guestpulse.stage.report"
)

// Tracer provides distributed tracing for pipeline operations.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new pipeline tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(TracerName),
	}
}

// StartRunSpan starts a root span for a pipeline run.
func (t *Tracer) StartRunSpan(ctx context.Context, runID, kind string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanRun,
		trace.WithAttributes(
			attribute.String(AttrRunID, runID),
			attribute.String(AttrRunKind, kind),
		),
	)
}

// StartStageSpan starts a span for a pipeline stage.
func (t *Tracer) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, fmt.Sprintf("guestpulse.stage.%s", stage),
		trace.WithAttributes(
			attribute.String(AttrStage, stage),
		),
	)
}

// SpanHelper provides convenient methods for working with a span.
type SpanHelper struct {
	span trace.Span
}

// NewSpanHelper creates a new span helper for the given span.
func NewSpanHelper(span trace.Span) *SpanHelper {
	return &SpanHelper{span: span}
}

// SetCounts sets the run outcome counters on the span.
func (h *SpanHelper) SetCounts(analyzed, skipped, failed int) {
	h.span.SetAttributes(
		attribute.Int(AttrReviews, analyzed),
		attribute.Int(AttrSkipped, skipped),
		attribute.Int(AttrFailed, failed),
	)
}

// SetWeek sets the week key attribute.
func (h *SpanHelper) SetWeek(weekKey string) {
	h.span.SetAttributes(attribute.String(AttrWeekKey, weekKey))
}

// SetError records an error on the span.
func (h *SpanHelper) SetError(err error) {
	h.span.SetStatus(codes.Error, err.Error())
	h.span.RecordError(err)
}

// SetSuccess marks the span as successful.
func (h *SpanHelper) SetSuccess() {
	h.span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
