package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recq/errors"
)

// RunContext tracks the span and metrics of a single plan execution.
type RunContext struct {
	Plan      string
	RunID     string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRunContext creates a run context. If metrics is nil, metric recording is
// skipped.
func NewRunContext(plan, runID string, metrics *Metrics) *RunContext {
	return &RunContext{
		Plan:      plan,
		RunID:     runID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// Start opens the plan.execute span. A nil tracer uses the global provider.
func (rc *RunContext) Start(ctx context.Context, tracer trace.Tracer) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer(defaultTracerName)
	}
	ctx, span := tracer.Start(ctx, SpanPlanExecute, trace.WithAttributes(
		attribute.String(AttrPlanName, rc.Plan),
		attribute.String(AttrRunID, rc.RunID),
	))
	return WithRunContext(ctx, rc), span
}

// End closes the span and records the run. in and out are the input record
// count and the produced record or group count.
func (rc *RunContext) End(ctx context.Context, span trace.Span, in, out int, err error) {
	elapsed := rc.Duration()
	status := "ok"
	if err != nil {
		status = "error"
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorCode, code))
		if rc.Metrics != nil {
			rc.Metrics.RecordError(ctx, rc.Plan, code)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrRecordsIn, in),
		attribute.Int(AttrRecordsOut, out),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRun(ctx, rc.Plan, status, in, out, elapsed)
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
