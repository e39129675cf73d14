package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/logger"
	"github.com/kbukum/recq/observability"
	"github.com/kbukum/recq/query"
)

// Input is the data a plan runs over. Previous is only read by diff output.
type Input struct {
	Records  []Record `json:"records"`
	Previous []Record `json:"previous,omitempty"`
}

// Result is the outcome of one plan execution. Exactly one of Records,
// Groups and Value is set, depending on the output mode.
type Result struct {
	RunID       string        `json:"run_id"`
	Plan        string        `json:"plan"`
	InputCount  int           `json:"input_count"`
	OutputCount int           `json:"output_count"`
	Records     []Record      `json:"records,omitempty"`
	Groups      []Group       `json:"groups,omitempty"`
	Value       any           `json:"value,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// Executor runs plans. It is safe for concurrent use.
type Executor struct {
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.Metrics
	maxRecords int
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithTracer sets the tracer for run and step spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// WithMetrics enables run metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithMaxRecords rejects inputs with more than n records. Zero means no limit.
func WithMaxRecords(n int) Option {
	return func(e *Executor) { e.maxRecords = n }
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.GetGlobalLogger()
	}
	e.log = e.log.WithComponent("executor")
	if e.tracer == nil {
		e.tracer = observability.Tracer("github.com/kbukum/recq/plan")
	}
	return e
}

// Execute validates p and runs it over in. The first failing step stops the
// run; its error is returned unchanged.
func (e *Executor) Execute(ctx context.Context, p *Plan, in Input) (res *Result, err error) {
	if p == nil {
		return nil, errors.InvalidInput("plan", "plan is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if e.maxRecords > 0 {
		if len(in.Records) > e.maxRecords {
			return nil, errors.PayloadTooLarge("records", len(in.Records), e.maxRecords)
		}
		if len(in.Previous) > e.maxRecords {
			return nil, errors.PayloadTooLarge("previous", len(in.Previous), e.maxRecords)
		}
	}

	runID := uuid.NewString()
	log := e.log.WithFields(logger.Fields(logger.FieldPlan, p.Name, logger.FieldRunID, runID))
	run := observability.NewRunContext(p.Name, runID, e.metrics)
	ctx, span := run.Start(ctx, e.tracer)
	outputCount := 0
	defer func() {
		run.End(ctx, span, len(in.Records), outputCount, err)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetail(errors.DetailRunID, runID)
			}
			log.Error("plan failed", logger.MergeWithDuration(logger.ErrorFields("execute", err), run.Duration()))
		}
	}()

	log.Debug("plan started", logger.Fields(logger.FieldRecordsIn, len(in.Records), logger.FieldStep, len(p.Steps)))

	stage := query.OfType(in.Records, "plan.Record")
	var groupBy []string
	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}
		stage, err = e.runStep(ctx, stage, i, step)
		if err != nil {
			return nil, err
		}
		if step.Op == OpRollup {
			groupBy = step.GroupBy
		}
	}

	out, err := collect(stage, p.Output, groupBy, in.Previous)
	if err != nil {
		return nil, err
	}
	outputCount = out.count

	res = &Result{
		RunID:       runID,
		Plan:        p.Name,
		InputCount:  len(in.Records),
		OutputCount: out.count,
		Records:     out.records,
		Groups:      out.groups,
		Value:       out.value,
		Duration:    run.Duration(),
	}
	log.Info("plan completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldRecordsIn, res.InputCount,
		logger.FieldRecordsOut, res.OutputCount,
	), res.Duration))
	return res, nil
}

func (e *Executor) runStep(ctx context.Context, s *query.Stage[Record], i int, step Step) (*query.Stage[Record], error) {
	_, span := e.tracer.Start(ctx, observability.SpanPlanStep, trace.WithAttributes(
		attribute.Int(observability.AttrStepIndex, i),
		attribute.String(observability.AttrStepOp, step.Op),
	))
	defer span.End()

	next, err := apply(s, step)
	if err == nil {
		err = next.Err()
	}
	if err != nil {
		span.RecordError(err)
		return nil, withStep(err, i, step.Op)
	}
	span.SetAttributes(attribute.Int(observability.AttrRecordsOut, next.Len()))
	e.log.Debug("step applied", logger.Fields(
		logger.FieldStep, i,
		logger.FieldOperation, step.Op,
		logger.FieldRecordsOut, next.Len(),
	))
	return next, nil
}

// withStep records which step failed on an AppError.
func withStep(err error, i int, op string) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail("step", i).WithDetail("step_op", op)
	}
	return fmt.Errorf("step %d (%s): %w", i, op, err)
}
