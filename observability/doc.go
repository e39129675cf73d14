// Package observability provides OpenTelemetry tracing and metrics for plan
// execution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("recq"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPlanExecute)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("recq"))
//	metrics.RecordRun(ctx, "top-accounts", "ok", 120, 10, elapsed)
//
// Runs:
//
//	run := observability.NewRunContext("top-accounts", runID, metrics)
//	ctx, span := run.Start(ctx, nil)
//	defer run.End(ctx, span, in, out, err)
package observability
