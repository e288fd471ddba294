package temporal

import (
	"context"
	"time"

	tmptemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/njfio/fluent-agent-core/agent/engine"
	"github.com/njfio/fluent-agent-core/agent/telemetry"
)

// workflowContext adapts a Temporal workflow.Context into engine.WorkflowContext.
// Grounded on the teacher's temporalWorkflowContext: same deterministic-time,
// activity-execution, and signal-channel seam, trimmed of the typed
// planner/tool activity helpers and child-workflow routing this port has no
// equivalent domain concept for (the orchestrator has exactly one workflow).
type workflowContext struct {
	engine *Engine
	ctx workflow.Context
	workflowID string
	runID string
}

func newWorkflowContext(e *Engine, ctx workflow.Context) *workflowContext {
	info := workflow.GetInfo(ctx)
	wc := &workflowContext{
		engine: e,
		ctx: ctx,
		workflowID: info.WorkflowExecution.ID,
		runID: info.WorkflowExecution.RunID,
	}
	e.workflowContexts.Store(wc.runID, wc)
	return wc
}

func (w *workflowContext) Context() context.Context {
	return engine.WithWorkflowContext(context.Background(), w)
}

func (w *workflowContext) WorkflowID() string { return w.workflowID }
func (w *workflowContext) RunID() string { return w.runID }

func (w *workflowContext) Logger() telemetry.Logger { return w.engine.logger }
func (w *workflowContext) Metrics() telemetry.Metrics { return w.engine.metrics }
func (w *workflowContext) Tracer() telemetry.Tracer { return w.engine.tracer }

// Now returns workflow.Now, Temporal's replay-safe clock. Workflow code must
// never call time.Now directly; see doc.go.
func (w *workflowContext) Now() time.Time {
	return workflow.Now(w.ctx)
}

func (w *workflowContext) ExecuteActivity(_ context.Context, req engine.ActivityRequest, result any) error {
	opts := activityOptions(req)
	actCtx := workflow.WithActivityOptions(w.ctx, opts)
	future := workflow.ExecuteActivity(actCtx, req.Name, req.Input)
	return normalizeError(future.Get(actCtx, result))
}

func (w *workflowContext) ExecuteActivityAsync(_ context.Context, req engine.ActivityRequest) (engine.Future, error) {
	opts := activityOptions(req)
	actCtx := workflow.WithActivityOptions(w.ctx, opts)
	future := workflow.ExecuteActivity(actCtx, req.Name, req.Input)
	return &temporalFuture{ctx: actCtx, future: future}, nil
}

func (w *workflowContext) SignalChannel(name string) engine.SignalChannel {
	return &temporalSignalChannel{ctx: w.ctx, ch: workflow.GetSignalChannel(w.ctx, name)}
}

type temporalFuture struct {
	ctx workflow.Context
	future workflow.Future
}

func (f *temporalFuture) Get(_ context.Context, result any) error {
	return normalizeError(f.future.Get(f.ctx, result))
}

func (f *temporalFuture) IsReady() bool {
	return f.future.IsReady()
}

type temporalSignalChannel struct {
	ctx workflow.Context
	ch workflow.ReceiveChannel
}

func (s *temporalSignalChannel) Receive(_ context.Context, dest any) error {
	s.ch.Receive(s.ctx, dest)
	return nil
}

func (s *temporalSignalChannel) ReceiveAsync(dest any) bool {
	return s.ch.ReceiveAsync(dest)
}

// activityOptions applies req's timeout/retry policy over sensible
// defaults. A zero Timeout still needs a finite Temporal
// StartToCloseTimeout, so it falls back to a minute rather than Temporal's
// reject-on-missing-timeout behavior.
func activityOptions(req engine.ActivityRequest) workflow.ActivityOptions {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	opts := workflow.ActivityOptions{
		TaskQueue: req.Queue,
		StartToCloseTimeout: timeout,
	}
	if rp := convertRetryPolicy(req.RetryPolicy); rp != nil {
		opts.RetryPolicy = rp
	}
	return opts
}

// normalizeError translates Temporal's cancellation error into
// context.Canceled so callers can classify cancellation the same way across
// engine backends without importing the Temporal SDK.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if tmptemporal.IsCanceledError(err) {
		return context.Canceled
	}
	return err
}
