package temporal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	tmptemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/njfio/fluent-agent-core/agent/engine"
	"github.com/njfio/fluent-agent-core/agent/telemetry"
)

// Options configures the Temporal engine adapter.
type Options struct {
	// Client is a pre-configured Temporal client. If nil, ClientOptions builds
	// one lazily.
	Client client.Client
	// ClientOptions builds a client when Client is nil. Required in that case.
	ClientOptions *client.Options
	// TaskQueue is the default queue used when a WorkflowDefinition/
	// ActivityDefinition omits one. Required.
	TaskQueue string
	// WorkerOptions is forwarded to worker.New.
	WorkerOptions worker.Options

	Logger telemetry.Logger
	Metrics telemetry.Metrics
	Tracer telemetry.Tracer
}

// Engine implements engine.Engine against a single Temporal task queue.
// Grounded on the teacher's runtime/agent/engine/temporal.Engine, trimmed
// from a per-queue worker pool down to one default queue since this
// orchestrator registers exactly one workflow (the ReAct loop) and a fixed
// set of activities.
type Engine struct {
	client client.Client
	closeClient bool
	queue string
	worker worker.Worker

	logger telemetry.Logger
	metrics telemetry.Metrics
	tracer telemetry.Tracer

	mu sync.Mutex
	workflows map[string]engine.WorkflowDefinition
	started bool

	workflowContexts sync.Map // runID -> *workflowContext
}

// New constructs a Temporal engine adapter bound to a single task queue.
func New(opts Options) (*Engine, error) {
	if opts.TaskQueue == "" {
		return nil, fmt.Errorf("temporal engine: task queue is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NoopLogger{}
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NoopMetrics{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.NoopTracer{}
	}

	cli := opts.Client
	closeClient := false
	if cli == nil {
		if opts.ClientOptions == nil {
			return nil, fmt.Errorf("temporal engine: client or client options are required")
		}
		var err error
		cli, err = client.NewLazyClient(*opts.ClientOptions)
		if err != nil {
			return nil, fmt.Errorf("temporal engine: create client: %w", err)
		}
		closeClient = true
	}

	return &Engine{
		client: cli,
		closeClient: closeClient,
		queue: opts.TaskQueue,
		worker: worker.New(cli, opts.TaskQueue, opts.WorkerOptions),
		logger: logger,
		metrics: metrics,
		tracer: tracer,
		workflows: make(map[string]engine.WorkflowDefinition),
	}, nil
}

// RegisterWorkflow registers def with Temporal, wrapping it so the handler
// sees an engine.WorkflowContext rather than a raw workflow.Context.
func (e *Engine) RegisterWorkflow(_ context.Context, def engine.WorkflowDefinition) error {
	if def.Name == "" || def.Handler == nil {
		return errors.New("temporal engine: invalid workflow definition")
	}
	e.mu.Lock()
	if _, dup := e.workflows[def.Name]; dup {
		e.mu.Unlock()
		return fmt.Errorf("temporal engine: workflow %q already registered", def.Name)
	}
	e.workflows[def.Name] = def
	e.mu.Unlock()

	e.worker.RegisterWorkflowWithOptions(
		func(tctx workflow.Context, input any) (any, error) {
			wfCtx := newWorkflowContext(e, tctx)
			defer e.workflowContexts.Delete(wfCtx.runID)
			return def.Handler(wfCtx, input)
		},
		workflow.RegisterOptions{Name: def.Name},
	)
	return nil
}

// RegisterActivity registers def with Temporal.
func (e *Engine) RegisterActivity(_ context.Context, def engine.ActivityDefinition) error {
	if def.Name == "" || def.Handler == nil {
		return errors.New("temporal engine: invalid activity definition")
	}
	e.worker.RegisterActivityWithOptions(
		func(actx context.Context, input any) (any, error) {
			return def.Handler(engine.WithActivityContext(actx), input)
		},
		activity.RegisterOptions{Name: def.Name},
	)
	return nil
}

// StartWorkflow starts a Temporal workflow execution. Its first call also
// starts the worker polling, matching the teacher's auto-start default.
func (e *Engine) StartWorkflow(ctx context.Context, req engine.WorkflowStartRequest) (engine.WorkflowHandle, error) {
	if req.Workflow == "" {
		return nil, errors.New("temporal engine: workflow name is required")
	}
	e.mu.Lock()
	_, ok := e.workflows[req.Workflow]
	if !e.started {
		e.started = true
		go e.runWorker()
	}
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("temporal engine: workflow %q is not registered", req.Workflow)
	}

	startOpts := client.StartWorkflowOptions{
		ID: req.ID,
		TaskQueue: taskQueueOrDefault(req.TaskQueue, e.queue),
	}
	if rp := convertRetryPolicy(req.RetryPolicy); rp != nil {
		startOpts.RetryPolicy = rp
	}

	run, err := e.client.ExecuteWorkflow(ctx, startOpts, req.Workflow, req.Input)
	if err != nil {
		return nil, err
	}
	return &workflowHandle{run: run, client: e.client}, nil
}

// Close shuts down the Temporal client this engine created, if any.
func (e *Engine) Close() error {
	if e.closeClient && e.client != nil {
		e.client.Close()
	}
	return nil
}

func (e *Engine) runWorker() {
	if err := e.worker.Run(worker.InterruptCh()); err != nil {
		e.logger.Error(context.Background(), "temporal worker exited", "queue", e.queue, "err", err)
	}
}

func taskQueueOrDefault(queue, fallback string) string {
	if queue != "" {
		return queue
	}
	return fallback
}

func convertRetryPolicy(r engine.RetryPolicy) *tmptemporal.RetryPolicy {
	if r.MaxAttempts == 0 && r.InitialInterval == 0 && r.BackoffCoefficient == 0 {
		return nil
	}
	policy := &tmptemporal.RetryPolicy{}
	if r.MaxAttempts > 0 {
		policy.MaximumAttempts = int32(r.MaxAttempts)
	}
	if r.InitialInterval > 0 {
		policy.InitialInterval = r.InitialInterval
	}
	if r.BackoffCoefficient > 0 {
		policy.BackoffCoefficient = r.BackoffCoefficient
	}
	return policy
}

type workflowHandle struct {
	run client.WorkflowRun
	client client.Client
}

func (h *workflowHandle) Wait(ctx context.Context, result any) error {
	return h.run.Get(ctx, result)
}

func (h *workflowHandle) Signal(ctx context.Context, name string, payload any) error {
	return h.client.SignalWorkflow(ctx, h.run.GetID(), h.run.GetRunID(), name, payload)
}

func (h *workflowHandle) Cancel(ctx context.Context) error {
	return h.client.CancelWorkflow(ctx, h.run.GetID(), h.run.GetRunID())
}
