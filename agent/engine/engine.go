// Package engine defines the pluggable workflow-engine abstraction
// realizes through durable execution backends. An Engine decides where the
// orchestrator's ReAct loop actually runs; it never decides what the loop
// does. Grounded on the teacher's runtime/agent/engine package: the same
// register-then-start shape, the same WorkflowContext seam for
// activity/signal access, narrowed to the single long-running workflow (one
// goal run) this orchestrator needs instead of the teacher's multi-agent
// workflow registry.
package engine

import (
	"context"
	"time"

	"github.com/njfio/fluent-agent-core/agent/telemetry"
)

type (
	// Engine abstracts workflow registration and execution so adapters
	// (in-memory, Temporal, or others) can be swapped without touching the
	// orchestrator loop. See agent/engine/inmem and agent/engine/temporal.
	Engine interface {
		// RegisterWorkflow registers a workflow definition. Called once during
		// startup before any StartWorkflow call.
		RegisterWorkflow(ctx context.Context, def WorkflowDefinition) error

		// RegisterActivity registers an activity definition. Activities are the
		// engine's unit of true suspension: reasoning calls, tool execution, and
		// memory consolidation writes are each registered as one.
		RegisterActivity(ctx context.Context, def ActivityDefinition) error

		// StartWorkflow starts a new workflow execution and returns a handle to
		// it. req.ID must be unique for the engine instance.
		StartWorkflow(ctx context.Context, req WorkflowStartRequest) (WorkflowHandle, error)
	}

	// WorkflowDefinition binds the orchestrator loop to a logical name and
	// default task queue.
	WorkflowDefinition struct {
		Name string
		TaskQueue string
		Handler WorkflowFunc
	}

	// WorkflowFunc is the orchestrator's ReAct loop entry point. It must be
	// deterministic under replay: all non-deterministic work (reasoning calls,
	// tool execution, wall-clock reads) goes through WorkflowContext rather
	// than direct I/O or time.Now, so the Temporal adapter can replay it.
	WorkflowFunc func(ctx WorkflowContext, input any) (any, error)

	// WorkflowContext exposes engine operations to the running workflow:
	// activity execution, signal delivery, and observability, uniformly across
	// backends.
	//
	// Thread-safety: bound to one workflow execution, not shared across
	// goroutines — activity/signal calls are serialized by the engine.
	WorkflowContext interface {
		// Context returns the Go context for the workflow. Pass this to anything
		// that needs cancellation propagation.
		Context() context.Context

		// WorkflowID returns the caller-assigned identifier for this run.
		WorkflowID() string

		// RunID returns the engine-assigned run identifier.
		RunID() string

		// ExecuteActivity schedules req and blocks until it completes,
		// populating result.
		ExecuteActivity(ctx context.Context, req ActivityRequest, result any) error

		// ExecuteActivityAsync schedules req without blocking, returning a
		// Future to collect the result from later.
		ExecuteActivityAsync(ctx context.Context, req ActivityRequest) (Future, error)

		// SignalChannel returns the channel for name, used to deliver external
		// cancellation/pause signals into a running workflow.
		SignalChannel(name string) SignalChannel

		Logger() telemetry.Logger
		Metrics() telemetry.Metrics
		Tracer() telemetry.Tracer

		// Now returns the current time in a replay-safe manner. Workflow code
		// must never call time.Now directly.
		Now() time.Time
	}

	// Future is a pending activity result. Get blocks until ready; IsReady lets
	// workflow code poll without blocking.
	Future interface {
		Get(ctx context.Context, result any) error
		IsReady() bool
	}

	// ActivityDefinition registers one activity handler.
	ActivityDefinition struct {
		Name string
		Handler ActivityFunc
		Options ActivityOptions
	}

	// ActivityFunc performs one unit of true side-effecting work (a reasoning
	// call, a tool invocation, a memory write). Unlike WorkflowFunc, activities
	// may perform I/O freely.
	ActivityFunc func(ctx context.Context, input any) (any, error)

	// ActivityOptions configures retry/timeout behavior for an activity.
	ActivityOptions struct {
		Queue string
		RetryPolicy RetryPolicy
		Timeout time.Duration
	}

	// WorkflowStartRequest describes how to launch one workflow execution.
	WorkflowStartRequest struct {
		ID string
		Workflow string
		TaskQueue string
		Input any
		RetryPolicy RetryPolicy
	}

	// ActivityRequest schedules one activity invocation from within a
	// workflow.
	ActivityRequest struct {
		Name string
		Input any
		Queue string
		RetryPolicy RetryPolicy
		Timeout time.Duration
	}

	// WorkflowHandle lets callers interact with a started workflow.
	WorkflowHandle interface {
		// Wait blocks until the workflow completes, populating result.
		Wait(ctx context.Context, result any) error
		// Signal delivers an asynchronous message to the workflow.
		Signal(ctx context.Context, name string, payload any) error
		// Cancel requests cancellation. In-flight activities may be cancelled
		// depending on the engine.
		Cancel(ctx context.Context) error
	}

	// RetryPolicy is shared retry configuration for workflows and activities.
	// Zero fields mean "use the engine default."
	RetryPolicy struct {
		MaxAttempts int
		InitialInterval time.Duration
		BackoffCoefficient float64
	}

	// SignalChannel exposes signal delivery uniformly across engines.
	SignalChannel interface {
		Receive(ctx context.Context, dest any) error
		ReceiveAsync(dest any) bool
	}
)
