// Package orchestrator implements Orchestrator: the single
// ReAct loop (Reason -> Plan -> Risk gate -> Execute -> Observe -> Memory
// update -> Reflect -> Terminate) that drives one goal to completion.
// Grounded on the teacher's runtime/agent workflow body (the function
// registered with agent/engine as a WorkflowFunc so the same loop runs
// unmodified under agent/engine/inmem and agent/engine/temporal) for the
// reason/plan/act/reflect sequencing this package formalizes.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/njfio/fluent-agent-core/agent/action"
	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/engine"
	"github.com/njfio/fluent-agent-core/agent/memory"
	"github.com/njfio/fluent-agent-core/agent/model"
	"github.com/njfio/fluent-agent-core/agent/observation"
	"github.com/njfio/fluent-agent-core/agent/planner"
	"github.com/njfio/fluent-agent-core/agent/reflection"
	"github.com/njfio/fluent-agent-core/agent/risk"
	"github.com/njfio/fluent-agent-core/agent/telemetry"
)

// WorkflowName is the name this orchestrator registers under with
// agent/engine, for both the in-memory and Temporal backends.
const WorkflowName = "fluent_agent.execute_goal"

// Default reasoning retry parameters failure semantics.
const (
	defaultRetryAttempts = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryFactor = 2.0
	defaultMaxIterations = 25
	defaultWatchdogDuration = 180 * time.Second
)

// Config configures one Orchestrator. Zero values fall back to documented
// defaults.
type Config struct {
	// MaxIterations caps loop ticks when Goal.MaxIterations is unset. Zero
	// uses defaultMaxIterations.
	MaxIterations int
	// Watchdog bounds wall-clock run time when Goal.Timeout is unset. Zero
	// uses defaultWatchdogDuration.
	Watchdog time.Duration
	// DryRun substitutes action.DryRun for the configured Executor and skips
	// risk-gate blocking dry-run mode.
	DryRun bool
	// RiskCeiling is the maximum RiskLevel a plan may carry before the risk
	// gate downgrades it to a no-op analysis plan.
	RiskCeiling core.RiskLevel
	// RetryAttempts/RetryBaseDelay/RetryFactor configure the reasoning-call
	// exponential backoff. Zero values use the documented defaults above.
	RetryAttempts int
	RetryBaseDelay time.Duration
	RetryFactor float64

	Logger telemetry.Logger
	Metrics telemetry.Metrics
	Tracer telemetry.Tracer
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	if c.Watchdog <= 0 {
		c.Watchdog = defaultWatchdogDuration
	}
	if c.RiskCeiling == "" {
		c.RiskCeiling = core.RiskHigh
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = defaultRetryAttempts
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = defaultRetryBaseDelay
	}
	if c.RetryFactor <= 0 {
		c.RetryFactor = defaultRetryFactor
	}
	if c.Logger == nil {
		c.Logger = telemetry.NoopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = telemetry.NoopMetrics{}
	}
	if c.Tracer == nil {
		c.Tracer = telemetry.NoopTracer{}
	}
	return c
}

// Orchestrator wires every capability interface names into the
// single ReAct loop.
type Orchestrator struct {
	Reasoning model.Engine
	Planner planner.Planner
	Risk *risk.Assessor
	Executor action.Executor
	Observer *observation.Processor
	Memory *memory.System
	Reflection *reflection.Engine

	Config Config

	// Now is the clock used for elapsed-time/watchdog accounting. Defaults to
	// time.Now; set in tests for determinism.
	Now func() time.Time
	// Sleep is used between reasoning retries. Defaults to time.Sleep;
	// overridden in tests to avoid real delays.
	Sleep func(time.Duration)
}

// New builds an Orchestrator from its collaborators and cfg. DryRun, when
// set, overrides executor with action.DryRun{} regardless of the executor
// passed in dry-run mode.
func New(
	reasoning model.Engine,
	plan planner.Planner,
	riskAssessor *risk.Assessor,
	executor action.Executor,
	observer *observation.Processor,
	mem *memory.System,
	refl *reflection.Engine,
	cfg Config,
) *Orchestrator {
	cfg = cfg.withDefaults()
	if cfg.DryRun {
		executor = action.DryRun{}
	}
	return &Orchestrator{
		Reasoning: reasoning,
		Planner: plan,
		Risk: riskAssessor,
		Executor: executor,
		Observer: observer,
		Memory: mem,
		Reflection: refl,
		Config: cfg,
		Now: time.Now,
		Sleep: time.Sleep,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) sleep(d time.Duration) {
	if o.Sleep != nil {
		o.Sleep(d)
		return
	}
	time.Sleep(d)
}

// AsWorkflow adapts ExecuteGoal to engine.WorkflowFunc, so the exact same
// loop body registers under agent/engine/inmem and agent/engine/temporal
// without the loop itself knowing which backend it runs on. input must be
// *core.Goal.
func (o *Orchestrator) AsWorkflow() engine.WorkflowFunc {
	return func(wctx engine.WorkflowContext, input any) (any, error) {
		goal, ok := input.(*core.Goal)
		if !ok {
			return nil, agenterrors.New(agenterrors.KindValidation, "execute_goal workflow requires a *core.Goal input")
		}
		return o.ExecuteGoal(wctx.Context(), goal)
	}
}

// ExecuteGoal runs full loop to completion: repeated ticks of
// Reason -> Plan -> Risk gate -> Execute -> Observe -> Memory update ->
// Reflect (conditional) -> Terminate, bounded by MaxIterations and the
// watchdog, until a termination condition is met.
//
// Cancellation (ctx.Done, or the watchdog deadline) is observed only at two
// loop-boundary checkpoints: after Execute (step 4) and after the
// conditional Reflect step (step 6/7). No in-flight reasoning,
// planning, or action call is interrupted mid-call.
func (o *Orchestrator) ExecuteGoal(ctx context.Context, goal *core.Goal) (core.ExecutionSummary, error) {
	start := o.now()
	deadline := start.Add(o.watchdog(goal))
	maxIter := o.maxIterations(goal)

	execCtx := core.NewExecutionContext(goal)

	var (
		errs []core.ReportedError
		timedOut bool
	)

	for {
		if execCtx.IterationCount() >= maxIter {
			break
		}

		reasoning, err := o.reason(ctx, execCtx)
		if err != nil {
			ae := agenterrors.FromError(err)
			errs = append(errs, core.ReportedError{Kind: string(ae.Kind), Message: ae.Message})
			if ae.Kind.Fatal() {
				break
			}
			execCtx.AppendEvent(core.ExecutionEvent{
					Type: core.EventErrorOccurred, Timestamp: o.now(),
					Message: ae.Message,
				})
			execCtx.IncrementIteration()
			continue
		}

		plan, err := o.Planner.PlanAction(reasoning, execCtx)
		if err != nil {
			// Planner failures are non-fatal: record and continue to the next
			// iteration rather than aborting the run.
			ae := agenterrors.FromError(err)
			errs = append(errs, core.ReportedError{Kind: string(ae.Kind), Message: ae.Message})
			execCtx.AppendEvent(core.ExecutionEvent{
					Type: core.EventErrorOccurred, Timestamp: o.now(),
					Message: ae.Message,
				})
			execCtx.IncrementIteration()
			continue
		}

		plan = risk.Gate(o.Risk, plan, execCtx, o.Config.RiskCeiling, o.Config.DryRun)

		execCtx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskStarted, Timestamp: o.now(), TaskID: plan.ID})
		result := o.Executor.Execute(ctx, plan, execCtx)
		if result.Success {
			execCtx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskCompleted, Timestamp: o.now(), TaskID: plan.ID})
		} else {
			execCtx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskFailed, Timestamp: o.now(), TaskID: plan.ID, Message: result.Error})
		}

		// Checkpoint 1 (after step 4, Execute): cancellation/deadline observed
		// here, after the in-flight action has already returned.
		if done, reason := o.checkTermination(ctx, deadline); done {
			timedOut = reason == reasonTimeout
			obs := o.Observer.Process(result, execCtx)
			execCtx.AppendObservation(obs)
			execCtx.IncrementIteration()
			break
		}

		obs := o.Observer.Process(result, execCtx)
		execCtx.AppendObservation(obs)

		if _, err := o.Memory.Tick(ctx, execCtx, o.now()); err != nil {
			ae := agenterrors.FromError(err)
			errs = append(errs, core.ReportedError{Kind: string(ae.Kind), Message: ae.Message})
		}

		if trigger, should := o.Reflection.ShouldReflect(execCtx); should {
			res := o.Reflection.Reflect(execCtx, trigger)
			for _, adj := range res.StrategyAdjustments {
				execCtx.AppendStrategyAdjustment(adj)
			}
			if len(res.StrategyAdjustments) > 0 {
				last := res.StrategyAdjustments[len(res.StrategyAdjustments)-1]
				execCtx.SetVariable("last_strategy_adjustment", string(last.Type))
			}
		}

		execCtx.IncrementIteration()

		// Checkpoint 2 (after step 6/7, Reflect): cancellation/deadline
		// observed at the loop boundary before the next tick starts.
		if done, reason := o.checkTermination(ctx, deadline); done {
			timedOut = reason == reasonTimeout
			break
		}

		if o.goalSatisfied(goal, execCtx) {
			break
		}
	}

	return o.buildSummary(goal, execCtx, start, errs, timedOut), nil
}

type terminationReason int

const (
	reasonNone terminationReason = iota
	reasonTimeout
	reasonCanceled
)

func (o *Orchestrator) checkTermination(ctx context.Context, deadline time.Time) (bool, terminationReason) {
	if o.now().After(deadline) {
		return true, reasonTimeout
	}
	select {
	case <-ctx.Done():
		return true, reasonCanceled
	default:
		return false, reasonNone
	}
}

func (o *Orchestrator) watchdog(goal *core.Goal) time.Duration {
	if goal != nil && goal.Timeout > 0 {
		return goal.Timeout
	}
	return o.Config.Watchdog
}

// maxIterations resolves the tick cap for goal. A negative Goal.MaxIterations
// (NewGoal's default) means "use the run-scope default"; a literal zero caps
// the run at zero ticks, so the loop returns immediately with success=false.
func (o *Orchestrator) maxIterations(goal *core.Goal) int {
	if goal != nil && goal.MaxIterations >= 0 {
		return goal.MaxIterations
	}
	return o.Config.MaxIterations
}

// reason calls the ReasoningEngine with exponential backoff retry: base
// delay, doubling factor, defaultRetryAttempts attempts
// failure semantics for reasoning calls.
func (o *Orchestrator) reason(ctx context.Context, execCtx *core.ExecutionContext) (core.ReasoningResult, error) {
	req := o.buildRequest(execCtx)

	var lastErr error
	delay := o.Config.RetryBaseDelay
	for attempt := 1; attempt <= o.Config.RetryAttempts; attempt++ {
		resp, err := o.Reasoning.Execute(ctx, req)
		if err == nil {
			return core.ReasoningResult{
				Content: resp.Content,
				Model: resp.Model,
				FinishReason: resp.FinishReason,
				Usage: core.Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens},
				Cost: resp.Cost,
			}, nil
		}
		lastErr = err
		if attempt == o.Config.RetryAttempts {
			break
		}
		o.sleep(delay)
		delay = time.Duration(float64(delay) * o.Config.RetryFactor)
	}
	return core.ReasoningResult{}, agenterrors.NewWithCause(agenterrors.KindEngine,
		fmt.Sprintf("reasoning call failed after %d attempts", o.Config.RetryAttempts), lastErr)
}

func (o *Orchestrator) buildRequest(execCtx *core.ExecutionContext) model.Request {
	goal := execCtx.Goal()
	description := ""
	if goal != nil {
		description = goal.Description
	}
	messages := []model.Message{
		{Role: "system", Content: "You are an autonomous agent working toward a goal."},
		{Role: "user", Content: description},
	}
	for _, obs := range execCtx.RecentObservations(5) {
		messages = append(messages, model.Message{Role: "assistant", Content: obs.Content})
	}
	return model.Request{
		Flowname: "agent.reason",
		Messages: messages,
	}
}

func (o *Orchestrator) goalSatisfied(goal *core.Goal, execCtx *core.ExecutionContext) bool {
	if goal == nil || len(goal.SuccessCriteria) == 0 {
		return false
	}
	for _, criterion := range goal.SuccessCriteria {
		if !Evaluate(criterion, execCtx) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) buildSummary(
	goal *core.Goal,
	execCtx *core.ExecutionContext,
	start time.Time,
	errs []core.ReportedError,
	timedOut bool,
) core.ExecutionSummary {
	elapsed := o.now().Sub(start)
	success := !timedOut && o.goalSatisfied(goal, execCtx)

	var lastObs *core.Observation
	if obs, ok := execCtx.LatestObservation(); ok {
		lastObs = &obs
	}

	return core.ExecutionSummary{
		Success: success,
		IterationCount: execCtx.IterationCount(),
		Elapsed: elapsed,
		Goal: goal,
		LastObservation: lastObs,
		Errors: errs,
		StrategyAdjustments: execCtx.StrategyAdjustments(),
		TimedOut: timedOut,
		Metrics: core.RunMetrics{
			IterationsUsed: execCtx.IterationCount(),
			WallTime: elapsed,
			Success: success,
		},
	}
}
