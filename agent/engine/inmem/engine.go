// Package inmem implements engine.Engine as a single-process, goroutine-based
// engine. This is the default backend: the ReAct loop runs as a plain Go
// function and external calls (reasoning, tool execution, consolidation) are
// ordinary blocking calls, matching single-threaded cooperative
// scheduling. It is not replay-safe and carries no durability guarantee.
// Grounded on the teacher's runtime/agent/engine/inmem package, narrowed to
// the subset the single-goal orchestrator workflow needs (no child
// workflows, no run-status query table).
package inmem

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/njfio/fluent-agent-core/agent/engine"
	"github.com/njfio/fluent-agent-core/agent/telemetry"
)

type (
	eng struct {
		mu sync.RWMutex
		workflows map[string]engine.WorkflowDefinition
		activities map[string]activityEntry
	}

	activityEntry struct {
		handler engine.ActivityFunc
		opts engine.ActivityOptions
	}

	handle struct {
		mu sync.Mutex
		done chan struct{}
		err error
		result any
		wfCtx *wfCtx
	}

	wfCtx struct {
		ctx context.Context
		id string
		runID string
		eng *eng

		sigMu sync.Mutex
		sigs map[string]*signalChan
	}

	future struct {
		mu sync.Mutex
		ready chan struct{}
		result any
		err error
	}

	signalChan struct{ ch chan any }
)

// New returns a fresh in-memory Engine.
func New() engine.Engine {
	return &eng{
		workflows: make(map[string]engine.WorkflowDefinition),
		activities: make(map[string]activityEntry),
	}
}

func (e *eng) RegisterWorkflow(_ context.Context, def engine.WorkflowDefinition) error {
	if def.Name == "" || def.Handler == nil {
		return errors.New("invalid workflow definition")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.workflows[def.Name]; dup {
		return fmt.Errorf("workflow %q already registered", def.Name)
	}
	e.workflows[def.Name] = def
	return nil
}

func (e *eng) RegisterActivity(_ context.Context, def engine.ActivityDefinition) error {
	if def.Name == "" || def.Handler == nil {
		return errors.New("invalid activity definition")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.activities[def.Name]; dup {
		return fmt.Errorf("activity %q already registered", def.Name)
	}
	e.activities[def.Name] = activityEntry{handler: def.Handler, opts: def.Options}
	return nil
}

func (e *eng) StartWorkflow(ctx context.Context, req engine.WorkflowStartRequest) (engine.WorkflowHandle, error) {
	if req.ID == "" {
		return nil, errors.New("workflow id is required")
	}
	e.mu.RLock()
	def, ok := e.workflows[req.Workflow]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("workflow %q not registered", req.Workflow)
	}

	wctx := &wfCtx{
		ctx: ctx,
		id: req.ID,
		runID: req.ID,
		eng: e,
		sigs: make(map[string]*signalChan),
	}
	h := &handle{done: make(chan struct{}), wfCtx: wctx}

	go func() {
		defer close(h.done)
		res, err := def.Handler(wctx, req.Input)
		h.mu.Lock()
		h.result, h.err = res, err
		h.mu.Unlock()
	}()

	return h, nil
}

func (h *handle) Wait(ctx context.Context, result any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		assignResult(result, h.result)
		return h.err
	}
}

func (h *handle) Signal(ctx context.Context, name string, payload any) error {
	ch := h.wfCtx.SignalChannel(name).(*signalChan)
	select {
	case ch.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return errors.New("workflow already completed")
	}
}

// Cancel is best-effort: the in-memory engine does not propagate
// cancellation into a running workflow goroutine on its own. Callers that
// need cancellation should derive req's context from one they cancel
// themselves and observe it in the workflow loop.
func (h *handle) Cancel(_ context.Context) error {
	return nil
}

func (w *wfCtx) Context() context.Context { return w.ctx }
func (w *wfCtx) WorkflowID() string { return w.id }
func (w *wfCtx) RunID() string { return w.runID }
func (w *wfCtx) Logger() telemetry.Logger { return telemetry.NoopLogger{} }
func (w *wfCtx) Metrics() telemetry.Metrics { return telemetry.NoopMetrics{} }
func (w *wfCtx) Tracer() telemetry.Tracer { return telemetry.NoopTracer{} }
func (w *wfCtx) Now() time.Time { return time.Now() }

func (w *wfCtx) ExecuteActivity(ctx context.Context, req engine.ActivityRequest, result any) error {
	fut, err := w.ExecuteActivityAsync(ctx, req)
	if err != nil {
		return err
	}
	return fut.Get(ctx, result)
}

func (w *wfCtx) ExecuteActivityAsync(ctx context.Context, req engine.ActivityRequest) (engine.Future, error) {
	w.eng.mu.RLock()
	entry, ok := w.eng.activities[req.Name]
	w.eng.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("activity %q not registered", req.Name)
	}

	f := &future{ready: make(chan struct{})}
	go func() {
		defer close(f.ready)
		res, err := entry.handler(engine.WithActivityContext(ctx), req.Input)
		f.mu.Lock()
		f.result, f.err = res, err
		f.mu.Unlock()
	}()
	return f, nil
}

func (f *future) Get(ctx context.Context, result any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.ready:
		f.mu.Lock()
		defer f.mu.Unlock()
		assignResult(result, f.result)
		return f.err
	}
}

func (f *future) IsReady() bool {
	select {
	case <-f.ready:
		return true
	default:
		return false
	}
}

func (w *wfCtx) SignalChannel(name string) engine.SignalChannel {
	w.sigMu.Lock()
	defer w.sigMu.Unlock()
	ch, ok := w.sigs[name]
	if !ok {
		ch = &signalChan{ch: make(chan any, 1)}
		w.sigs[name] = ch
	}
	return ch
}

func (s *signalChan) Receive(ctx context.Context, dest any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case v := <-s.ch:
		assignResult(dest, v)
		return nil
	}
}

func (s *signalChan) ReceiveAsync(dest any) bool {
	select {
	case v := <-s.ch:
		assignResult(dest, v)
		return true
	default:
		return false
	}
}

// assignResult copies src into the value dst points to, when the types are
// compatible. Silently a no-op otherwise, mirroring the teacher's tolerant
// reflection-based result plumbing (engine callers pass concrete pointer
// types, never interfaces that might mismatch).
func assignResult(dst, src any) {
	if dst == nil || src == nil {
		return
	}
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return
	}
	sv := reflect.ValueOf(src)
	if sv.IsValid() && sv.Type().AssignableTo(dv.Elem().Type()) {
		dv.Elem().Set(sv)
	}
}
