package core

import "sync"

// ExecutionContext is the mutable state container threaded through every
// component of one orchestration run. The Orchestrator exclusively owns it
// for the run's lifetime; other components borrow it (read-only where
// possible, mutating only to append observations/events, increment the
// iteration counter, or write variables). The embedded mutex lets those
// borrows happen safely even when the owning engine schedules components
// across goroutines (e.g. a background consolidator), while still
// presenting a single logical writer per tick.
//
// Invariants: IterationCount is monotonically non-decreasing; observations
// are appended, never removed; Goal never changes after construction.
type ExecutionContext struct {
	mu sync.RWMutex

	goal *Goal
	iterationCount int
	observations []Observation
	variables map[string]string
	events []ExecutionEvent
	activeTasks []string
	completedTasks []string
	adjustments []StrategyAdjustment
	availableTools []string
}

// NewExecutionContext constructs a fresh context for goal. Goal is never
// mutated or replaced afterward.
func NewExecutionContext(goal *Goal) *ExecutionContext {
	return &ExecutionContext{
		goal: goal,
		variables: make(map[string]string),
	}
}

// Goal returns the context's immutable goal.
func (c *ExecutionContext) Goal() *Goal {
	return c.goal
}

// IterationCount returns the number of completed ticks.
func (c *ExecutionContext) IterationCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.iterationCount
}

// IncrementIteration advances the iteration counter by exactly one and
// returns the new value. Called once per tick, after reflection.
func (c *ExecutionContext) IncrementIteration() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.iterationCount++
	return c.iterationCount
}

// AppendObservation appends o to the observation history. Observations are
// never removed.
func (c *ExecutionContext) AppendObservation(o Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observations = append(c.observations, o)
}

// Observations returns a copy of the full observation history.
func (c *ExecutionContext) Observations() []Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Observation, len(c.observations))
	copy(out, c.observations)
	return out
}

// LatestObservation returns the most recently appended observation, if any.
func (c *ExecutionContext) LatestObservation() (Observation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.observations) == 0 {
		return Observation{}, false
	}
	return c.observations[len(c.observations)-1], true
}

// RecentObservations returns up to the last n observations, oldest first.
func (c *ExecutionContext) RecentObservations(n int) []Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || len(c.observations) == 0 {
		return nil
	}
	start := len(c.observations) - n
	if start < 0 {
		start = 0
	}
	out := make([]Observation, len(c.observations)-start)
	copy(out, c.observations[start:])
	return out
}

// SetVariable stores a key/value pair in the variable store.
func (c *ExecutionContext) SetVariable(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variables == nil {
		c.variables = make(map[string]string)
	}
	c.variables[key] = value
}

// Variable reads a value from the variable store.
func (c *ExecutionContext) Variable(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variables[key]
	return v, ok
}

// Variables returns a copy of the full variable store.
func (c *ExecutionContext) Variables() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// AppendEvent appends e to the ordered event history.
func (c *ExecutionContext) AppendEvent(e ExecutionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the full event history.
func (c *ExecutionContext) Events() []ExecutionEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ExecutionEvent, len(c.events))
	copy(out, c.events)
	return out
}

// RecentEvents returns up to the last n events, oldest first. Reflection
// trigger evaluation scans this strict suffix of the history.
func (c *ExecutionContext) RecentEvents(n int) []ExecutionEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || len(c.events) == 0 {
		return nil
	}
	start := len(c.events) - n
	if start < 0 {
		start = 0
	}
	out := make([]ExecutionEvent, len(c.events)-start)
	copy(out, c.events[start:])
	return out
}

// AddActiveTask registers a task as active.
func (c *ExecutionContext) AddActiveTask(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeTasks = append(c.activeTasks, taskID)
}

// CompleteTask moves a task from active to completed. No-op if the task was
// not active.
func (c *ExecutionContext) CompleteTask(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range c.activeTasks {
		if id == taskID {
			c.activeTasks = append(c.activeTasks[:i], c.activeTasks[i+1:]...)
			c.completedTasks = append(c.completedTasks, taskID)
			return
		}
	}
}

// ActiveTasks returns a copy of the currently active task id list.
func (c *ExecutionContext) ActiveTasks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.activeTasks))
	copy(out, c.activeTasks)
	return out
}

// CompletedTasks returns a copy of the completed task id list.
func (c *ExecutionContext) CompletedTasks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.completedTasks))
	copy(out, c.completedTasks)
	return out
}

// AppendStrategyAdjustment records an adjustment applied to the run.
func (c *ExecutionContext) AppendStrategyAdjustment(a StrategyAdjustment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adjustments = append(c.adjustments, a)
}

// StrategyAdjustments returns a copy of the applied adjustment list.
func (c *ExecutionContext) StrategyAdjustments() []StrategyAdjustment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]StrategyAdjustment, len(c.adjustments))
	copy(out, c.adjustments)
	return out
}

// SetAvailableTools replaces the available-tool set snapshot.
func (c *ExecutionContext) SetAvailableTools(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.availableTools = append([]string(nil), names...)
}

// AvailableTools returns a copy of the available-tool set snapshot.
func (c *ExecutionContext) AvailableTools() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.availableTools))
	copy(out, c.availableTools)
	return out
}

// RestoreExecutionContext rebuilds an ExecutionContext from a previously
// captured snapshot (see agent/state), bypassing the usual
// append/increment-only API so a resumed run starts from exactly where a
// prior run left off.
func RestoreExecutionContext(
	goal *Goal,
	iterationCount int,
	observations []Observation,
	events []ExecutionEvent,
	variables map[string]string,
	adjustments []StrategyAdjustment,
	activeTasks []string,
	completedTasks []string,
	availableTools []string,
) *ExecutionContext {
	c := NewExecutionContext(goal)
	c.iterationCount = iterationCount
	c.observations = append([]Observation(nil), observations...)
	c.events = append([]ExecutionEvent(nil), events...)
	if variables != nil {
		c.variables = make(map[string]string, len(variables))
		for k, v := range variables {
			c.variables[k] = v
		}
	}
	c.adjustments = append([]StrategyAdjustment(nil), adjustments...)
	c.activeTasks = append([]string(nil), activeTasks...)
	c.completedTasks = append([]string(nil), completedTasks...)
	c.availableTools = append([]string(nil), availableTools...)
	return c
}
