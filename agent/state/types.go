// Package state implements the persisted-state layout: a
// Snapshot captures everything an ExecutionContext carries so a run can be
// resumed from exactly where it left off, and a StateManager writes/reads
// one snapshot per run id. Grounded on the teacher's plain-struct-plus-JSON
// persistence style (no custom binary framing anywhere in the teacher or
// the pack), with a local-disk implementation in this package and a
// mongostore-backed BSON variant in the mongostore subpackage.
package state

import (
	"time"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Snapshot is the serializable form of one ExecutionContext. Field names
// mirror spec's persisted-state-layout table ({goal, iteration_count,
// observations, events, variables, strategy_adjustments}) plus the ambient
// fields ExecutionContext also tracks (active/completed tasks, available
// tools), so Capture/Restore round-trip losslessly.
type Snapshot struct {
	RunID string `json:"run_id" bson:"run_id"`
	CapturedAt time.Time `json:"captured_at" bson:"captured_at"`
	Goal *core.Goal `json:"goal" bson:"goal"`
	IterationCount int `json:"iteration_count" bson:"iteration_count"`
	Observations []core.Observation `json:"observations" bson:"observations"`
	Events []core.ExecutionEvent `json:"events" bson:"events"`
	Variables map[string]string `json:"variables" bson:"variables"`
	StrategyAdjustments []core.StrategyAdjustment `json:"strategy_adjustments" bson:"strategy_adjustments"`
	ActiveTasks []string `json:"active_tasks" bson:"active_tasks"`
	CompletedTasks []string `json:"completed_tasks" bson:"completed_tasks"`
	AvailableTools []string `json:"available_tools" bson:"available_tools"`
}

// Capture builds a Snapshot of execCtx's current state, stamped with runID
// and now. now should come from the same clock source the orchestrator uses
// elsewhere so CapturedAt is comparable across a run.
func Capture(runID string, now time.Time, execCtx *core.ExecutionContext) Snapshot {
	return Snapshot{
		RunID: runID,
		CapturedAt: now,
		Goal: execCtx.Goal(),
		IterationCount: execCtx.IterationCount(),
		Observations: execCtx.Observations(),
		Events: execCtx.Events(),
		Variables: execCtx.Variables(),
		StrategyAdjustments: execCtx.StrategyAdjustments(),
		ActiveTasks: execCtx.ActiveTasks(),
		CompletedTasks: execCtx.CompletedTasks(),
		AvailableTools: execCtx.AvailableTools(),
	}
}

// Restore rebuilds an ExecutionContext from s, via
// core.RestoreExecutionContext.
func (s Snapshot) Restore() *core.ExecutionContext {
	return core.RestoreExecutionContext(
		s.Goal,
		s.IterationCount,
		s.Observations,
		s.Events,
		s.Variables,
		s.StrategyAdjustments,
		s.ActiveTasks,
		s.CompletedTasks,
		s.AvailableTools,
	)
}
