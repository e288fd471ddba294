// Package core defines the shared data model driven through the ReAct loop:
// goals, execution context, action plans/results, and observations. Other
// packages (planner, memory, reflection, action, orchestrator) depend on
// core; core depends on nothing else in this module so no import cycles can
// form through the data model.
package core

import (
	"time"

	"github.com/google/uuid"
)

// GoalType classifies the kind of work a goal represents. Composite planner
// dispatch and several sub-planners branch on this alongside the goal text.
type GoalType string

const (
	GoalTypeCodeGeneration GoalType = "code_generation"
	GoalTypeAnalysis GoalType = "analysis"
	GoalTypeResearch GoalType = "research"
	GoalTypeLongForm GoalType = "long_form"
	GoalTypeGeneral GoalType = "general"
)

// Goal is an immutable description of user intent. Created once per
// orchestration and never mutated afterward.
type Goal struct {
	// ID uniquely identifies the goal.
	ID string
	// Description is the free-text statement of intent. Planners pattern-match
	// on its lowercase form for dispatch.
	Description string
	// Type classifies the goal (informational; dispatch is primarily text-driven).
	Type GoalType
	// Priority is a caller-assigned ordering hint; higher runs first when a
	// caller multiplexes goals. Unused by the single-goal orchestrator loop.
	Priority int
	// SuccessCriteria lists criterion strings evaluated by the orchestrator's
	// criterion evaluator (see agent/orchestrator).
	SuccessCriteria []string
	// MaxIterations optionally caps the number of ReAct ticks. Negative means
	// "use the run-scope default" (what NewGoal sets); zero is a literal cap of
	// zero ticks, so a goal with MaxIterations 0 (including a Goal literal that
	// leaves the field unset) returns immediately with success=false.
	MaxIterations int
	// Timeout optionally bounds wall-clock time. Zero means "use the run-scope
	// watchdog default."
	Timeout time.Duration
	// Metadata carries caller-supplied key/value pairs (e.g. "engine": "anthropic").
	Metadata map[string]string
}

// NewGoal constructs a Goal with a fresh ID and the given description. Callers
// set the remaining fields directly since Goal has no hidden invariants
// beyond immutability after construction.
func NewGoal(description string) *Goal {
	return &Goal{
		ID: uuid.NewString(),
		Description: description,
		Type: GoalTypeGeneral,
		MaxIterations: -1,
		Metadata: make(map[string]string),
	}
}
