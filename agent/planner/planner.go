// Package planner implements the planner hierarchy: a
// deterministic CompositePlanner that dispatches on goal text to
// ResearchPlanner, LongFormWriterPlanner, or the HeuristicPlanner (Base),
// plus the capability interface they all share. Grounded on the teacher's
// policy.Engine Decide shape (pure function of input state to a decision,
// no hidden mutable state beyond constructor-time configuration) and on
// runtime/agent's single-capability-interface convention.
package planner

import (
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Planner is the capability calls Planner.
type Planner interface {
	PlanAction(reasoning core.ReasoningResult, execCtx *core.ExecutionContext) (core.ActionPlan, error)
	Capabilities() []core.ActionType
	CanPlan(actionType core.ActionType) bool
}

// containsAny reports whether s (already lowercased) contains any of needles.
func containsAny(s string, needles...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
