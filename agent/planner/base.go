package planner

import (
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Base implements HeuristicPlanner: a two-step fallback used
// whenever the goal text doesn't match a more specific sub-planner.
type Base struct{}

// NewBase builds a Base planner.
func NewBase() *Base {
	return &Base{}
}

// PlanAction implements Planner: generate code on the first iteration (or
// whenever there is no observation yet to act on), then persist the most
// recent generation to a goal-derived target path.
func (b *Base) PlanAction(_ core.ReasoningResult, execCtx *core.ExecutionContext) (core.ActionPlan, error) {
	last, hasLast := execCtx.LatestObservation()
	if execCtx.IterationCount() == 0 || !hasLast {
		return core.ActionPlan{
			Type: core.ActionCodeGeneration,
			Description: "generate initial implementation",
			Parameters: map[string]any{
				"specification": goalText(execCtx.Goal()),
			},
			Confidence: 0.6,
		}, nil
	}

	path := targetPath(goalText(execCtx.Goal()))
	return core.ActionPlan{
		Type: core.ActionFileOperation,
		Description: "persist generated output",
		Parameters: map[string]any{
			"operation": "write",
			"path": path,
			"content": last.Content,
		},
		SuccessCriteria: []string{"file_exists:" + path},
		Confidence: 0.65,
	}, nil
}

// Capabilities implements Planner.
func (b *Base) Capabilities() []core.ActionType {
	return []core.ActionType{core.ActionCodeGeneration, core.ActionFileOperation}
}

// CanPlan implements Planner.
func (b *Base) CanPlan(actionType core.ActionType) bool {
	for _, c := range b.Capabilities() {
		if c == actionType {
			return true
		}
	}
	return false
}

func goalText(goal *core.Goal) string {
	if goal == nil {
		return ""
	}
	return goal.Description
}

// targetPath derives an output path from goal keywords.
func targetPath(goal string) string {
	lower := strings.ToLower(goal)
	switch {
	case strings.Contains(lower, "tetris"):
		return "examples/web_tetris.html"
	case strings.Contains(lower, "snake"):
		return "examples/web_snake.html"
	case containsAny(lower, "html", "web"):
		return "examples/output.html"
	case strings.Contains(lower, "javascript"):
		return "examples/output.js"
	default:
		return "examples/output.txt"
	}
}
