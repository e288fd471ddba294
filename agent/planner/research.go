package planner

import (
	"fmt"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// DefaultResearchBase is the default output directory for research
// artifacts.
const DefaultResearchBase = "docs/research"

// Research implements ResearchPlanner: a stateless three-step
// pipeline (outline, notes, summary) driven entirely by observation
// history.
type Research struct {
	Base string
}

// NewResearch builds a Research planner writing to base (DefaultResearchBase
// when empty).
func NewResearch(base string) *Research {
	if base == "" {
		base = DefaultResearchBase
	}
	return &Research{Base: base}
}

// PlanAction implements Planner.
func (r *Research) PlanAction(_ core.ReasoningResult, execCtx *core.ExecutionContext) (core.ActionPlan, error) {
	observations := execCtx.Observations()
	outlinePath := fmt.Sprintf("%s/outline.md", r.Base)
	notesPath := fmt.Sprintf("%s/notes.md", r.Base)
	summaryPath := fmt.Sprintf("%s/summary.md", r.Base)

	if !anyObservationContains(observations, fmt.Sprintf("Successfully wrote to %s", outlinePath)) {
		return toolPlan("research_generate_outline", map[string]any{"out_path": outlinePath}), nil
	}
	if !anyObservationContains(observations, notesPath) {
		return toolPlan("research_generate_notes", map[string]any{"out_path": notesPath}), nil
	}
	if !anyObservationContains(observations, summaryPath) {
		return toolPlan("research_generate_summary", map[string]any{"out_path": summaryPath}), nil
	}
	return core.ActionPlan{
		Type: core.ActionPlanning,
		Description: "research pipeline complete",
		Confidence: 0.95,
		SuccessCriteria: []string{
			"file_exists:" + outlinePath,
			"file_exists:" + notesPath,
			"file_exists:" + summaryPath,
		},
	}, nil
}

// Capabilities implements Planner.
func (r *Research) Capabilities() []core.ActionType {
	return []core.ActionType{core.ActionToolExecution, core.ActionPlanning}
}

// CanPlan implements Planner.
func (r *Research) CanPlan(actionType core.ActionType) bool {
	for _, c := range r.Capabilities() {
		if c == actionType {
			return true
		}
	}
	return false
}

func toolPlan(toolName string, params map[string]any) core.ActionPlan {
	p := map[string]any{"tool_name": toolName}
	for k, v := range params {
		p[k] = v
	}
	return core.ActionPlan{
		Type: core.ActionToolExecution,
		Description: "invoke " + toolName,
		Parameters: p,
		Confidence: 0.8,
	}
}

func anyObservationContains(observations []core.Observation, needle string) bool {
	for _, o := range observations {
		if strings.Contains(o.Content, needle) {
			return true
		}
	}
	return false
}
