package planner

import (
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Composite implements CompositePlanner: a deterministic,
// total dispatcher over goal text.
type Composite struct {
	Research *Research
	LongForm *LongForm
	Base *Base
}

// NewComposite builds a Composite wiring the three standard sub-planners.
func NewComposite(research *Research, longForm *LongForm, base *Base) *Composite {
	return &Composite{Research: research, LongForm: longForm, Base: base}
}

// PlanAction implements Planner: dispatches by goal keyword
// table, running the research pre-step first when the delegate is
// ResearchPlanner.
func (c *Composite) PlanAction(reasoning core.ReasoningResult, execCtx *core.ExecutionContext) (core.ActionPlan, error) {
	goal := execCtx.Goal()
	lower := ""
	if goal != nil {
		lower = strings.ToLower(goal.Description)
	}

	switch {
	case containsAny(lower, "research", "study", "investigate"):
		if plan, ok := c.researchPreStep(execCtx); ok {
			return plan, nil
		}
		return c.Research.PlanAction(reasoning, execCtx)
	case containsAny(lower, "100k", "long-form", "long form", "book", "novel", "write a 100k"):
		return c.LongForm.PlanAction(reasoning, execCtx)
	default:
		return c.Base.PlanAction(reasoning, execCtx)
	}
}

// researchPreStep implements research pre-step: if a
// search/browse/web tool is available and no recent observation (last 10)
// already mentions search/results/browse, emit a ToolExecution invoking it
// with the goal as query before yielding to the delegate.
func (c *Composite) researchPreStep(execCtx *core.ExecutionContext) (core.ActionPlan, bool) {
	tool, ok := findSearchTool(execCtx.AvailableTools())
	if !ok {
		return core.ActionPlan{}, false
	}
	for _, obs := range execCtx.RecentObservations(10) {
		lower := strings.ToLower(obs.Content)
		if containsAny(lower, "search", "results", "browse") {
			return core.ActionPlan{}, false
		}
	}
	goal := execCtx.Goal()
	query := ""
	if goal != nil {
		query = goal.Description
	}
	return core.ActionPlan{
		Type: core.ActionToolExecution,
		Description: "search before delegating to research planner",
		Parameters: map[string]any{
			"tool_name": tool,
			"query": query,
		},
		Confidence: 0.8,
	}, true
}

func findSearchTool(tools []string) (string, bool) {
	for _, name := range tools {
		lower := strings.ToLower(name)
		if containsAny(lower, "search", "browse", "web") {
			return name, true
		}
	}
	return "", false
}

// Capabilities implements Planner: the union of all sub-planner capabilities.
func (c *Composite) Capabilities() []core.ActionType {
	seen := map[core.ActionType]struct{}{}
	var out []core.ActionType
	for _, p := range []Planner{c.Research, c.LongForm, c.Base} {
		for _, at := range p.Capabilities() {
			if _, ok := seen[at]; !ok {
				seen[at] = struct{}{}
				out = append(out, at)
			}
		}
	}
	return out
}

// CanPlan implements Planner: the composite is total.
func (c *Composite) CanPlan(core.ActionType) bool {
	return true
}
