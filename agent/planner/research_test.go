package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
)

func TestResearch_StartsWithOutline(t *testing.T) {
	t.Parallel()

	r := NewResearch("")
	ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: "research quantum computing"})
	plan, err := r.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, core.ActionToolExecution, plan.Type)
	require.Equal(t, "research_generate_outline", plan.Parameters["tool_name"])
	require.Equal(t, DefaultResearchBase+"/outline.md", plan.Parameters["out_path"])
}

func TestResearch_ProgressesThroughNotesAndSummary(t *testing.T) {
	t.Parallel()

	r := NewResearch("docs/research")
	ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: "research x"})
	ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
			"Successfully wrote to docs/research/outline.md", "tool_execution", 0.9))

	plan, err := r.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, "research_generate_notes", plan.Parameters["tool_name"])

	ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
			"Successfully wrote to docs/research/notes.md", "tool_execution", 0.9))
	plan, err = r.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, "research_generate_summary", plan.Parameters["tool_name"])

	ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
			"Successfully wrote to docs/research/summary.md", "tool_execution", 0.9))
	plan, err = r.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, core.ActionPlanning, plan.Type)
	require.Len(t, plan.SuccessCriteria, 3)
}

func TestResearch_Capabilities(t *testing.T) {
	t.Parallel()

	r := NewResearch("")
	require.True(t, r.CanPlan(core.ActionToolExecution))
	require.True(t, r.CanPlan(core.ActionPlanning))
	require.False(t, r.CanPlan(core.ActionCodeGeneration))
}
