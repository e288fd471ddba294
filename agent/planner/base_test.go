package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
)

func TestBase_GeneratesOnFirstIteration(t *testing.T) {
	t.Parallel()

	b := NewBase()
	ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: "build a tetris game"})
	plan, err := b.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, core.ActionCodeGeneration, plan.Type)
}

func TestBase_PersistsAfterGeneration(t *testing.T) {
	t.Parallel()

	b := NewBase()
	ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: "build a tetris game"})
	ctx.IncrementIteration()
	ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
			"<html>tetris</html>", string(core.ActionCodeGeneration), 0.9))

	plan, err := b.PlanAction(core.ReasoningResult{}, ctx)
	require.NoError(t, err)
	require.Equal(t, core.ActionFileOperation, plan.Type)
	require.Equal(t, "examples/web_tetris.html", plan.Parameters["path"])
	require.Equal(t, "<html>tetris</html>", plan.Parameters["content"])
}

func TestTargetPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "examples/web_tetris.html", targetPath("build a Tetris clone"))
	require.Equal(t, "examples/web_snake.html", targetPath("build a snake game"))
	require.Equal(t, "examples/output.html", targetPath("build a web page"))
	require.Equal(t, "examples/output.js", targetPath("write some javascript"))
	require.Equal(t, "examples/output.txt", targetPath("do something else"))
}

func TestBase_Capabilities(t *testing.T) {
	t.Parallel()

	b := NewBase()
	require.True(t, b.CanPlan(core.ActionCodeGeneration))
	require.False(t, b.CanPlan(core.ActionToolExecution))
}
