package reflection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
)

func TestAnalyzeProgress_CompletionPercentage(t *testing.T) {
	t.Parallel()

	ctx := goalCtx()
	ctx.AddActiveTask("a")
	ctx.AddActiveTask("b")
	ctx.CompleteTask("a")

	progress := analyzeProgress(ctx)
	require.InDelta(t, 0.5, progress.GoalCompletionPercentage, 1e-9)
}

func TestDetectBottlenecks_HighFailureRate(t *testing.T) {
	t.Parallel()

	ctx := goalCtx()
	for i := 0; i < 4; i++ {
		ctx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskFailed})
	}
	ctx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskCompleted})

	bottlenecks := detectBottlenecks(ctx)
	require.NotEmpty(t, bottlenecks)
	require.Equal(t, core.ImpactHigh, bottlenecks[0].Severity)
}

func TestDetectBottlenecks_Stagnation(t *testing.T) {
	t.Parallel()

	ctx := goalCtx()
	for i := 0; i < 6; i++ {
		ctx.IncrementIteration()
	}

	bottlenecks := detectBottlenecks(ctx)
	require.NotEmpty(t, bottlenecks)
}

func TestAnalyzePatterns(t *testing.T) {
	t.Parallel()

	ctx := goalCtx()
	ctx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskCompleted})
	ctx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskCompleted})
	ctx.AppendEvent(core.ExecutionEvent{Type: core.EventTaskFailed})

	successes, failures := analyzePatterns(ctx)
	require.Len(t, successes, 1)
	require.Len(t, failures, 1)
	require.InDelta(t, 2.0/3.0, successes[0].SuccessRate, 1e-9)
	require.InDelta(t, 1.0/3.0, failures[0].FailureRate, 1e-9)
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, clamp01(-1))
	require.Equal(t, 1.0, clamp01(2))
	require.Equal(t, 0.5, clamp01(0.5))
}
