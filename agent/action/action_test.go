package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/filemanager"
	"github.com/njfio/fluent-agent-core/agent/tools"
)

func newExecCtx() *core.ExecutionContext {
	return core.NewExecutionContext(&core.Goal{ID: "g"})
}

func TestLive_ToolExecution(t *testing.T) {
	t.Parallel()

	reg := tools.New()
	require.NoError(t, reg.Register(tools.Spec{
				Name: "echo",
				Handler: func(_ context.Context, params map[string]any) (string, error) {
					return params["msg"].(string), nil
				},
			}))

	exec := New(reg, nil, nil)
	result := exec.Execute(context.Background(), core.ActionPlan{
			ID: "p1",
			Type: core.ActionToolExecution,
			Parameters: map[string]any{
				"tool_name": "echo",
				"msg": "hi",
			},
		}, newExecCtx())

	require.True(t, result.Success)
	require.Equal(t, "hi", result.Output)
}

func TestLive_ToolExecution_MissingToolName(t *testing.T) {
	t.Parallel()

	exec := New(tools.New(), nil, nil)
	result := exec.Execute(context.Background(), core.ActionPlan{Type: core.ActionToolExecution}, newExecCtx())
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
}

func TestLive_FileOperation_Write(t *testing.T) {
	t.Parallel()

	fm := filemanager.New(t.TempDir())
	exec := New(nil, nil, fm)

	result := exec.Execute(context.Background(), core.ActionPlan{
			ID: "p2",
			Type: core.ActionFileOperation,
			Parameters: map[string]any{
				"operation": "write",
				"path": "out/result.txt",
				"content": "hello",
			},
		}, newExecCtx())

	require.True(t, result.Success)
	require.Len(t, result.SideEffects, 1)
	require.Equal(t, "out/result.txt", result.SideEffects[0].Path)
	require.Equal(t, 5, result.SideEffects[0].Bytes)

	read := exec.Execute(context.Background(), core.ActionPlan{
			Type: core.ActionFileOperation,
			Parameters: map[string]any{"operation": "read", "path": "out/result.txt"},
		}, newExecCtx())
	require.True(t, read.Success)
	require.Equal(t, "hello", read.Output)
}

func TestLive_AnalysisPlanningCommunication_NoIO(t *testing.T) {
	t.Parallel()

	exec := New(nil, nil, nil)
	for _, at := range []core.ActionType{core.ActionAnalysis, core.ActionPlanning, core.ActionCommunication} {
		result := exec.Execute(context.Background(), core.ActionPlan{Type: at, Description: "do thing"}, newExecCtx())
		require.True(t, result.Success)
		require.Contains(t, result.Output, "do thing")
	}
}

func TestLive_UnknownActionType(t *testing.T) {
	t.Parallel()

	exec := New(nil, nil, nil)
	result := exec.Execute(context.Background(), core.ActionPlan{Type: "bogus"}, newExecCtx())
	require.False(t, result.Success)
}

func TestDryRun_NoSideEffects(t *testing.T) {
	t.Parallel()

	var d DryRun
	result := d.Execute(context.Background(), core.ActionPlan{
			Type: core.ActionFileOperation,
			Description: "write a file",
			Parameters: map[string]any{"operation": "write", "path": "x", "content": "y"},
		}, newExecCtx())

	require.True(t, result.Success)
	require.Contains(t, result.Output, "dry-run")
	require.Empty(t, result.SideEffects)
}
