package htn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
)

func TestClassifyComplexity(t *testing.T) {
	t.Parallel()

	require.Equal(t, ComplexitySimple, ClassifyComplexity(10, 0))
	require.Equal(t, ComplexityModerate, ClassifyComplexity(100, 2))
	require.Equal(t, ComplexityComplex, ClassifyComplexity(200, 5))
	require.Equal(t, ComplexityVeryComplex, ClassifyComplexity(400, 10))
}

func TestSelectStrategy(t *testing.T) {
	t.Parallel()

	require.Equal(t, StrategyHierarchical, SelectStrategy(ComplexityComplex))
	require.Equal(t, StrategyHierarchical, SelectStrategy(ComplexityVeryComplex))
	require.Equal(t, StrategyGoalOriented, SelectStrategy(ComplexityModerate))
	require.Equal(t, StrategySequential, SelectStrategy(ComplexitySimple))
}

func TestDecompose_NeverExceedsMaxDepth(t *testing.T) {
	t.Parallel()

	goal := &core.Goal{
		ID: "g",
		Description: "build a comprehensive multi-service deployment pipeline with monitoring, alerting, canary releases and rollback automation across three regions",
		SuccessCriteria: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	}

	net := Decompose(Config{MaxDepth: 3}, goal)
	require.NotEmpty(t, net.Tasks)
	require.Contains(t, net.Tasks, net.RootID)

	for _, task := range net.Tasks {
		require.LessOrEqual(t, task.Depth, 3)
		if task.Depth == 3 {
			require.Equal(t, TaskPrimitive, task.Type)
		}
	}
}

func TestDecompose_SimpleGoalTerminatesQuickly(t *testing.T) {
	t.Parallel()

	goal := &core.Goal{ID: "g", Description: "fix typo"}
	net := Decompose(Config{}, goal)

	leaves := net.Leaves()
	require.NotEmpty(t, leaves)
	for _, l := range leaves {
		require.Equal(t, TaskPrimitive, l.Type)
	}
}

func TestDecompose_SubtasksHaveSequentialPrerequisites(t *testing.T) {
	t.Parallel()

	goal := &core.Goal{ID: "g", Description: "fix typo"}
	net := Decompose(Config{}, goal)

	root := net.Tasks[net.RootID]
	require.Equal(t, TaskCompound, root.Type)

	var children []*Task
	for _, task := range net.Tasks {
		if task.ParentID == root.ID {
			children = append(children, task)
		}
	}
	require.GreaterOrEqual(t, len(children), minSubtasks)
	require.LessOrEqual(t, len(children), maxSubtasks)
}

func TestDecompose_AcyclicNoSelfPrerequisite(t *testing.T) {
	t.Parallel()

	goal := &core.Goal{ID: "g", Description: "ship a feature"}
	net := Decompose(Config{MaxDepth: 4}, goal)

	for _, task := range net.Tasks {
		for _, prereq := range task.Prerequisites {
			require.NotEqual(t, task.ID, prereq)
		}
	}
}
