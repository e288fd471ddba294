package dependency

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// chainGraph builds a linear chain of n nodes, each depending on the
// previous one: node_1 -> node_0, node_2 -> node_1, and so on.
func chainGraph(n int) *Graph {
	g := NewGraph()
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("node_%d", i), false, nil, 0)
	}
	for i := 1; i < n; i++ {
		g.AddEdge(fmt.Sprintf("node_%d", i), fmt.Sprintf("node_%d", i-1))
	}
	return g
}

// TestTopologicalSort_CoversEveryNodeExactlyOnceProperty checks that
// TopologicalSort on an acyclic graph returns every registered node exactly
// once and never places a task before one of its prerequisites.
func TestTopologicalSort_CoversEveryNodeExactlyOnceProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("topological sort is a complete, dependency-respecting order", prop.ForAll(
			func(n int) bool {
				g := chainGraph(n)
				order, err := TopologicalSort(g)
				if err != nil {
					return false
				}
				if len(order) != n {
					return false
				}
				position := make(map[string]int, len(order))
				for i, id := range order {
					position[id] = i
				}
				for i := 1; i < n; i++ {
					from := fmt.Sprintf("node_%d", i)
					to := fmt.Sprintf("node_%d", i-1)
					if position[to] >= position[from] {
						return false
					}
				}
				return true
			},
			gen.IntRange(1, 30),
		))

	properties.TestingRun(t)
}

// TestTopologicalSort_DetectsAnyInjectedCycleProperty checks that closing a
// chain into a cycle (last node depends back on the first) always makes
// TopologicalSort report ErrCircularDependency, regardless of chain length.
func TestTopologicalSort_DetectsAnyInjectedCycleProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("closing a chain into a cycle is always detected", prop.ForAll(
			func(n int) bool {
				g := chainGraph(n)
				g.AddEdge("node_0", fmt.Sprintf("node_%d", n-1))
				_, err := TopologicalSort(g)
				return err == ErrCircularDependency
			},
			gen.IntRange(2, 30),
		))

	properties.TestingRun(t)
}
