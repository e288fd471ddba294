// Package dependency implements dependency analyzer: a
// DependencyGraph over tasks plus topological sort, critical-path,
// parallel-group discovery, cycle detection, and bottleneck identification.
// Trimmed from a fuller resource-allocation/timeline/optimization-suggestion
// surface down to its five core graph operations.
package dependency

import "time"

// Node is one task in the DependencyGraph.
type Node struct {
	TaskID string
	DependencyCount int
	DependentCount int
	CanRunParallel bool
	ResourceTags []string
	EstimatedDuration time.Duration
}

// Graph is the dependency graph over a set of tasks.
type Graph struct {
	nodes map[string]*Node
	dependencies map[string]map[string]struct{} // task -> tasks it depends on
	dependents map[string]map[string]struct{} // task -> tasks that depend on it
}

// NewGraph builds an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		dependencies: make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// AddNode registers taskID, canRunParallel, and its resource tags. Safe to
// call more than once for the same ID (later calls overwrite metadata).
func (g *Graph) AddNode(taskID string, canRunParallel bool, resourceTags []string, duration time.Duration) {
	n, ok := g.nodes[taskID]
	if !ok {
		n = &Node{TaskID: taskID}
		g.nodes[taskID] = n
	}
	n.CanRunParallel = canRunParallel
	n.ResourceTags = resourceTags
	n.EstimatedDuration = duration
}

// AddEdge records that from depends on to: from cannot start until to
// completes.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.dependencies[from]; !ok {
		g.dependencies[from] = make(map[string]struct{})
	}
	if _, exists := g.dependencies[from][to]; !exists {
		g.dependencies[from][to] = struct{}{}
		if n, ok := g.nodes[from]; ok {
			n.DependencyCount++
		}
	}

	if _, ok := g.dependents[to]; !ok {
		g.dependents[to] = make(map[string]struct{})
	}
	if _, exists := g.dependents[to][from]; !exists {
		g.dependents[to][from] = struct{}{}
		if n, ok := g.nodes[to]; ok {
			n.DependentCount++
		}
	}
}

// Node returns the node for taskID, if registered.
func (g *Graph) Node(taskID string) (*Node, bool) {
	n, ok := g.nodes[taskID]
	return n, ok
}

// Nodes returns every task ID in the graph, unordered.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	return out
}

// Dependencies returns the set of tasks taskID directly depends on.
func (g *Graph) Dependencies(taskID string) []string {
	return setToSlice(g.dependencies[taskID])
}

// Dependents returns the set of tasks that directly depend on taskID.
func (g *Graph) Dependents(taskID string) []string {
	return setToSlice(g.dependents[taskID])
}

// ResourceConflict reports whether a and b share a resource tag.
func (g *Graph) ResourceConflict(a, b string) bool {
	na, aok := g.nodes[a]
	nb, bok := g.nodes[b]
	if !aok || !bok {
		return false
	}
	tags := make(map[string]struct{}, len(na.ResourceTags))
	for _, t := range na.ResourceTags {
		tags[t] = struct{}{}
	}
	for _, t := range nb.ResourceTags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

func setToSlice(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
