package dependency

import (
	"errors"
	"sort"
)

// ErrCircularDependency is returned by TopologicalSort when the graph
// contains a cycle table.
var ErrCircularDependency = errors.New("dependency: circular dependency detected")

// bottleneckThreshold is find_bottlenecks contract:
// dependent_count > 3.
const bottleneckThreshold = 3

// TopologicalSort implements Kahn's algorithm, returning a total order over
// every node. Ties are broken by task ID so the result is deterministic.
func TopologicalSort(g *Graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = len(g.dependencies[id])
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		var freed []string
		for dependent := range g.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		sort.Strings(freed)
		queue = append(queue, freed...)
		sort.Strings(queue)
	}

	if len(result) != len(g.nodes) {
		return nil, ErrCircularDependency
	}
	return result, nil
}

// DetectCycles runs DFS with recursion-stack marking and returns one cycle
// per back edge found (a strongly connected component can yield several).
func DetectCycles(g *Graph) [][]string {
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var cycles [][]string

	ids := g.Nodes()
	sort.Strings(ids)

	var stack []string
	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		deps := g.Dependencies(id)
		sort.Strings(deps)
		for _, dep := range deps {
			if !visited[dep] {
				visit(dep)
			} else if onStack[dep] {
				cycle := cycleFromStack(stack, dep)
				cycles = append(cycles, cycle)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
	}

	for _, id := range ids {
		if !visited[id] {
			visit(id)
		}
	}
	return cycles
}

func cycleFromStack(stack []string, target string) []string {
	for i, id := range stack {
		if id == target {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return []string{target}
}

// CriticalPath returns the longest dependency chain (hop count proxy), per
// Nodes are never revisited within a single traced path.
func CriticalPath(g *Graph) []string {
	var longest []string
	roots := g.Nodes()
	sort.Strings(roots)

	for _, id := range roots {
		if len(g.Dependencies(id)) != 0 {
			continue
		}
		path := longestPathFrom(g, id)
		if len(path) > len(longest) {
			longest = path
		}
	}
	return longest
}

func longestPathFrom(g *Graph, start string) []string {
	visited := map[string]bool{start: true}
	path := []string{start}
	current := start

	for {
		dependents := g.Dependents(current)
		sort.Slice(dependents, func(i, j int) bool {
				ni, _ := g.Node(dependents[i])
				nj, _ := g.Node(dependents[j])
				return ni.DependentCount > nj.DependentCount
			})

		next := ""
		for _, d := range dependents {
			if !visited[d] {
				next = d
				break
			}
		}
		if next == "" {
			return path
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
}

// ParallelGroups discovers maximal independent sets: two tasks are
// parallelizable iff no direct dependency either way, no resource conflict,
// and both are marked parallel-capable.
func ParallelGroups(g *Graph) [][]string {
	ids := g.Nodes()
	sort.Strings(ids)

	processed := make(map[string]bool, len(ids))
	var groups [][]string

	for _, id := range ids {
		if processed[id] {
			continue
		}
		group := []string{id}
		processed[id] = true

		for _, other := range ids {
			if processed[other] {
				continue
			}
			if canRunParallel(g, id, other) {
				group = append(group, other)
				processed[other] = true
			}
		}

		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}

func canRunParallel(g *Graph, a, b string) bool {
	for _, dep := range g.Dependencies(a) {
		if dep == b {
			return false
		}
	}
	for _, dep := range g.Dependencies(b) {
		if dep == a {
			return false
		}
	}
	if g.ResourceConflict(a, b) {
		return false
	}
	na, aok := g.Node(a)
	nb, bok := g.Node(b)
	if !aok || !bok {
		return false
	}
	return na.CanRunParallel && nb.CanRunParallel
}

// FindBottlenecks returns every task whose dependent count exceeds
// bottleneckThreshold.
func FindBottlenecks(g *Graph) []string {
	var out []string
	for _, id := range g.Nodes() {
		if n, ok := g.Node(id); ok && n.DependentCount > bottleneckThreshold {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
