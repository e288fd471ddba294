// Package htn implements HTN decomposition: breadth-first
// task-network expansion bounded by depth, with a decomposition strategy
// chosen from goal complexity. Trimmed to the decomposition algorithm
// itself, leaving resource-management/scheduling/quality-assessment
// concerns to other packages.
package htn

import "time"

// Complexity classifies a Goal for decomposition-strategy selection by
// description-length/criteria-count bands.
type Complexity string

const (
	ComplexitySimple Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

// Strategy is the decomposition approach applied to one compound task.
type Strategy string

const (
	StrategyHierarchical Strategy = "hierarchical"
	StrategyGoalOriented Strategy = "goal_oriented"
	StrategySequential Strategy = "sequential"
)

// SelectStrategy implements mapping: Hierarchical for
// Complex/VeryComplex, GoalOriented for Moderate, Sequential for Simple.
func SelectStrategy(c Complexity) Strategy {
	switch c {
	case ComplexityComplex, ComplexityVeryComplex:
		return StrategyHierarchical
	case ComplexityModerate:
		return StrategyGoalOriented
	default:
		return StrategySequential
	}
}

// ClassifyComplexity buckets a goal by description length and success
// criteria count.
func ClassifyComplexity(descriptionLength, criteriaCount int) Complexity {
	switch {
	case descriptionLength <= 50 && criteriaCount <= 1:
		return ComplexitySimple
	case descriptionLength <= 150 && criteriaCount <= 3:
		return ComplexityModerate
	case descriptionLength <= 300 && criteriaCount <= 6:
		return ComplexityComplex
	default:
		return ComplexityVeryComplex
	}
}

// TaskType distinguishes tasks still needing decomposition from leaves.
type TaskType string

const (
	TaskCompound TaskType = "compound"
	TaskPrimitive TaskType = "primitive"
)

// Task is one node of the decomposed task network.
type Task struct {
	ID string
	Description string
	Type TaskType
	ParentID string
	Depth int
	Effort float64
	Prerequisites []string
	EstimatedDuration time.Duration
}

// Network is the full decomposition result: every task produced, indexed by
// ID, plus the root task's ID.
type Network struct {
	RootID string
	Tasks map[string]*Task
}

// Leaves returns every primitive task in the network, in map-iteration
// order (callers that need a deterministic order should sort by ID).
func (n *Network) Leaves() []*Task {
	var out []*Task
	for _, t := range n.Tasks {
		if t.Type == TaskPrimitive {
			out = append(out, t)
		}
	}
	return out
}
