package htn

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// DefaultMaxDepth is the default decomposition depth ceiling.
const DefaultMaxDepth = 8

const (
	minSubtasks = 2
	maxSubtasks = 3
)

// Config bounds decomposition.
type Config struct {
	MaxDepth int
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	return c
}

// Decompose implements HTN decomposition: a root Compound task
// is created from goal, then breadth-first expanded while depth <= MaxDepth.
// Every compound task at the depth ceiling is forced to Primitive so the
// network never exceeds the bound (invariant 9).
func Decompose(cfg Config, goal *core.Goal) *Network {
	cfg = cfg.withDefaults()

	net := &Network{Tasks: make(map[string]*Task)}
	root := &Task{
		ID: uuid.NewString(),
		Description: goal.Description,
		Type: TaskCompound,
		Depth: 0,
		Effort: 1.0,
	}
	net.RootID = root.ID
	net.Tasks[root.ID] = root

	queue := []*Task{root}
	criteriaCount := len(goal.SuccessCriteria)

	for len(queue) > 0 {
		task := queue[0]
		queue = queue[1:]

		if task.Type != TaskCompound {
			continue
		}
		if task.Depth >= cfg.MaxDepth {
			task.Type = TaskPrimitive
			continue
		}

		complexity := ClassifyComplexity(len(task.Description), criteriaCount)
		strategy := SelectStrategy(complexity)
		subtasks := decomposeWithStrategy(task, strategy)

		task.Type = TaskCompound // parent remains compound; its children carry the work
		for _, sub := range subtasks {
			net.Tasks[sub.ID] = sub
			if sub.Type == TaskCompound {
				queue = append(queue, sub)
			}
		}
	}

	return net
}

// decomposeWithStrategy emits 2-3 subtasks with proportional effort and
// prerequisites wired sequentially. The three strategies (hierarchical,
// goal-oriented, sequential) share this one emitter and vary only the
// description template, since nothing downstream distinguishes them by
// subtask shape.
// Sequential-strategy subtasks (chosen for Simple parents) are leaves;
// everything else stays Compound so the BFS loop keeps decomposing it until
// either it classifies as Simple or the depth ceiling forces it primitive.
func decomposeWithStrategy(parent *Task, strategy Strategy) []*Task {
	n := subtaskCount(parent.Depth)
	subtasks := make([]*Task, 0, n)
	label := strategyLabel(strategy)
	childType := TaskCompound
	if strategy == StrategySequential {
		childType = TaskPrimitive
	}

	for i := 0; i < n; i++ {
		t := &Task{
			ID: uuid.NewString(),
			Description: fmt.Sprintf("%s: %s step %d", label, parent.Description, i+1),
			Type: childType,
			ParentID: parent.ID,
			Depth: parent.Depth + 1,
			Effort: parent.Effort / float64(n),
			EstimatedDuration: parent.EstimatedDuration / time.Duration(n),
		}
		if i > 0 {
			t.Prerequisites = []string{subtasks[i-1].ID}
		}
		subtasks = append(subtasks, t)
	}
	return subtasks
}

func subtaskCount(depth int) int {
	if depth%2 == 0 {
		return maxSubtasks
	}
	return minSubtasks
}

func strategyLabel(s Strategy) string {
	switch s {
	case StrategyHierarchical:
		return "hierarchical"
	case StrategyGoalOriented:
		return "goal-oriented"
	default:
		return "sequential"
	}
}
