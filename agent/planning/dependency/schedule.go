package dependency

import "time"

// Defaults for Schedule.
const (
	DefaultTaskDuration = 300 * time.Second
	DefaultMaxParallelTasks = 6
)

// ScheduleConfig bounds the sequential-topological schedule.
type ScheduleConfig struct {
	TaskDuration time.Duration
	MaxParallelTasks int
}

func (c ScheduleConfig) withDefaults() ScheduleConfig {
	if c.TaskDuration <= 0 {
		c.TaskDuration = DefaultTaskDuration
	}
	if c.MaxParallelTasks <= 0 {
		c.MaxParallelTasks = DefaultMaxParallelTasks
	}
	return c
}

// ScheduledGroup is one step of the schedule: tasks that run together,
// bounded by MaxParallelTasks, plus that step's elapsed duration.
type ScheduledGroup struct {
	TaskIDs []string
	Duration time.Duration
}

// Schedule implements scheduling model: a sequential
// topological schedule at a fixed per-task duration, with parallel groups
// capped at MaxParallelTasks concurrent tasks. Ties in the topological
// order are kept together when they also appear in a parallel group;
// otherwise each task gets its own single-task group.
func Schedule(cfg ScheduleConfig, g *Graph) ([]ScheduledGroup, error) {
	cfg = cfg.withDefaults()

	order, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	parallelOf := make(map[string]int, len(order))
	for i, group := range ParallelGroups(g) {
		for _, id := range group {
			parallelOf[id] = i
		}
	}

	var schedule []ScheduledGroup
	placed := make(map[string]bool, len(order))

	for _, id := range order {
		if placed[id] {
			continue
		}
		groupIdx, inGroup := parallelOf[id]
		if !inGroup {
			schedule = append(schedule, ScheduledGroup{TaskIDs: []string{id}, Duration: cfg.TaskDuration})
			placed[id] = true
			continue
		}

		var batch []string
		for _, candidate := range order {
			if placed[candidate] {
				continue
			}
			idx, ok := parallelOf[candidate]
			if !ok || idx != groupIdx {
				continue
			}
			if !dependenciesSatisfied(g, candidate, placed) {
				continue
			}
			batch = append(batch, candidate)
			if len(batch) == cfg.MaxParallelTasks {
				break
			}
		}
		for _, b := range batch {
			placed[b] = true
		}
		schedule = append(schedule, ScheduledGroup{TaskIDs: batch, Duration: cfg.TaskDuration})
	}

	return schedule, nil
}

func dependenciesSatisfied(g *Graph, taskID string, placed map[string]bool) bool {
	for _, dep := range g.Dependencies(taskID) {
		if !placed[dep] {
			return false
		}
	}
	return true
}
