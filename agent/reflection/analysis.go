package reflection

import (
	"github.com/njfio/fluent-agent-core/agent/core"
)

const (
	highFailureRateThreshold = 0.3
	minFailuresForBottleneck = 2
)

// analyzeProgress builds progress-assessment component from the
// context's active/completed task counts and recent observation relevance.
func analyzeProgress(execCtx *core.ExecutionContext) ProgressAssessment {
	active := len(execCtx.ActiveTasks())
	completed := len(execCtx.CompletedTasks())
	total := active + completed

	completion := 0.0
	if total > 0 {
		completion = float64(completed) / float64(total)
	}

	return ProgressAssessment{
		GoalCompletionPercentage: completion,
		VelocityTrend: velocityTrend(execCtx),
		TimeEfficiency: timeEfficiency(execCtx),
		QualityMetrics: qualityMetrics(execCtx),
	}
}

// velocityTrend compares task-completion density across the two halves of
// the recent event window.
func velocityTrend(execCtx *core.ExecutionContext) VelocityTrend {
	events := execCtx.RecentEvents(recentEventWindow)
	if len(events) < 4 {
		return VelocityStable
	}
	mid := len(events) / 2
	firstHalf := countCompleted(events[:mid])
	secondHalf := countCompleted(events[mid:])

	switch {
	case secondHalf > firstHalf:
		return VelocityIncreasing
	case secondHalf < firstHalf:
		return VelocityDecreasing
	case firstHalf == 0 && secondHalf == 0:
		return VelocityVolatile
	default:
		return VelocityStable
	}
}

func countCompleted(events []core.ExecutionEvent) int {
	n := 0
	for _, e := range events {
		if e.Type == core.EventTaskCompleted {
			n++
		}
	}
	return n
}

// timeEfficiency proxies remaining iteration budget when the goal caps
// iterations; with no cap it reports a neutral midpoint.
func timeEfficiency(execCtx *core.ExecutionContext) float64 {
	goal := execCtx.Goal()
	if goal == nil || goal.MaxIterations <= 0 {
		return 0.5
	}
	used := float64(execCtx.IterationCount()) / float64(goal.MaxIterations)
	eff := 1 - used
	return clamp01(eff)
}

// qualityMetrics derives accuracy/completeness/efficiency from recent
// observation relevance: the teacher has no first-class "quality score," so
// this reuses the relevance contract the ObservationProcessor already
// guarantees (success >= 0.7, failure <= 0.5).
func qualityMetrics(execCtx *core.ExecutionContext) QualityMetrics {
	observations := execCtx.RecentObservations(recentEventWindow)
	if len(observations) == 0 {
		return QualityMetrics{Accuracy: 0.5, Completeness: 0.5, Efficiency: 0.5}
	}
	var sum float64
	for _, o := range observations {
		sum += o.Relevance
	}
	avg := sum / float64(len(observations))
	return QualityMetrics{Accuracy: avg, Completeness: avg, Efficiency: avg}
}

// evaluateStrategy builds strategy-effectiveness component.
func evaluateStrategy(execCtx *core.ExecutionContext) StrategyEffectiveness {
	progress := analyzeProgress(execCtx)
	score := clamp01((progress.GoalCompletionPercentage + progress.TimeEfficiency) / 2)

	adaptation := 0.0
	if iter := execCtx.IterationCount(); iter > 0 {
		adaptation = float64(len(execCtx.StrategyAdjustments())) / float64(iter)
	}

	return StrategyEffectiveness{
		CurrentStrategyScore: score,
		AdaptationFrequency: adaptation,
	}
}

// detectBottlenecks implements bottleneck rule: failure rate
// above threshold, or no active tasks past the stagnation floor.
func detectBottlenecks(execCtx *core.ExecutionContext) []Bottleneck {
	var out []Bottleneck

	events := execCtx.RecentEvents(recentEventWindow)
	failures := 0
	for _, e := range events {
		if e.Type == core.EventTaskFailed {
			failures++
		}
	}
	if failures > minFailuresForBottleneck && len(events) > 0 {
		rate := float64(failures) / float64(len(events))
		if rate > highFailureRateThreshold {
			out = append(out, Bottleneck{
					Description: "high failure rate in recent task execution",
					Severity: core.ImpactHigh,
					Frequency: rate,
					SuggestedSolutions: []string{
						"review task complexity",
						"improve error handling",
						"enhance validation",
					},
				})
		}
	}

	if len(execCtx.ActiveTasks()) == 0 && execCtx.IterationCount() > 5 {
		out = append(out, Bottleneck{
				Description: "no active tasks, possible stagnation",
				Severity: core.ImpactMedium,
				Frequency: 1.0,
				SuggestedSolutions: []string{
					"generate new tasks",
					"review goal decomposition",
				},
			})
	}

	return out
}

// analyzePatterns implements success/failure pattern sets from
// recent TaskCompleted/TaskFailed event ratios.
func analyzePatterns(execCtx *core.ExecutionContext) ([]SuccessPattern, []FailurePattern) {
	events := execCtx.RecentEvents(recentEventWindow)
	completed, failed := 0, 0
	for _, e := range events {
		switch e.Type {
		case core.EventTaskCompleted:
			completed++
		case core.EventTaskFailed:
			failed++
		}
	}
	total := completed + failed
	if total == 0 {
		return nil, nil
	}

	var successes []SuccessPattern
	if completed > 0 {
		successes = append(successes, SuccessPattern{
				Description: "systematic task completion",
				SuccessRate: float64(completed) / float64(total),
			})
	}

	var failures []FailurePattern
	if failed > 0 {
		failures = append(failures, FailurePattern{
				Description: "recurring task failure",
				FailureRate: float64(failed) / float64(total),
				MitigationStrategies: []string{
					"improve task planning",
					"add validation steps",
				},
			})
	}
	return successes, failures
}

// assessResourceUtilization implements resource-utilization
// component.
func assessResourceUtilization(execCtx *core.ExecutionContext) ResourceUtilization {
	eff := timeEfficiency(execCtx)
	return ResourceUtilization{
		TimeEfficiency: eff,
		CognitiveLoad: clamp01(1 - eff),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
