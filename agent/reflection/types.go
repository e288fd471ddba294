// Package reflection implements ReflectionEngine: trigger
// evaluation, reflection-type selection, progress/strategy/bottleneck
// analysis, and strategy-adjustment generation, trimmed to the fields this
// module actually exercises rather than a full learning-insight/
// recommendation taxonomy.
package reflection

import (
	"time"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// TriggerKind enumerates trigger table, in evaluation order.
type TriggerKind string

const (
	TriggerScheduledInterval TriggerKind = "scheduled_interval"
	TriggerLowConfidence TriggerKind = "low_confidence"
	TriggerRepeatedFailures TriggerKind = "repeated_failures"
	TriggerGoalStagnation TriggerKind = "goal_stagnation"
	TriggerCriticalError TriggerKind = "critical_error"
	TriggerUserRequest TriggerKind = "user_request"
)

// Trigger is the reason should_reflect fired, with the kind-specific payload
// attaches to ScheduledInterval/LowConfidence/RepeatedFailures.
type Trigger struct {
	Kind TriggerKind
	Confidence float64
	FailureCount int
	CriticalError string
}

// Type is the reflection depth selected from the trigger.
type Type string

const (
	TypeRoutine Type = "routine"
	TypeTriggered Type = "triggered"
	TypeDeep Type = "deep"
	TypeMeta Type = "meta"
	TypeCrisis Type = "crisis"
)

// VelocityTrend classifies how goal-completion rate is moving.
type VelocityTrend string

const (
	VelocityIncreasing VelocityTrend = "increasing"
	VelocityStable VelocityTrend = "stable"
	VelocityDecreasing VelocityTrend = "decreasing"
	VelocityVolatile VelocityTrend = "volatile"
)

// QualityMetrics summarizes observation-derived quality signals.
type QualityMetrics struct {
	Accuracy float64
	Completeness float64
	Efficiency float64
}

// Average returns the unweighted mean of the three quality components, used
// by the confidence-assessment formula's quality term.
func (q QualityMetrics) Average() float64 {
	return (q.Accuracy + q.Completeness + q.Efficiency) / 3
}

// ProgressAssessment is progress-assessment analysis component.
type ProgressAssessment struct {
	GoalCompletionPercentage float64
	VelocityTrend VelocityTrend
	TimeEfficiency float64
	QualityMetrics QualityMetrics
}

// StrategyEffectiveness is strategy-effectiveness component.
type StrategyEffectiveness struct {
	CurrentStrategyScore float64
	AdaptationFrequency float64
}

// Bottleneck is one obstacle identified during analysis. Severity drives
// both confidence's bottleneck penalty and whether a strategy adjustment is
// emitted for it.
type Bottleneck struct {
	Description string
	Severity core.ImpactLevel
	Frequency float64
	SuggestedSolutions []string
}

// SuccessPattern and FailurePattern summarize recent completed-task outcome
// ratios "success/failure pattern sets."
type SuccessPattern struct {
	Description string
	SuccessRate float64
}

type FailurePattern struct {
	Description string
	FailureRate float64
	MitigationStrategies []string
}

// ResourceUtilization is resource-utilization component.
type ResourceUtilization struct {
	TimeEfficiency float64
	CognitiveLoad float64
}

// Analysis bundles every component lists under "analysis
// components produced."
type Analysis struct {
	Progress ProgressAssessment
	Strategy StrategyEffectiveness
	Bottlenecks []Bottleneck
	SuccessPatterns []SuccessPattern
	FailurePatterns []FailurePattern
	ResourceUtilization ResourceUtilization
}

// Result is the ReflectionResult names: one reflection pass's
// complete output.
type Result struct {
	ID string
	Timestamp time.Time
	Type Type
	Trigger Trigger
	Analysis Analysis
	StrategyAdjustments []core.StrategyAdjustment
	ConfidenceAssessment float64
	PerformanceAssessment float64
}
