package reflection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/njfio/fluent-agent-core/agent/core"
)

const bottleneckPenaltyPerItem = 0.1

// velocityScore maps VelocityTrend to the performance formula's weight, per
//
var velocityScore = map[VelocityTrend]float64{
	VelocityIncreasing: 1.0,
	VelocityStable: 0.7,
	VelocityVolatile: 0.5,
	VelocityDecreasing: 0.3,
}

// Engine is the ReflectionEngine of Now defaults to time.Now; set
// it for deterministic tests.
type Engine struct {
	Config Config
	Now func() time.Time
}

// New builds an Engine with cfg (defaults applied lazily).
func New(cfg Config) *Engine {
	return &Engine{Config: cfg.withDefaults(), Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// ShouldReflect evaluates e's trigger table against execCtx.
func (e *Engine) ShouldReflect(execCtx *core.ExecutionContext) (Trigger, bool) {
	return ShouldReflect(e.Config, execCtx)
}

// Reflect runs one full reflection pass: select the
// reflection type, build the analysis, generate strategy adjustments, and
// compute the confidence/performance assessments.
func (e *Engine) Reflect(execCtx *core.ExecutionContext, trigger Trigger) Result {
	reflType := SelectType(e.Config, trigger, execCtx)

	successes, failures := analyzePatterns(execCtx)
	analysis := Analysis{
		Progress: analyzeProgress(execCtx),
		Strategy: evaluateStrategy(execCtx),
		Bottlenecks: detectBottlenecks(execCtx),
		SuccessPatterns: successes,
		FailurePatterns: failures,
		ResourceUtilization: assessResourceUtilization(execCtx),
	}
	analysis.Bottlenecks = append(analysis.Bottlenecks, triggerBottleneck(trigger)...)
	if reflType == TypeCrisis {
		analysis.Bottlenecks = append(analysis.Bottlenecks, Bottleneck{
				Description: "crisis situation requiring immediate attention",
				Severity: core.ImpactCritical,
				Frequency: 1.0,
				SuggestedSolutions: []string{
					"implement emergency recovery procedures",
					"revert to last known good state",
				},
			})
	}

	adjustments := e.generateAdjustments(analysis)

	return Result{
		ID: uuid.NewString(),
		Timestamp: e.now(),
		Type: reflType,
		Trigger: trigger,
		Analysis: analysis,
		StrategyAdjustments: adjustments,
		ConfidenceAssessment: confidenceAssessment(analysis),
		PerformanceAssessment: performanceAssessment(analysis),
	}
}

// triggerBottleneck adds the trigger-specific bottleneck a triggered
// reflection contributes for LowConfidence.
func triggerBottleneck(trigger Trigger) []Bottleneck {
	if trigger.Kind != TriggerLowConfidence {
		return nil
	}
	return []Bottleneck{{
			Description: fmt.Sprintf("low confidence detected: %.2f", trigger.Confidence),
			Severity: core.ImpactHigh,
			Frequency: 1.0,
			SuggestedSolutions: []string{
				"review recent actions for errors",
				"seek additional information",
				"consider alternative approaches",
			},
		}}
}

// generateAdjustments implements strategy-adjustment emission
// rule: one per critical/high bottleneck, plus one when the strategy score
// falls below Config.PerformanceThreshold.
func (e *Engine) generateAdjustments(analysis Analysis) []core.StrategyAdjustment {
	var out []core.StrategyAdjustment

	for _, b := range analysis.Bottlenecks {
		if b.Severity != core.ImpactHigh && b.Severity != core.ImpactCritical {
			continue
		}
		out = append(out, core.StrategyAdjustment{
				Type: core.AdjustApproachModification,
				Rationale: fmt.Sprintf("address bottleneck: %s", b.Description),
				ExpectedImpact: b.Severity,
				ImplementationSteps: b.SuggestedSolutions,
				RollbackPlan: "revert to previous approach if no improvement",
			})
	}

	if analysis.Strategy.CurrentStrategyScore < e.Config.PerformanceThreshold {
		out = append(out, core.StrategyAdjustment{
				Type: core.AdjustStrategyOptimization,
				Rationale: fmt.Sprintf("strategy score %.2f below threshold %.2f",
					analysis.Strategy.CurrentStrategyScore, e.Config.PerformanceThreshold),
				ExpectedImpact: core.ImpactHigh,
				ImplementationSteps: []string{
					"review current approach",
					"identify alternative strategies",
					"implement gradual changes",
				},
				RollbackPlan: "return to baseline strategy",
			})
	}

	return out
}

// confidenceAssessment implements weighted-average formula.
func confidenceAssessment(a Analysis) float64 {
	const (
		progressWeight = 0.3
		strategyWeight = 0.3
		qualityWeight = 0.2
		bottleneckWeight = 0.2
	)
	bottleneckPenalty := float64(len(a.Bottlenecks)) * bottleneckPenaltyPerItem
	score := a.Progress.GoalCompletionPercentage*progressWeight +
	a.Strategy.CurrentStrategyScore*strategyWeight +
	a.Progress.QualityMetrics.Average()*qualityWeight -
	bottleneckPenalty*bottleneckWeight
	return clamp01(score)
}

// performanceAssessment implements weighted-average formula.
func performanceAssessment(a Analysis) float64 {
	const (
		efficiencyWeight = 0.4
		qualityWeight = 0.3
		velocityWeight = 0.3
	)
	quality := (a.Progress.QualityMetrics.Accuracy + a.Progress.QualityMetrics.Completeness) / 2
	vScore := velocityScore[a.Progress.VelocityTrend]
	score := a.Progress.TimeEfficiency*efficiencyWeight +
	quality*qualityWeight +
	vScore*velocityWeight
	return clamp01(score)
}
