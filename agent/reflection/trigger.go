package reflection

import "github.com/njfio/fluent-agent-core/agent/core"

// Defaults for Config.
const (
	DefaultReflectionFrequency = 5
	DefaultDeepFrequency = 20
	DefaultConfidenceThreshold = 0.6
	DefaultPerformanceThreshold = 0.7
	repeatedFailureThreshold = 3
	stagnationIterationFloor = 10
	recentEventWindow = 10
)

// Config tunes trigger evaluation and the confidence/performance formulas.
type Config struct {
	ReflectionFrequency int
	DeepFrequency int
	ConfidenceThreshold float64
	PerformanceThreshold float64
}

// DefaultConfig returns documented defaults.
func DefaultConfig() Config {
	return Config{
		ReflectionFrequency: DefaultReflectionFrequency,
		DeepFrequency: DefaultDeepFrequency,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		PerformanceThreshold: DefaultPerformanceThreshold,
	}
}

func (c Config) withDefaults() Config {
	if c.ReflectionFrequency <= 0 {
		c.ReflectionFrequency = DefaultReflectionFrequency
	}
	if c.DeepFrequency <= 0 {
		c.DeepFrequency = DefaultDeepFrequency
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.PerformanceThreshold <= 0 {
		c.PerformanceThreshold = DefaultPerformanceThreshold
	}
	return c
}

// ShouldReflect evaluates trigger table in order, returning the
// first trigger that matches.
func ShouldReflect(cfg Config, execCtx *core.ExecutionContext) (Trigger, bool) {
	cfg = cfg.withDefaults()
	iteration := execCtx.IterationCount()

	if iteration > 0 && iteration%cfg.ReflectionFrequency == 0 {
		return Trigger{Kind: TriggerScheduledInterval}, true
	}

	if latest, ok := execCtx.LatestObservation(); ok && latest.Relevance < cfg.ConfidenceThreshold {
		return Trigger{Kind: TriggerLowConfidence, Confidence: latest.Relevance}, true
	}

	if n := countRecentFailures(execCtx); n >= repeatedFailureThreshold {
		return Trigger{Kind: TriggerRepeatedFailures, FailureCount: n}, true
	}

	if isGoalStagnant(execCtx) {
		return Trigger{Kind: TriggerGoalStagnation}, true
	}

	return Trigger{}, false
}

func countRecentFailures(execCtx *core.ExecutionContext) int {
	n := 0
	for _, e := range execCtx.RecentEvents(recentEventWindow) {
		if e.Type == core.EventTaskFailed || e.Type == core.EventErrorOccurred {
			n++
		}
	}
	return n
}

func isGoalStagnant(execCtx *core.ExecutionContext) bool {
	if execCtx.IterationCount() <= stagnationIterationFloor {
		return false
	}
	for _, e := range execCtx.RecentEvents(recentEventWindow) {
		if e.Type == core.EventTaskCompleted {
			return false
		}
	}
	return true
}

// SelectType implements reflection-type selection.
func SelectType(cfg Config, trigger Trigger, execCtx *core.ExecutionContext) Type {
	cfg = cfg.withDefaults()
	switch trigger.Kind {
	case TriggerScheduledInterval:
		if execCtx.IterationCount()%cfg.DeepFrequency == 0 {
			return TypeDeep
		}
		return TypeRoutine
	case TriggerCriticalError, TriggerRepeatedFailures:
		return TypeCrisis
	default:
		return TypeTriggered
	}
}
