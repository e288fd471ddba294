package core

import "time"

// ActionType enumerates the taxonomy of actions a Planner may emit and the
// ActionExecutor dispatches on.
type ActionType string

const (
	ActionFileOperation ActionType = "file_operation"
	ActionToolExecution ActionType = "tool_execution"
	ActionCodeGeneration ActionType = "code_generation"
	ActionAnalysis ActionType = "analysis"
	ActionCommunication ActionType = "communication"
	ActionPlanning ActionType = "planning"
)

// RiskLevel is assigned to an ActionPlan by the RiskAssessor prior to
// execution.
type RiskLevel string

const (
	RiskLow RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskOrder gives RiskLevel a total order for ceiling comparisons.
var riskOrder = map[RiskLevel]int{
	RiskLow: 0,
	RiskMedium: 1,
	RiskHigh: 2,
	RiskCritical: 3,
}

// Exceeds reports whether r is strictly riskier than ceiling. Unknown levels
// are treated as RiskCritical so misconfigured risk levels fail closed.
func (r RiskLevel) Exceeds(ceiling RiskLevel) bool {
	rv, ok := riskOrder[r]
	if !ok {
		rv = riskOrder[RiskCritical]
	}
	cv, ok := riskOrder[ceiling]
	if !ok {
		cv = riskOrder[RiskCritical]
	}
	return rv > cv
}

// ActionPlan is a deterministic description of one step a Planner wants the
// ActionExecutor to take.
type ActionPlan struct {
	ID string
	Type ActionType
	Description string
	Parameters map[string]any
	ExpectedOutcome string
	Confidence float64
	RiskLevel RiskLevel
	EstimatedSeconds float64
	Prerequisites []string
	SuccessCriteria []string
	Alternatives []ActionPlan
}

// ClampConfidence clamps Confidence into [0,1] regardless of what a planner
// computed.
func (p *ActionPlan) ClampConfidence() {
	switch {
	case p.Confidence < 0:
		p.Confidence = 0
	case p.Confidence > 1:
		p.Confidence = 1
	}
}

// ActionResult is the outcome of executing one ActionPlan.
type ActionResult struct {
	PlanID string
	Type ActionType
	Parameters map[string]any
	Success bool
	Output string
	Error string
	Duration time.Duration
	Metadata map[string]string
	SideEffects []SideEffect
}

// SideEffect records one observed effect of executing an action (e.g. a file
// write: path + byte count).
type SideEffect struct {
	Kind string
	Description string
	Path string
	Bytes int
}
