package risk

import (
	"fmt"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Gate implements risk-gate step: if plan's assessed risk
// exceeds ceiling and dryRun is false, the plan is downgraded to a no-op
// Analysis plan recording the rationale; otherwise plan is returned with
// RiskLevel set from the assessment.
func Gate(assessor *Assessor, plan core.ActionPlan, execCtx *core.ExecutionContext, ceiling core.RiskLevel, dryRun bool) core.ActionPlan {
	level := assessor.Assess(plan, execCtx)
	plan.RiskLevel = level
	if dryRun || !level.Exceeds(ceiling) {
		return plan
	}
	return core.ActionPlan{
		ID: plan.ID,
		Type: core.ActionAnalysis,
		Description: fmt.Sprintf("blocked: risk level %s exceeds ceiling %s for plan %q", level, ceiling, plan.Description),
		Confidence: plan.Confidence,
		RiskLevel: level,
	}
}
