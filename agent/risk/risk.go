// Package risk implements the RiskAssessor capability:
// assign a RiskLevel to an ActionPlan before execution so the Orchestrator's
// risk gate can downgrade plans that exceed a configured ceiling. Grounded
// on the teacher's features/policy/basic.Engine: same allow/block-tag
// filtering shape (Options struct, generic toSet helper, tag index lookup),
// repurposed from an allow/deny decision to a graduated RiskLevel
// classification.
package risk

import (
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Options configures Assessor.
type Options struct {
	// CriticalTags/HighTags/MediumTags classify an ActionPlan by its
	// Parameters["tags"] (a []string, when present). The highest matching
	// tier wins. Tags not listed anywhere fall through to the action-type
	// defaults.
	CriticalTags []string
	HighTags []string
	MediumTags []string
	// DangerousPatterns are substrings that, when found (case-insensitively)
	// in the plan's Description or string parameter values, force
	// RiskCritical regardless of tags or action type — the "dangerous
	// pattern" detection KindValidation entry describes.
	DangerousPatterns []string
}

// Assessor is the capability calls RiskAssessor.
type Assessor struct {
	criticalTags map[string]struct{}
	highTags map[string]struct{}
	mediumTags map[string]struct{}
	patterns []string
}

// New builds an Assessor from opts. A zero-value Options yields sensible
// defaults: file deletes are High, tool execution is Medium, everything else
// defaults per action type (see actionTypeDefault).
func New(opts Options) *Assessor {
	return &Assessor{
		criticalTags: toSet(opts.CriticalTags),
		highTags: toSet(opts.HighTags),
		mediumTags: toSet(opts.MediumTags),
		patterns: lowerAll(opts.DangerousPatterns),
	}
}

// Assess maps plan to a RiskLevel. execCtx is accepted for interface parity
// with future context-sensitive rules (e.g. cumulative side effects) but
// unused today.
func (a *Assessor) Assess(plan core.ActionPlan, _ *core.ExecutionContext) core.RiskLevel {
	if a.matchesDangerousPattern(plan) {
		return core.RiskCritical
	}
	tags, _ := plan.Parameters["tags"].([]string)
	if level, ok := a.classifyTags(tags); ok {
		return level
	}
	return actionTypeDefault(plan)
}

func (a *Assessor) matchesDangerousPattern(plan core.ActionPlan) bool {
	haystacks := []string{strings.ToLower(plan.Description)}
	for _, v := range plan.Parameters {
		if s, ok := v.(string); ok {
			haystacks = append(haystacks, strings.ToLower(s))
		}
	}
	for _, pattern := range a.patterns {
		for _, h := range haystacks {
			if strings.Contains(h, pattern) {
				return true
			}
		}
	}
	return false
}

func (a *Assessor) classifyTags(tags []string) (core.RiskLevel, bool) {
	found := false
	for _, t := range tags {
		if _, ok := a.criticalTags[t]; ok {
			return core.RiskCritical, true
		}
	}
	for _, t := range tags {
		if _, ok := a.highTags[t]; ok {
			found = true
		}
	}
	if found {
		return core.RiskHigh, true
	}
	for _, t := range tags {
		if _, ok := a.mediumTags[t]; ok {
			return core.RiskMedium, true
		}
	}
	return core.RiskLow, false
}

// actionTypeDefault assigns a baseline RiskLevel by ActionType and the
// file_operation kind, absent any tag override.
func actionTypeDefault(plan core.ActionPlan) core.RiskLevel {
	switch plan.Type {
	case core.ActionFileOperation:
		if op, _ := plan.Parameters["operation"].(string); op == "delete" {
			return core.RiskHigh
		}
		return core.RiskMedium
	case core.ActionToolExecution, core.ActionCodeGeneration:
		return core.RiskMedium
	default:
		return core.RiskLow
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
