package planner

import (
	"time"

	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// TestComposite_PlanActionAlwaysTerminates checks that the composite
// planner returns a plan with a non-empty type and no error for any valid
// context, for any goal description text.
func TestComposite_PlanActionAlwaysTerminates(t *testing.T) {
	t.Parallel()

	c := NewComposite(NewResearch(""), NewLongForm("", 0), NewBase())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("composite planner always returns a plan, never panics", prop.ForAll(
			func(description string) bool {
				ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: description})
				plan, err := c.PlanAction(core.ReasoningResult{}, ctx)
				return err == nil && plan.Type != ""
			},
			gen.AlphaString(),
		))

	properties.TestingRun(t)
}

// TestResearch_PlanActionIsPureFunctionOfObservations checks that the
// research planner's emitted plan for a given context is a pure function of
// the observation history and configured base directory: calling it twice
// against an unmodified context yields the same plan.
func TestResearch_PlanActionIsPureFunctionOfObservations(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("calling PlanAction twice on an unmodified context yields identical plans", prop.ForAll(
			func(base string, withOutline, withNotes bool) bool {
				r := NewResearch(base)
				ctx := core.NewExecutionContext(&core.Goal{ID: "g", Description: "research something"})
				if withOutline {
					ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
							"Successfully wrote to "+r.Base+"/outline.md", "tool_execution", 0.9))
				}
				if withNotes {
					ctx.AppendObservation(core.NewObservation(time.Unix(0, 0), core.ObservationActionResult,
							"Successfully wrote to "+r.Base+"/notes.md", "tool_execution", 0.9))
				}

				first, err1 := r.PlanAction(core.ReasoningResult{}, ctx)
				second, err2 := r.PlanAction(core.ReasoningResult{}, ctx)
				if err1 != nil || err2 != nil {
					return false
				}
				return first.Type == second.Type &&
				fmtParams(first.Parameters) == fmtParams(second.Parameters)
			},
			gen.AlphaString(),
			gen.Bool(),
			gen.Bool(),
		))

	properties.TestingRun(t)
}

func fmtParams(m map[string]any) string {
	out := ""
	for _, k := range []string{"tool_name", "out_path"} {
		if v, ok := m[k]; ok {
			out += k + "=" + toString(v) + ";"
		}
	}
	return out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
