package memory

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// TestWorking_SizeNeverExceedsCapacityProperty checks that after any number
// of Update calls, the working deque never grows past its configured
// Capacity, for randomly generated capacities and update counts.
func TestWorking_SizeNeverExceedsCapacityProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("working memory size stays at or below capacity", prop.ForAll(
			func(capacity, updateCount int) bool {
				w := NewWorking(nil)
				w.Capacity = capacity
				execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})

				for i := 0; i < updateCount; i++ {
					appendObservation(execCtx, "item", 0.5, time.Now())
					w.Update(execCtx)
					if len(w.Items()) > w.Capacity {
						return false
					}
				}
				return true
			},
			gen.IntRange(1, 20),
			gen.IntRange(0, 50),
		))

	properties.TestingRun(t)
}
