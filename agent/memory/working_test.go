package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
)

func appendObservation(execCtx *core.ExecutionContext, content string, relevance float64, at time.Time) {
	execCtx.AppendObservation(core.NewObservation(at, core.ObservationActionResult, content, "test", relevance))
}

func TestWorking_UpdateEvictsOverCapacity(t *testing.T) {
	t.Parallel()

	w := NewWorking(nil)
	w.Capacity = 3
	execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})

	for i := 0; i < 5; i++ {
		appendObservation(execCtx, "item", 0.5, time.Now())
		w.Update(execCtx)
	}
	require.Len(t, w.Items(), 3)
}

func TestWorking_DetectsSuccessSequence(t *testing.T) {
	t.Parallel()

	w := NewWorking(nil)
	execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})

	contents := []string{"SUCCESS one", "failure", "SUCCESS two", "SUCCESS three", "neutral"}
	for _, c := range contents {
		appendObservation(execCtx, c, 0.9, time.Now())
		w.Update(execCtx)
	}
	patterns := w.ActivePatterns()
	require.NotEmpty(t, patterns)
	require.Equal(t, "SuccessSequence", patterns[0].Kind)
}

func TestWorking_MaybeConsolidate(t *testing.T) {
	t.Parallel()

	lt := NewInMemoryLongTerm()
	w := NewWorking(lt)
	w.Capacity = 10
	w.ConsolidationThreshold = 0.8
	execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})

	for i := 0; i < 8; i++ {
		relevance := 0.5
		if i%2 == 0 {
			relevance = 0.9
		}
		appendObservation(execCtx, "item", relevance, time.Now())
		w.Update(execCtx)
	}

	n, err := w.MaybeConsolidate(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 4, n)

	stored, err := lt.Query(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 4)
}

func TestWorking_MaybeConsolidate_AllHighRelevance(t *testing.T) {
	t.Parallel()

	lt := NewInMemoryLongTerm()
	w := NewWorking(lt)
	w.Capacity = 10
	w.ConsolidationThreshold = 0.8
	execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})

	for i := 0; i < 8; i++ {
		appendObservation(execCtx, "item", 0.9, time.Now())
		w.Update(execCtx)
	}

	n, err := w.MaybeConsolidate(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 8, n)

	stored, err := lt.Query(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 8)
	for _, item := range stored {
		require.InDelta(t, 0.9, item.Importance, 1e-9)
		require.Contains(t, item.Tags, "consolidated")
	}

	for _, item := range w.Items() {
		require.LessOrEqual(t, item.Relevance, 0.7)
	}
}

func TestWorking_AttentionFocus_TopK(t *testing.T) {
	t.Parallel()

	w := NewWorking(nil)
	execCtx := core.NewExecutionContext(&core.Goal{ID: "g"})
	for i := 0; i < 15; i++ {
		appendObservation(execCtx, "item", 0.5, time.Now())
		w.Update(execCtx)
	}
	require.LessOrEqual(t, len(w.AttentionFocus()), AttentionFocusSize)
}
