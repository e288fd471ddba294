package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeta_DefaultConfidence(t *testing.T) {
	t.Parallel()

	m := NewMeta()
	require.InDelta(t, 0.5, m.Confidence("unknown"), 1e-9)
}

func TestMeta_RecordOutcome(t *testing.T) {
	t.Parallel()

	m := NewMeta()
	m.RecordOutcome("code_generation", true)
	m.RecordOutcome("code_generation", true)
	m.RecordOutcome("code_generation", false)
	require.InDelta(t, 2.0/3.0, m.Confidence("code_generation"), 1e-9)
}

func TestApplyDecay(t *testing.T) {
	t.Parallel()

	now := time.Now()
	item := MemoryItem{Importance: 1.0, CreatedAt: now.Add(-2 * time.Hour), DecayRate: 0.5}
	decayed := ApplyDecay(item, now, time.Hour)
	require.InDelta(t, 0.25, decayed.Importance, 1e-9)
}

func TestApplyDecay_NoDecayRateIsNoop(t *testing.T) {
	t.Parallel()

	now := time.Now()
	item := MemoryItem{Importance: 1.0, CreatedAt: now.Add(-10 * time.Hour)}
	require.Equal(t, item, ApplyDecay(item, now, time.Hour))
}
