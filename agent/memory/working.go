package memory

import (
	"context"
	"strings"
	"time"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Default tuning constants from
const (
	DefaultCapacity = 50
	DefaultConsolidationThreshold = 0.8
	AttentionFocusSize = 10
	ConsolidationImportance = 0.7
	PatternWindow = 5
	PatternMinMatches = 3
	DefaultPatternConfidence = 0.8
)

// Working is the authoritative working-memory layer for one run: a bounded
// deque of items with attention weights, an active-pattern set, and
// consolidation to a LongTermMemory collaborator.
type Working struct {
	Capacity int
	ConsolidationThreshold float64
	LongTerm LongTermMemory

	items []WorkingItem
	patterns []Pattern
}

// NewWorking builds a Working layer with spec-default tuning, backed by lt
// for consolidation. lt may be nil, in which case Consolidate is a no-op.
func NewWorking(lt LongTermMemory) *Working {
	return &Working{
		Capacity: DefaultCapacity,
		ConsolidationThreshold: DefaultConsolidationThreshold,
		LongTerm: lt,
	}
}

// Update implements working memory update(&context):
// - push an item from the latest observation, dropping from the front if
// capacity is exceeded
// - refresh attention weights (relevance × activation)
// - detect a SuccessSequence pattern over the last 5 observations
//
// Update does not itself run consolidation; callers invoke
// MaybeConsolidate afterward (the Orchestrator does this once per tick).
func (w *Working) Update(execCtx *core.ExecutionContext) {
	obs, ok := execCtx.LatestObservation()
	if !ok {
		return
	}
	w.items = append(w.items, WorkingItem{
			Content: obs.Content,
			Relevance: obs.Relevance,
			Activation: 1.0,
			CreatedAt: obs.Timestamp,
		})
	if len(w.items) > w.Capacity {
		w.items = w.items[len(w.items)-w.Capacity:]
	}
	w.refreshActivation()
	w.detectPatterns(execCtx)
}

// refreshActivation decays older items' activation slightly relative to the
// most recent item, so AttentionFocus favors recency among equally relevant
// items without discarding older high-relevance items outright.
func (w *Working) refreshActivation() {
	n := len(w.items)
	for i := range w.items {
		age := n - 1 - i
		activation := 1.0 - float64(age)*0.02
		if activation < 0.1 {
			activation = 0.1
		}
		w.items[i].Activation = activation
	}
}

func (w *Working) detectPatterns(execCtx *core.ExecutionContext) {
	recent := execCtx.RecentObservations(PatternWindow)
	if len(recent) < PatternWindow {
		return
	}
	matches := 0
	for _, o := range recent {
		if strings.Contains(strings.ToUpper(o.Content), "SUCCESS") {
			matches++
		}
	}
	if matches < PatternMinMatches {
		return
	}
	confidence := DefaultPatternConfidence
	for _, p := range w.patterns {
		if p.Kind == "SuccessSequence" {
			confidence = (p.Confidence + DefaultPatternConfidence) / 2
			break
		}
	}
	w.patterns = append(w.patterns, Pattern{Kind: "SuccessSequence", Confidence: confidence, DetectedAt: time.Now()})
}

// ActivePatterns returns a copy of detected active patterns.
func (w *Working) ActivePatterns() []Pattern {
	out := make([]Pattern, len(w.patterns))
	copy(out, w.patterns)
	return out
}

// AttentionFocus returns the top-K items by weight (relevance × activation),
// K = AttentionFocusSize.
func (w *Working) AttentionFocus() []WorkingItem {
	sorted := make([]WorkingItem, len(w.items))
	copy(sorted, w.items)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Weight() > sorted[j-1].Weight(); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > AttentionFocusSize {
		sorted = sorted[:AttentionFocusSize]
	}
	return sorted
}

// Items returns a copy of the full working deque.
func (w *Working) Items() []WorkingItem {
	out := make([]WorkingItem, len(w.items))
	copy(out, w.items)
	return out
}

// MaybeConsolidate implements consolidation trigger: when the
// deque size reaches Capacity*ConsolidationThreshold, items with
// relevance > 0.7 are converted to MemoryItems, persisted to LongTerm, and
// removed from the working deque.
func (w *Working) MaybeConsolidate(ctx context.Context, now time.Time) (int, error) {
	threshold := float64(w.Capacity) * w.ConsolidationThreshold
	if float64(len(w.items)) < threshold {
		return 0, nil
	}
	kept := w.items[:0:0]
	consolidated := 0
	for _, item := range w.items {
		if item.Relevance > ConsolidationImportance {
			if w.LongTerm != nil {
				mi := MemoryItem{
					Type: MemoryItemExperience,
					Content: item.Content,
					Importance: item.Relevance,
					CreatedAt: now,
					Tags: []string{"consolidated"},
				}
				if err := w.LongTerm.Store(ctx, mi); err != nil {
					return consolidated, err
				}
			}
			consolidated++
			continue
		}
		kept = append(kept, item)
	}
	w.items = kept
	return consolidated, nil
}
