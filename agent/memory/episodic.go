package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Episodic is the episodic memory layer: complete episodes keyed by
// creation time, pruned from the bottom decile when over capacity.
type Episodic struct {
	MaxEpisodes int
	episodes []Episode
}

// NewEpisodic builds an Episodic store with the given capacity. A
// non-positive capacity means unbounded.
func NewEpisodic(maxEpisodes int) *Episodic {
	return &Episodic{MaxEpisodes: maxEpisodes}
}

// CreateEpisodeFromContext extracts recent events, determines outcome
// by keyword scan, computes valence from keyword sentiment, and builds the
// episode. Returns the built episode.
func (e *Episodic) CreateEpisodeFromContext(execCtx *core.ExecutionContext, now time.Time) Episode {
	events := recentEventSummaries(execCtx)
	ep := Episode{
		ID: uuid.NewString(),
		CreatedAt: now,
		GoalID: execCtx.Goal().ID,
		Events: events,
		Outcome: determineOutcome(events),
		Importance: 0.5,
	}
	ep.Valence = valenceOf(events)
	ep.Importance = importanceFromOutcome(ep.Outcome, ep.Valence)
	e.episodes = append(e.episodes, ep)
	e.pruneIfNeeded()
	return ep
}

func recentEventSummaries(execCtx *core.ExecutionContext) []string {
	events := execCtx.RecentEvents(20)
	out := make([]string, 0, len(events)+1)
	if g := execCtx.Goal(); g != nil {
		out = append(out, "goal initiated: "+g.Description)
	}
	for _, ev := range events {
		out = append(out, string(ev.Type)+": "+ev.Message)
	}
	return out
}

func determineOutcome(events []string) EventOutcome {
	joined := strings.ToLower(strings.Join(events, " "))
	switch {
	case strings.Contains(joined, "fail"):
		return OutcomeFailure
	case strings.Contains(joined, "learn"):
		return OutcomeLearning
	case strings.Contains(joined, "success"):
		return OutcomeSuccess
	default:
		return OutcomeUnknown
	}
}

// valenceOf scores -1..1 sentiment from a small keyword lexicon.
func valenceOf(events []string) float64 {
	positive := []string{"success", "complete", "learn", "improve"}
	negative := []string{"fail", "error", "block", "timeout"}
	joined := strings.ToLower(strings.Join(events, " "))
	score := 0
	for _, p := range positive {
		if strings.Contains(joined, p) {
			score++
		}
	}
	for _, n := range negative {
		if strings.Contains(joined, n) {
			score--
		}
	}
	if score == 0 {
		return 0
	}
	v := float64(score) / float64(len(positive)+len(negative))
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v
}

func importanceFromOutcome(outcome EventOutcome, valence float64) float64 {
	base := 0.5
	switch outcome {
	case OutcomeSuccess:
		base = 0.7
	case OutcomeFailure:
		base = 0.6
	case OutcomeLearning:
		base = 0.8
	}
	importance := base + valence*0.1
	if importance > 1 {
		importance = 1
	}
	if importance < 0 {
		importance = 0
	}
	return importance
}

// pruneIfNeeded drops the lowest-importance decile when the store exceeds
// MaxEpisodes.
func (e *Episodic) pruneIfNeeded() {
	if e.MaxEpisodes <= 0 || len(e.episodes) <= e.MaxEpisodes {
		return
	}
	sorted := make([]Episode, len(e.episodes))
	copy(sorted, e.episodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Importance < sorted[j].Importance })
	dropCount := len(sorted) / 10
	if dropCount == 0 {
		dropCount = 1
	}
	dropped := make(map[string]struct{}, dropCount)
	for _, ep := range sorted[:dropCount] {
		dropped[ep.ID] = struct{}{}
	}
	kept := e.episodes[:0:0]
	for _, ep := range e.episodes {
		if _, drop := dropped[ep.ID]; !drop {
			kept = append(kept, ep)
		}
	}
	e.episodes = kept
}

// Episodes returns a copy of all stored episodes.
func (e *Episodic) Episodes() []Episode {
	out := make([]Episode, len(e.episodes))
	copy(out, e.episodes)
	return out
}
