package memory

import (
	"context"
	"time"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// System composes the five memory layers of into the single
// collaborator the Orchestrator drives once per tick.
type System struct {
	Working *Working
	Episodic *Episodic
	Semantic *Semantic
	Procedural *Procedural
	Meta *Meta
	LongTerm LongTermMemory
}

// New builds a System backed by lt for consolidation/retrieval. A nil lt
// uses an in-memory store, matching the teacher's convention of never
// leaving a collaborator seam unusable by default.
func New(lt LongTermMemory) *System {
	if lt == nil {
		lt = NewInMemoryLongTerm()
	}
	return &System{
		Working: NewWorking(lt),
		Episodic: NewEpisodic(500),
		Semantic: NewSemantic(),
		Procedural: NewProcedural(),
		Meta: NewMeta(),
		LongTerm: lt,
	}
}

// Tick runs the per-iteration memory maintenance describes: update
// working memory from the latest observation, then consolidate if the
// trigger threshold is reached.
func (s *System) Tick(ctx context.Context, execCtx *core.ExecutionContext, now time.Time) (consolidated int, err error) {
	s.Working.Update(execCtx)
	return s.Working.MaybeConsolidate(ctx, now)
}

// RetrieveRelevant implements retrieve_relevant(context, limit):
// queries long-term memory with importance_threshold = 0.5 and a query
// string derived from the goal description and recent observation content.
func (s *System) RetrieveRelevant(ctx context.Context, execCtx *core.ExecutionContext, limit int) ([]MemoryItem, error) {
	query := contextSummary(execCtx)
	const importanceThreshold = 0.5
	return s.LongTerm.Query(ctx, query, importanceThreshold, limit)
}

func contextSummary(execCtx *core.ExecutionContext) string {
	summary := ""
	if g := execCtx.Goal(); g != nil {
		summary = g.Description
		for _, c := range g.SuccessCriteria {
			summary += " " + c
		}
	}
	for _, obs := range execCtx.RecentObservations(3) {
		summary += " " + obs.Content
	}
	return summary
}
