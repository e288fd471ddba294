// Package memory implements the five-layer memory system:
// working, episodic, semantic, procedural, and meta memory, plus the
// LongTermMemory persistence interface consolidation writes through.
// Grounded on the teacher's layered-store idiom found across
// runtime/agent/state (distinct read-mostly snapshot layers behind narrow
// interfaces), with AccessCount/DecayRate/RelatedEpisodes fields rounding
// out the long-term item shape.
package memory

import "time"

// MemoryItemType classifies a long-term MemoryItem.
type MemoryItemType string

const (
	MemoryItemExperience MemoryItemType = "experience"
	MemoryItemFact MemoryItemType = "fact"
	MemoryItemSkill MemoryItemType = "skill"
	MemoryItemPattern MemoryItemType = "pattern"
)

// MemoryItem is one unit of long-term memory, consolidated from working
// memory or stored directly by a higher layer.
type MemoryItem struct {
	ID string
	Type MemoryItemType
	Content string
	Importance float64
	CreatedAt time.Time
	Tags []string
	// AccessCount and DecayRate are carried with the item and persisted by
	// agent/memory/mongostore. ApplyDecay scales Importance by (1 - DecayRate)
	// per full elapsed interval; nothing in this package reads or increments
	// AccessCount.
	AccessCount int
	DecayRate float64
}

// WorkingItem is one entry in the working-memory deque: an observation
// reference plus the attention weight computed for it.
type WorkingItem struct {
	Content string
	Relevance float64
	Activation float64
	CreatedAt time.Time
}

// Weight implements "each item's weight = relevance × activation".
func (w WorkingItem) Weight() float64 {
	return w.Relevance * w.Activation
}

// Pattern is an active pattern detected over a window of recent
// observations (e.g. a SuccessSequence).
type Pattern struct {
	Kind string
	Confidence float64
	DetectedAt time.Time
}

// EventOutcome classifies how an Episode concluded.
type EventOutcome string

const (
	OutcomeSuccess EventOutcome = "success"
	OutcomeFailure EventOutcome = "failure"
	OutcomeLearning EventOutcome = "learning"
	OutcomeUnknown EventOutcome = "unknown"
)

// Episode is one stored unit of episodic memory: a slice of context history
// keyed by the time it was extracted.
type Episode struct {
	ID string
	CreatedAt time.Time
	GoalID string
	Events []string
	Outcome EventOutcome
	Valence float64
	Importance float64
	// RelatedEpisodes is an episode back-reference list, carried as given;
	// nothing in this package populates it (FindSimilar does not write it).
	RelatedEpisodes []string
}

// ConceptNode is one node in the semantic concept graph: a named concept
// with weighted edges to related concepts.
type ConceptNode struct {
	Name string
	Related map[string]float64
}

// Skill is one stored procedural pattern: a named action sequence with an
// observed success rate.
type Skill struct {
	Name string
	Steps []string
	SuccessRate float64
	UsageCount int
}

// DomainConfidence is meta-memory's running confidence estimate for one
// domain of activity (e.g. "code_generation", "research").
type DomainConfidence struct {
	Domain string
	Confidence float64
	Samples int
}
