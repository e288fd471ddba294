package memory

import "context"

// LongTermMemory is the persistence capability consolidation writes
// through and retrieval reads from. agent/memory/mongostore
// provides a MongoDB-backed implementation; tests use an in-memory fake.
type LongTermMemory interface {
	Store(ctx context.Context, item MemoryItem) error
	// Query returns items with Importance >= importanceThreshold whose Content
	// or Tags match query, sorted by Importance descending, at most limit
	// items retrieve_relevant contract.
	Query(ctx context.Context, query string, importanceThreshold float64, limit int) ([]MemoryItem, error)
}

// InMemoryLongTerm is a process-local LongTermMemory used by tests and by
// deployments that don't need durable storage.
type InMemoryLongTerm struct {
	items []MemoryItem
}

// NewInMemoryLongTerm builds an empty in-memory store.
func NewInMemoryLongTerm() *InMemoryLongTerm {
	return &InMemoryLongTerm{}
}

// Store implements LongTermMemory.
func (m *InMemoryLongTerm) Store(_ context.Context, item MemoryItem) error {
	m.items = append(m.items, item)
	return nil
}

// Query implements LongTermMemory using the keyword-overlap heuristic shared
// with FindSimilar for matching query against item content/tags.
func (m *InMemoryLongTerm) Query(_ context.Context, query string, importanceThreshold float64, limit int) ([]MemoryItem, error) {
	qTokens := tokenize(query)
	var matched []MemoryItem
	for _, item := range m.items {
		if item.Importance < importanceThreshold {
			continue
		}
		if len(qTokens) > 0 && overlapScore(qTokens, tokenize(item.Content+" "+joinTags(item.Tags))) <= 0 {
			continue
		}
		matched = append(matched, item)
	}
	sortByImportanceDesc(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func joinTags(tags []string) string {
	out := ""
	for _, t := range tags {
		out += " " + t
	}
	return out
}

func sortByImportanceDesc(items []MemoryItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Importance > items[j-1].Importance; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
