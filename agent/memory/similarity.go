package memory

import "strings"

// tokenize lowercases and splits s into a deduplicated set of word tokens,
// the basis for the keyword-overlap heuristic specifies for
// FindSimilar and retrieval matching.
func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
		})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// overlapScore returns |a ∩ b| / |a ∪ b| (the Jaccard index), the similarity
// measure find_similar specifies.
func overlapScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a)
	for k := range b {
		if _, ok := a[k]; !ok {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// FindSimilar implements find_similar(reference, threshold):
// keyword overlap of reference against each candidate, keeping those at or
// above threshold.
func FindSimilar(reference string, candidates []MemoryItem, threshold float64) []MemoryItem {
	refTokens := tokenize(reference)
	var out []MemoryItem
	for _, c := range candidates {
		if overlapScore(refTokens, tokenize(c.Content)) >= threshold {
			out = append(out, c)
		}
	}
	return out
}
