package retrieval

// Dedupe removes results whose URL was already seen, preserving the input
// order. The first occurrence of a non-empty URL wins regardless of score;
// results with an empty URL are never deduplicated against each other.
func Dedupe(results []ScoredResult) []ScoredResult {
	seen := make(map[string]bool, len(results))
	unique := make([]ScoredResult, 0, len(results))

	for _, res := range results {
		if res.URL == "" {
			unique = append(unique, res)
			continue
		}
		if seen[res.URL] {
			continue
		}
		seen[res.URL] = true
		unique = append(unique, res)
	}

	return unique
}
