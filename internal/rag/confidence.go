package rag

// DefaultWebScoreThreshold is the best-score below which web context is fetched.
const DefaultWebScoreThreshold = 0.65

// BestScore returns the highest score among sources, or 0 and false when there are none.
func BestScore(sources []SourceAttribution) (float64, bool) {
	if len(sources) == 0 {
		return 0, false
	}
	best := sources[0].Score
	for _, s := range sources[1:] {
		if s.Score > best {
			best = s.Score
		}
	}
	return best, true
}

// ShouldUseWeb reports whether retrieval was weak enough to warrant web context.
// Empty sources never qualify.
func ShouldUseWeb(sources []SourceAttribution, threshold float64, webConfigured bool) bool {
	if !webConfigured {
		return false
	}
	best, ok := BestScore(sources)
	return ok && best < threshold
}
