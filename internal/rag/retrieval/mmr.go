package retrieval

import (
	"strings"

	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
)

const snippetLength = 200

// diversify reorders candidates by maximal marginal relevance. The best
// scored hit always survives in first position; each following slot takes
// the candidate maximizing lambda*relevance - (1-lambda)*maxSimilarity
// against everything already selected.
func diversify(hits []vectorDB.ScoredChunk, lambda float64) []vectorDB.ScoredChunk {
	if len(hits) <= 1 {
		return hits
	}

	tokens := make([]map[string]struct{}, len(hits))
	for i, hit := range hits {
		tokens[i] = tokenize(hit)
	}

	selected := make([]vectorDB.ScoredChunk, 0, len(hits))
	selectedTokens := make([]map[string]struct{}, 0, len(hits))
	remaining := make([]int, 0, len(hits))

	best := 0
	for i := range hits {
		if hits[i].Score > hits[best].Score {
			best = i
		}
	}
	for i := range hits {
		if i != best {
			remaining = append(remaining, i)
		}
	}
	selected = append(selected, hits[best])
	selectedTokens = append(selectedTokens, tokens[best])

	for len(remaining) > 0 {
		bestPos := 0
		bestValue := mmrValue(hits[remaining[0]], tokens[remaining[0]], selectedTokens, lambda)
		for pos := 1; pos < len(remaining); pos++ {
			idx := remaining[pos]
			value := mmrValue(hits[idx], tokens[idx], selectedTokens, lambda)
			if value > bestValue {
				bestValue = value
				bestPos = pos
			}
		}
		idx := remaining[bestPos]
		selected = append(selected, hits[idx])
		selectedTokens = append(selectedTokens, tokens[idx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	return selected
}

func mmrValue(hit vectorDB.ScoredChunk, hitTokens map[string]struct{}, selected []map[string]struct{}, lambda float64) float64 {
	maxSim := 0.0
	for _, s := range selected {
		if sim := jaccard(hitTokens, s); sim > maxSim {
			maxSim = sim
		}
	}
	return lambda*float64(hit.Score) - (1-lambda)*maxSim
}

// tokenize builds the overlap vocabulary from the title plus the leading
// snippet of the chunk text, lowercased and split on whitespace.
func tokenize(hit vectorDB.ScoredChunk) map[string]struct{} {
	text := hit.Text
	if len(text) > snippetLength {
		text = text[:snippetLength]
	}
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(hit.Title + " " + text)) {
		set[word] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
