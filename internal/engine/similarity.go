package engine

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine similarity of two embedding vectors.
// Empty, mismatched, or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankBySimilarity orders matches by score, best first. Ties keep input order.
func RankBySimilarity(matches []VisualSearchMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
}

// FilterBySimilarity removes matches below minScore, keeping at least minKeep.
func FilterBySimilarity(matches []VisualSearchMatch, minScore float64, minKeep int) []VisualSearchMatch {
	var out []VisualSearchMatch
	for _, m := range matches {
		if m.SimilarityScore >= minScore {
			out = append(out, m)
		}
	}
	if len(out) < minKeep && len(matches) >= minKeep {
		return matches[:minKeep]
	}
	if len(out) < minKeep {
		return matches
	}
	return out
}
