package algo

import (
	"sort"

	"github.com/huangsam/reporank/schema"
)

// Rank orders scores by score descending, then name and URL ascending.
// The input slice is left untouched.
func Rank(scores []schema.ComplexityScore) []schema.RankedRepository {
	sorted := make([]schema.ComplexityScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Repository.Name != b.Repository.Name {
			return a.Repository.Name < b.Repository.Name
		}
		return a.Repository.URL < b.Repository.URL
	})

	ranked := make([]schema.RankedRepository, len(sorted))
	for i, s := range sorted {
		ranked[i] = schema.RankedRepository{Rank: i + 1, ComplexityScore: s}
	}
	return ranked
}

// Top returns at most limit entries. A non-positive limit returns all.
func Top(ranked []schema.RankedRepository, limit int) []schema.RankedRepository {
	if limit <= 0 || len(ranked) <= limit {
		return ranked
	}
	return ranked[:limit]
}
