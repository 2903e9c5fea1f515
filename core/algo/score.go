package algo

import (
	"fmt"

	"github.com/huangsam/reporank/schema"
)

// Aggregate combines normalized components into one ComplexityScore per
// repository. Terms are summed in schema.AllMetrics order so repeated runs
// over the same batch produce identical floats.
func Aggregate(batch []schema.RepositoryMetricSet, normalized []NormalizedSet, weights schema.WeightTable) ([]schema.ComplexityScore, error) {
	if len(batch) == 0 {
		return nil, schema.ErrBatchEmpty
	}
	if len(normalized) != len(batch) {
		return nil, fmt.Errorf("normalized batch has %d entries, expected %d", len(normalized), len(batch))
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	scores := make([]schema.ComplexityScore, len(batch))
	for i, set := range batch {
		breakdown := make([]schema.BreakdownEntry, 0, len(schema.AllMetrics))
		var total float64
		for _, m := range schema.AllMetrics {
			n := normalized[i][m]
			w := weights[m]
			contribution := w * n.Value
			total += contribution
			breakdown = append(breakdown, schema.BreakdownEntry{
				Metric:       m,
				Raw:          set.Get(m),
				Normalized:   n.Value,
				Weight:       w,
				Contribution: contribution,
			})
		}
		scores[i] = schema.ComplexityScore{
			Repository: set.Repository,
			Score:      total,
			Breakdown:  breakdown,
		}
	}
	return scores, nil
}

// ScoreBatch normalizes and aggregates a batch in one step.
func ScoreBatch(batch []schema.RepositoryMetricSet, weights schema.WeightTable) ([]schema.ComplexityScore, error) {
	normalized, err := Normalize(batch)
	if err != nil {
		return nil, err
	}
	return Aggregate(batch, normalized, weights)
}
