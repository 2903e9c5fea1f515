// Package algo has the batch-wide scoring math: normalization, weighted
// aggregation and ranking. Every function here is pure.
package algo

import (
	"github.com/huangsam/reporank/schema"
	"gonum.org/v1/gonum/floats"
)

// NormalizedSet is the normalized view of one repository, keyed by metric.
type NormalizedSet map[schema.MetricName]schema.NormalizedComponent

// metricRange is the spread of available raw values for one metric.
type metricRange struct {
	min, max float64
	present  bool
}

// batchRanges computes min and max of the available values of every metric.
func batchRanges(batch []schema.RepositoryMetricSet) map[schema.MetricName]metricRange {
	ranges := make(map[schema.MetricName]metricRange, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		values := make([]float64, 0, len(batch))
		for _, set := range batch {
			if raw := set.Get(m); raw.Available {
				values = append(values, raw.Value)
			}
		}
		if len(values) == 0 {
			ranges[m] = metricRange{}
			continue
		}
		ranges[m] = metricRange{min: floats.Min(values), max: floats.Max(values), present: true}
	}
	return ranges
}

// Normalize rescales every metric of every repository to [0,1] relative to
// the whole batch. Unavailable metrics normalize to 0. When all available
// values of a metric are equal the holders get 1. Inverted metrics are
// flipped so that a higher value always means more complex.
func Normalize(batch []schema.RepositoryMetricSet) ([]NormalizedSet, error) {
	if len(batch) == 0 {
		return nil, schema.ErrBatchEmpty
	}

	ranges := batchRanges(batch)
	out := make([]NormalizedSet, len(batch))
	for i, set := range batch {
		ns := make(NormalizedSet, len(schema.AllMetrics))
		for _, m := range schema.AllMetrics {
			ns[m] = normalizeOne(set.Get(m), ranges[m], schema.IsInverted(m), m)
		}
		out[i] = ns
	}
	return out, nil
}

// normalizeOne applies min-max scaling to a single reading.
func normalizeOne(raw schema.RawMetric, r metricRange, inverted bool, m schema.MetricName) schema.NormalizedComponent {
	c := schema.NormalizedComponent{Metric: m, Available: raw.Available}
	if !raw.Available || !r.present {
		return c
	}
	if r.max == r.min {
		c.Value = 1
		c.Degenerate = true
		return c
	}
	v := clamp01((raw.Value - r.min) / (r.max - r.min))
	if inverted {
		v = 1 - v
		c.Inverted = true
	}
	c.Value = v
	return c
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
