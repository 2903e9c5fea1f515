package schema

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// WeightTable maps each metric to its non-negative weight.
type WeightTable map[MetricName]float64

// Sum returns the total weight across AllMetrics.
func (w WeightTable) Sum() float64 {
	var total float64
	for _, m := range AllMetrics {
		total += w[m]
	}
	return total
}

// Clone returns an independent copy.
func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Merge returns a copy of w with overrides applied on top.
func (w WeightTable) Merge(overrides map[MetricName]float64) WeightTable {
	out := w.Clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Validate checks names, signs, and that the total equals WeightSum.
func (w WeightTable) Validate() error {
	var unknown []string
	for k := range w {
		if _, ok := ValidMetrics[k]; !ok {
			unknown = append(unknown, string(k))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown metrics %s", ErrInvalidWeights, strings.Join(unknown, ", "))
	}
	for _, m := range AllMetrics {
		v := w[m]
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight for %s must be a non-negative number (got %v)", ErrInvalidWeights, m, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-WeightSum) > WeightTolerance {
		return fmt.Errorf("%w: weights must sum to %.1f (got %.3f)", ErrInvalidWeights, WeightSum, sum)
	}
	return nil
}

// Formula renders the table as "0.20*loc+0.20*cyclomatic_complexity+...".
func (w WeightTable) Formula() string {
	parts := make([]string, 0, len(AllMetrics))
	for _, m := range AllMetrics {
		if v := w[m]; v > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", v, m))
		}
	}
	return strings.Join(parts, "+")
}
