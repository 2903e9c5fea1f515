package outwriter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/reporank/schema"
)

const (
	contributionMinimum = 0.005
	topNContributors    = 3
)

// formatRawValue prints whole numbers without decimals and everything else
// with the configured precision.
func formatRawValue(v float64, fmtFloat func(float64) string) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmtFloat(v)
}

// tableMetricValue renders a raw metric cell, or "n/a" when unavailable.
func tableMetricValue(c schema.ComplexityScore, m schema.MetricName, fmtFloat func(float64) string) string {
	e, ok := c.Entry(m)
	if !ok || !e.Raw.Available {
		return "n/a"
	}
	return formatRawValue(e.Raw.Value, fmtFloat)
}

// csvMetricValue renders a raw metric for CSV, leaving unavailable cells empty.
func csvMetricValue(c schema.ComplexityScore, m schema.MetricName) string {
	e, ok := c.Entry(m)
	if !ok || !e.Raw.Available {
		return ""
	}
	return strconv.FormatFloat(e.Raw.Value, 'f', -1, 64)
}

// formatTopContributors names the metrics that add the most to the score,
// largest first.
func formatTopContributors(c schema.ComplexityScore) string {
	var entries []schema.BreakdownEntry
	for _, e := range c.Breakdown {
		if e.Contribution >= contributionMinimum {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return "Not applicable"
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Contribution > entries[j].Contribution
	})

	limit := min(len(entries), topNContributors)
	parts := make([]string, 0, limit)
	for _, e := range entries[:limit] {
		parts = append(parts, string(e.Metric))
	}
	return strings.Join(parts, " > ")
}

// formatMissing lists unavailable metrics with their reasons, or "-".
func formatMissing(c schema.ComplexityScore) string {
	var parts []string
	for _, e := range c.Breakdown {
		if !e.Raw.Available {
			parts = append(parts, metricHeaders[e.Metric]+":"+string(e.Raw.Reason))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
