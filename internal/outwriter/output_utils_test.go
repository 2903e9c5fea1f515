package outwriter

import (
	"testing"

	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/assert"
)

func TestFormatTopContributors(t *testing.T) {
	score := schema.ComplexityScore{Breakdown: []schema.BreakdownEntry{
		{Metric: schema.MetricLOC, Contribution: 0.10},
		{Metric: schema.MetricCyclomatic, Contribution: 0.20},
		{Metric: schema.MetricFolderDepth, Contribution: 0.001},
		{Metric: schema.MetricFileCount, Contribution: 0.05},
		{Metric: schema.MetricTechDiversity, Contribution: 0.07},
	}}
	assert.Equal(t, "cyclomatic_complexity > loc > tech_diversity", formatTopContributors(score))

	assert.Equal(t, "Not applicable", formatTopContributors(schema.ComplexityScore{}))
}

func TestFormatMissing(t *testing.T) {
	score := schema.ComplexityScore{Breakdown: []schema.BreakdownEntry{
		{Metric: schema.MetricLOC, Raw: schema.Measured(3)},
		{Metric: schema.MetricCyclomatic, Raw: schema.Unavailable(schema.ReasonToolMissing)},
		{Metric: schema.MetricQualityScore, Raw: schema.Unavailable(schema.ReasonTimeout)},
	}}
	assert.Equal(t, "Cyclo:tool_missing Quality:timeout", formatMissing(score))
	assert.Equal(t, "-", formatMissing(schema.ComplexityScore{}))
}

func TestFormatRawValue(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	assert.Equal(t, "1200", formatRawValue(1200, fmtFloat))
	assert.Equal(t, "0.67", formatRawValue(2.0/3.0, fmtFloat))
}

func TestMetricHeadersCoverAllMetrics(t *testing.T) {
	for _, m := range schema.AllMetrics {
		assert.NotEmpty(t, metricHeaders[m], "missing header for %s", m)
	}
}
