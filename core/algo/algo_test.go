package algo

import (
	"testing"

	"github.com/huangsam/reporank/schema"
)

// repo builds a metric set where only the given metrics are available.
func repo(name string, values map[schema.MetricName]float64) schema.RepositoryMetricSet {
	set := schema.NewRepositoryMetricSet(schema.RepositoryIdentity{
		Name: name,
		URL:  "https://github.com/octo/" + name,
	}, schema.ReasonToolMissing)
	for m, v := range values {
		set.Metrics[m] = schema.Measured(v)
	}
	return set
}

// mixedBatch is a realistic batch with gaps.
func mixedBatch(t *testing.T) []schema.RepositoryMetricSet {
	t.Helper()
	return []schema.RepositoryMetricSet{
		repo("alpha", map[schema.MetricName]float64{
			schema.MetricLOC: 1200, schema.MetricFolderDepth: 3, schema.MetricFileCount: 40,
			schema.MetricDependencyCount: 12, schema.MetricTechDiversity: 2, schema.MetricQualityScore: 0.9,
		}),
		repo("beta", map[schema.MetricName]float64{
			schema.MetricLOC: 50000, schema.MetricCyclomatic: 7.5, schema.MetricFolderDepth: 8, schema.MetricFileCount: 900,
			schema.MetricDependencyCount: 310, schema.MetricTechDiversity: 5, schema.MetricQualityScore: 0.4,
		}),
		repo("gamma", map[schema.MetricName]float64{
			schema.MetricLOC: 0, schema.MetricFolderDepth: 0, schema.MetricFileCount: 1,
			schema.MetricDependencyCount: 0, schema.MetricTechDiversity: 0,
		}),
		repo("delta", map[schema.MetricName]float64{
			schema.MetricLOC: 8000, schema.MetricCyclomatic: 2.25, schema.MetricFolderDepth: 5, schema.MetricFileCount: 120,
			schema.MetricDependencyCount: 44, schema.MetricTechDiversity: 2, schema.MetricQualityScore: 0.75,
		}),
	}
}
