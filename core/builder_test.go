package core

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/reporank/core/extract"
	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns a fixed result, optionally after blocking.
type fakeExtractor struct {
	name  schema.MetricName
	value float64
	err   error
	block bool // wait for the context to expire
	panic bool
}

func (f *fakeExtractor) Name() schema.MetricName { return f.name }

func (f *fakeExtractor) Extract(ctx context.Context, _ *extract.Workspace) (float64, error) {
	if f.panic {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return f.value, f.err
}

// fakeExtractors returns one succeeding extractor per metric.
func fakeExtractors() []extract.Extractor {
	out := make([]extract.Extractor, len(schema.AllMetrics))
	for i, m := range schema.AllMetrics {
		out[i] = &fakeExtractor{name: m, value: float64(i + 1)}
	}
	return out
}

// repoDir creates a checkout with the given relative files.
func repoDir(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package x\n"), 0o644))
	}
	return root
}

func TestMetricSetBuilderAllAvailable(t *testing.T) {
	repo := schema.RepositoryIdentity{Name: "demo"}
	set := NewMetricSetBuilder(context.Background(), repo, fakeExtractors(), time.Second).
		Scan(repoDir(t, "main.go"), nil).
		Extract().
		Build()

	assert.Equal(t, "demo", set.Repository.Name)
	assert.Len(t, set.Metrics, len(schema.AllMetrics))
	assert.Equal(t, len(schema.AllMetrics), set.AvailableCount())
	assert.Equal(t, schema.Measured(1), set.Get(schema.MetricLOC))
	assert.Positive(t, set.Duration)
}

func TestMetricSetBuilderFailuresArePerMetric(t *testing.T) {
	extractors := fakeExtractors()
	extractors[1] = &fakeExtractor{name: schema.MetricCyclomatic, err: extract.Unavailable(schema.ReasonToolMissing, nil)}
	extractors[2] = &fakeExtractor{name: schema.MetricFolderDepth, block: true}
	extractors[3] = &fakeExtractor{name: schema.MetricFileCount, panic: true}
	extractors[4] = &fakeExtractor{name: schema.MetricDependencyCount, value: math.NaN()}
	extractors[5] = &fakeExtractor{name: schema.MetricTechDiversity, err: assert.AnError}

	set := NewMetricSetBuilder(context.Background(), schema.RepositoryIdentity{Name: "demo"}, extractors, 50*time.Millisecond).
		Scan(repoDir(t, "main.go"), nil).
		Extract().
		Build()

	assert.Equal(t, schema.Measured(1), set.Get(schema.MetricLOC))
	assert.Equal(t, schema.Unavailable(schema.ReasonToolMissing), set.Get(schema.MetricCyclomatic))
	assert.Equal(t, schema.Unavailable(schema.ReasonTimeout), set.Get(schema.MetricFolderDepth))
	assert.Equal(t, schema.Unavailable(schema.ReasonError), set.Get(schema.MetricFileCount))
	assert.Equal(t, schema.Unavailable(schema.ReasonError), set.Get(schema.MetricDependencyCount))
	assert.Equal(t, schema.Unavailable(schema.ReasonError), set.Get(schema.MetricTechDiversity))
	assert.Equal(t, schema.Measured(7), set.Get(schema.MetricQualityScore), "siblings of a timed-out extractor still finish")
}

func TestMetricSetBuilderScanFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	set := NewMetricSetBuilder(context.Background(), schema.RepositoryIdentity{Name: "demo"}, fakeExtractors(), time.Second).
		Scan(missing, nil).
		Extract().
		Build()

	assert.Len(t, set.Metrics, len(schema.AllMetrics))
	assert.Zero(t, set.AvailableCount())
	assert.Equal(t, schema.ReasonError, set.Get(schema.MetricLOC).Reason)
}

func TestMetricSetBuilderMissingExtractorKeepsFixedKeys(t *testing.T) {
	extractors := []extract.Extractor{&fakeExtractor{name: schema.MetricLOC, value: 10}}
	set := NewMetricSetBuilder(context.Background(), schema.RepositoryIdentity{Name: "demo"}, extractors, 0).
		Scan(repoDir(t, "main.go"), nil).
		Extract().
		Build()

	assert.Len(t, set.Metrics, len(schema.AllMetrics))
	assert.Equal(t, 1, set.AvailableCount())
}
