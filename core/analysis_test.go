package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/reporank/core/extract"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/iocache"
	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// dirCloner hands out prepared directories and tracks concurrency and cleanup.
type dirCloner struct {
	dirs  map[string]string
	fail  map[string]bool
	delay time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	closed   []string
}

func (c *dirCloner) Clone(_ context.Context, repo schema.RepositoryIdentity, _ string) (*contract.Checkout, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(c.delay)

	if c.fail[repo.Name] {
		return nil, errors.New("remote hung up")
	}
	return contract.NewCheckout(c.dirs[repo.Name], func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed = append(c.closed, repo.Name)
		return nil
	}), nil
}

func testConfig(workers int) *contract.Config {
	return &contract.Config{
		Owner:            "octocat",
		Workers:          workers,
		ResultLimit:      contract.DefaultResultLimit,
		ExtractorTimeout: 10 * time.Second,
		CloneTimeout:     time.Minute,
		MaxLintFiles:     contract.DefaultMaxLintFiles,
		Tools:            contract.ToolPaths{Radon: "reporank-no-radon", Pylint: "reporank-no-pylint"},
		Weights:          schema.GetDefaultWeights(),
	}
}

func identities(names ...string) []schema.RepositoryIdentity {
	out := make([]schema.RepositoryIdentity, len(names))
	for i, n := range names {
		out[i] = schema.RepositoryIdentity{Name: n, URL: "https://github.com/octocat/" + n}
	}
	return out
}

func TestRunRankCore_RanksBatch(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	source.On("ListRepositories", mock.Anything, "octocat").Return(identities("small", "big", "broken"), nil)

	cloner := &dirCloner{
		dirs: map[string]string{
			"small": repoDir(t, "main.go"),
			"big":   repoDir(t, "main.go", "cmd/app/main.go", "internal/store/db.go", "scripts/task.rb"),
		},
		fail: map[string]bool{"broken": true},
	}

	result, err := runRankCore(ctx, testConfig(2), source, cloner, nil)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 3)

	assert.Equal(t, "big", result.Ranked[0].Repository.Name)
	assert.Equal(t, 1, result.Ranked[0].Rank)
	assert.Greater(t, result.Ranked[0].Score, result.Ranked[1].Score)

	// The failed clone is still ranked, with every metric marked.
	var broken schema.RankedRepository
	for _, r := range result.Ranked {
		if r.Repository.Name == "broken" {
			broken = r
		}
	}
	require.Len(t, broken.Breakdown, len(schema.AllMetrics))
	for _, e := range broken.Breakdown {
		assert.Equal(t, schema.ReasonCloneFailed, e.Raw.Reason)
		assert.Zero(t, e.Contribution)
	}
	assert.Zero(t, broken.Score)

	// No Python sources exist in these checkouts.
	entry, ok := result.Ranked[0].Entry(schema.MetricCyclomatic)
	require.True(t, ok)
	assert.Equal(t, schema.ReasonInapplicable, entry.Raw.Reason)

	assert.Equal(t, 3, result.Summary.Total)
	assert.NotEmpty(t, result.Summary.RunID)
	assert.ElementsMatch(t, []string{"small", "big"}, cloner.closed)

	source.AssertExpectations(t)
}

func TestRunRankCore_EmptyBatch(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	source.On("ListRepositories", mock.Anything, "octocat").Return([]schema.RepositoryIdentity{}, nil)

	result, err := runRankCore(ctx, testConfig(1), source, &dirCloner{}, nil)

	assert.ErrorIs(t, err, schema.ErrBatchEmpty)
	assert.Nil(t, result)
	source.AssertExpectations(t)
}

func TestRunRankCore_DiscoveryError(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	source.On("ListRepositories", mock.Anything, "octocat").Return(nil, assert.AnError)

	result, err := runRankCore(ctx, testConfig(1), source, &dirCloner{}, nil)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "repository discovery failed")
	assert.Nil(t, result)
}

func TestRunRankCore_InvalidWeights(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	cloner := &dirCloner{}

	cfg := testConfig(1)
	cfg.Weights = schema.WeightTable{schema.MetricLOC: 2}

	result, err := runRankCore(ctx, cfg, source, cloner, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidWeights)
	assert.Nil(t, result)
	source.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
	assert.Zero(t, cloner.peak.Load())
}

func TestExtractOptions(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		opts := extractOptions(&contract.Config{})
		assert.Equal(t, extract.DefaultOptions(), opts)
	})

	t.Run("configured values override defaults", func(t *testing.T) {
		opts := extractOptions(&contract.Config{
			Tools:        contract.ToolPaths{Pylint: "/opt/bin/pylint"},
			MaxLintFiles: 7,
		})
		assert.Equal(t, "/opt/bin/pylint", opts.Tools.Pylint)
		assert.Equal(t, "radon", opts.Tools.Radon)
		assert.Equal(t, "eslint", opts.Tools.ESLint)
		assert.Equal(t, 7, opts.MaxLintFiles)
		assert.Equal(t, extract.DefaultMaxFileBytes, opts.MaxFileBytes)
	})
}

func TestRunRankCore_RecordsRunHistory(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	source.On("ListRepositories", mock.Anything, "octocat").Return(identities("a", "b"), nil)
	cloner := &dirCloner{dirs: map[string]string{"a": repoDir(t, "main.go"), "b": repoDir(t, "x/y.go")}}

	store := &iocache.MockAnalysisStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(store)
	store.On("BeginAnalysis", mock.AnythingOfType("string"), "octocat", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	store.On("RecordRepoScore", int64(7), mock.MatchedBy(func(r schema.RepoScoreRecord) bool {
		return r.AnalysisID == 7 && r.Rank >= 1 && r.LOC != nil && r.Cyclomatic == nil
	})).Return(nil).Twice()
	store.On("EndAnalysis", int64(7), mock.AnythingOfType("time.Time"), 2).Return(nil)

	_, err := runRankCore(ctx, testConfig(2), source, cloner, mgr)
	require.NoError(t, err)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestRunRankCore_TrackingFailureDoesNotAbort(t *testing.T) {
	ctx := withSuppressHeader(context.Background())
	source := &contract.MockRepositorySource{}
	source.On("ListRepositories", mock.Anything, "octocat").Return(identities("a"), nil)
	cloner := &dirCloner{dirs: map[string]string{"a": repoDir(t, "main.go")}}

	store := &iocache.MockAnalysisStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(store)
	store.On("BeginAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	result, err := runRankCore(ctx, testConfig(1), source, cloner, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Ranked, 1)
	store.AssertNotCalled(t, "RecordRepoScore", mock.Anything, mock.Anything)
}

func TestAnalyzeBatch_BoundedAndOrdered(t *testing.T) {
	names := []string{"r0", "r1", "r2", "r3", "r4", "r5"}
	cloner := &dirCloner{dirs: map[string]string{}, delay: 20 * time.Millisecond}
	for _, n := range names {
		cloner.dirs[n] = repoDir(t, n+".go")
	}

	batch := analyzeBatch(context.Background(), testConfig(2), identities(names...), cloner, fakeExtractors(), nil)

	require.Len(t, batch, len(names))
	for i, set := range batch {
		assert.Equal(t, names[i], set.Repository.Name, "results keep discovery order")
	}
	assert.LessOrEqual(t, cloner.peak.Load(), int32(2))
	assert.Len(t, cloner.closed, len(names))
}

func TestSummarize(t *testing.T) {
	ranked := []schema.RankedRepository{
		{Rank: 1, ComplexityScore: schema.ComplexityScore{Score: 0.8}},
		{Rank: 2, ComplexityScore: schema.ComplexityScore{Score: 0.4}},
	}
	s := summarize("run", ranked, time.Second)
	assert.Equal(t, 2, s.Total)
	assert.InDelta(t, 60.0, s.AverageScore, 1e-9)
	assert.Equal(t, time.Second, s.Duration)

	assert.Zero(t, summarize("run", nil, 0).AverageScore)
}

func TestNewRepoScoreRecord(t *testing.T) {
	r := schema.RankedRepository{
		Rank: 3,
		ComplexityScore: schema.ComplexityScore{
			Repository: schema.RepositoryIdentity{Name: "demo", URL: "u", Stars: 5},
			Score:      0.65,
			Breakdown: []schema.BreakdownEntry{
				{Metric: schema.MetricLOC, Raw: schema.Measured(120)},
				{Metric: schema.MetricCyclomatic, Raw: schema.Unavailable(schema.ReasonToolMissing)},
			},
		},
	}
	rec := newRepoScoreRecord(9, r, time.Unix(0, 0))

	assert.Equal(t, int64(9), rec.AnalysisID)
	assert.Equal(t, int32(3), rec.Rank)
	assert.Equal(t, int32(5), rec.Stars)
	assert.Equal(t, schema.HighValue, rec.ScoreLabel)
	require.NotNil(t, rec.LOC)
	assert.Equal(t, 120.0, *rec.LOC)
	assert.Nil(t, rec.Cyclomatic)
	assert.Nil(t, rec.QualityScore)
	assert.Equal(t, "cyclomatic_complexity:tool_missing", rec.Unavailable)
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	_, ok := getAnalysisID(ctx)
	assert.False(t, ok)
	assert.Nil(t, storeManagerFromContext(ctx))

	ctx = withAnalysisID(withSuppressHeader(ctx), 42)
	assert.True(t, shouldSuppressHeader(ctx))
	id, ok := getAnalysisID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
