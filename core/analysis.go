package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/huangsam/reporank/core/algo"
	"github.com/huangsam/reporank/core/extract"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
	"gonum.org/v1/gonum/stat"
)

// runRankCore performs discovery, extraction, scoring and ranking for one batch.
// The returned ranking is complete; truncation for display is left to callers.
func runRankCore(ctx context.Context, cfg *contract.Config, source contract.RepositorySource, cloner contract.Cloner, mgr contract.StoreManager) (*schema.RankOutput, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := contract.LoggerFrom(ctx).With("run", runID[:8])
	ctx = contract.WithLogger(ctx, logger)

	if !shouldSuppressHeader(ctx) {
		logger.Info("Ranking repositories", "owner", cfg.Owner, "workers", cfg.Workers, "timeout", cfg.ExtractorTimeout)
	}

	// --- 1. Discovery ---
	repos, err := source.ListRepositories(ctx, cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("repository discovery failed: %w", err)
	}
	if len(repos) == 0 {
		return nil, schema.ErrBatchEmpty
	}
	logger.Debug("repositories discovered", "count", len(repos))

	excludes, err := extract.CompileExcludes(cfg.Excludes)
	if err != nil {
		return nil, err
	}
	extractors := extract.All(extractOptions(cfg))

	// --- 2. Begin Analysis Tracking (if configured) ---
	ctx = contextWithStoreManager(ctx, mgr)
	ctx = beginTracking(ctx, cfg, runID, start)

	// --- 3. Extraction (bounded worker pool, barrier on return) ---
	batch := analyzeBatch(ctx, cfg, repos, cloner, extractors, excludes)

	// --- 4. Batch-wide scoring and ranking ---
	scores, err := algo.ScoreBatch(batch, cfg.Weights)
	if err != nil {
		return nil, err
	}
	ranked := algo.Rank(scores)

	// --- 5. Record and finish tracking ---
	recordRanking(ctx, ranked)
	endTracking(ctx, len(ranked))

	return &schema.RankOutput{
		Ranked:  ranked,
		Summary: summarize(runID, ranked, time.Since(start)),
	}, nil
}

// analyzeBatch extracts every repository using a pool of cfg.Workers goroutines.
// Results keep the discovery order and the call returns only when every
// repository has finished or failed.
func analyzeBatch(ctx context.Context, cfg *contract.Config, repos []schema.RepositoryIdentity, cloner contract.Cloner, extractors []extract.Extractor, excludes []glob.Glob) []schema.RepositoryMetricSet {
	results := make([]schema.RepositoryMetricSet, len(repos))
	jobCh := make(chan int, len(repos))
	var wg sync.WaitGroup

	// Start worker pool
	for range max(cfg.Workers, 1) {
		wg.Go(func() {
			for i := range jobCh {
				// Each worker writes to a unique index, which is safe.
				results[i] = analyzeRepository(ctx, cfg, cloner, repos[i], extractors, excludes)
			}
		})
	}

	for i := range repos {
		jobCh <- i
	}
	close(jobCh)

	wg.Wait()
	return results
}

// analyzeRepository clones one repository into its own directory, extracts
// its metrics and always releases the checkout. A failed clone still yields
// a complete metric set so the repository is ranked.
func analyzeRepository(ctx context.Context, cfg *contract.Config, cloner contract.Cloner, repo schema.RepositoryIdentity, extractors []extract.Extractor, excludes []glob.Glob) schema.RepositoryMetricSet {
	logger := contract.LoggerFrom(ctx).With("repo", repo.Name)
	ctx = contract.WithLogger(ctx, logger)
	start := time.Now()

	cloneCtx, cancel := withOptionalTimeout(ctx, cfg.CloneTimeout)
	checkout, err := cloner.Clone(cloneCtx, repo, cfg.WorkDir)
	cancel()
	if err != nil {
		logger.Warn("clone failed", "err", err)
		set := schema.NewRepositoryMetricSet(repo, schema.ReasonCloneFailed)
		set.Duration = time.Since(start)
		return set
	}
	defer func() {
		if err := checkout.Close(); err != nil {
			logger.Warn("checkout cleanup failed", "path", checkout.Path, "err", err)
		}
	}()

	set := NewMetricSetBuilder(ctx, repo, extractors, cfg.ExtractorTimeout).
		Scan(checkout.Path, excludes). // Walks the tree once
		Extract().                     // Runs every extractor concurrently
		Build()                        // Fills gaps and stamps the duration
	logger.Debug("repository analyzed", "available", set.AvailableCount(), "duration", set.Duration.Round(time.Millisecond))
	return set
}

// withOptionalTimeout applies d when positive.
func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// extractOptions maps the validated config onto extractor options. Unset
// fields keep the extractor defaults.
func extractOptions(cfg *contract.Config) extract.Options {
	opts := extract.DefaultOptions()
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&opts.Tools.Radon, cfg.Tools.Radon)
	pick(&opts.Tools.Pylint, cfg.Tools.Pylint)
	pick(&opts.Tools.ESLint, cfg.Tools.ESLint)
	pick(&opts.Tools.Cppcheck, cfg.Tools.Cppcheck)
	if cfg.MaxLintFiles > 0 {
		opts.MaxLintFiles = cfg.MaxLintFiles
	}
	return opts
}

// summarize computes the batch summary shown after the ranking.
func summarize(runID string, ranked []schema.RankedRepository, duration time.Duration) schema.RankSummary {
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		scores[i] = r.DisplayScore()
	}
	summary := schema.RankSummary{RunID: runID, Total: len(ranked), Duration: duration}
	if len(scores) > 0 {
		summary.AverageScore = stat.Mean(scores, nil)
	}
	return summary
}

// beginTracking opens a run-history record when a store is configured.
func beginTracking(ctx context.Context, cfg *contract.Config, runID string, start time.Time) context.Context {
	store := analysisStoreFromContext(ctx)
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"owner":   cfg.Owner,
		"workers": cfg.Workers,
		"timeout": cfg.ExtractorTimeout.String(),
		"weights": cfg.Weights.Formula(),
		"local":   len(cfg.LocalPaths) > 0,
	}
	analysisID, err := store.BeginAnalysis(runID, cfg.Owner, start, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx
	}
	if analysisID <= 0 {
		return ctx
	}
	return withAnalysisID(ctx, analysisID)
}

// recordRanking stores every ranked repository of the current run.
func recordRanking(ctx context.Context, ranked []schema.RankedRepository) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStoreFromContext(ctx)
	if !ok || store == nil {
		return
	}
	now := time.Now()
	for _, r := range ranked {
		if err := store.RecordRepoScore(analysisID, newRepoScoreRecord(analysisID, r, now)); err != nil {
			logTrackingError("RecordRepoScore", r.Repository.Name, err)
		}
	}
}

// logTrackingError logs a non-fatal run-history tracking failure.
func logTrackingError(operation, name string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s", operation, name), err)
}

// endTracking finalizes the run-history record.
func endTracking(ctx context.Context, total int) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStoreFromContext(ctx)
	if !ok || store == nil {
		return
	}
	if err := store.EndAnalysis(analysisID, time.Now(), total); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// analysisStoreFromContext returns the analysis store, or nil when tracking is off.
func analysisStoreFromContext(ctx context.Context) contract.AnalysisStore {
	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return nil
	}
	return mgr.GetAnalysisStore()
}

// newRepoScoreRecord flattens a ranked repository into a run-history row.
func newRepoScoreRecord(analysisID int64, r schema.RankedRepository, now time.Time) schema.RepoScoreRecord {
	return r.ScoreRecord(analysisID, now)
}
