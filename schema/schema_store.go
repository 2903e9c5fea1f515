package schema

import (
	"fmt"
	"strings"
	"time"
)

// AnalysisRunRecord represents a row from the reporank_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID       int64
	RunID            string
	Owner            string
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	TotalReposScored int32
	ConfigParams     *string
}

// RepoScoreRecord represents a row from the reporank_repo_scores table.
type RepoScoreRecord struct {
	AnalysisID      int64
	RepoName        string
	RepoURL         string
	AnalysisTime    time.Time
	Rank            int32
	Score           float64
	ScoreLabel      string
	Stars           int32
	Forks           int32
	Watchers        int32
	OpenIssues      int32
	LOC             *float64
	Cyclomatic      *float64
	FolderDepth     *float64
	FileCount       *float64
	DependencyCount *float64
	TechDiversity   *float64
	QualityScore    *float64
	Unavailable     string
}

// AnalysisStatus represents the status of the analysis store.
type AnalysisStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalReposScored int              `json:"total_repos_scored"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// RawValuePtr returns a pointer to the metric value, or nil when unavailable.
func RawValuePtr(m RawMetric) *float64 {
	if !m.Available {
		return nil
	}
	v := m.Value
	return &v
}

// MissingSummary lists unavailable metrics as "metric:reason" pairs joined
// by commas, in AllMetrics order.
func (c ComplexityScore) MissingSummary() string {
	var missing []string
	for _, e := range c.Breakdown {
		if !e.Raw.Available {
			missing = append(missing, fmt.Sprintf("%s:%s", e.Metric, e.Raw.Reason))
		}
	}
	return strings.Join(missing, ",")
}

// ScoreRecord flattens a ranked repository into a run-history row.
func (r RankedRepository) ScoreRecord(analysisID int64, at time.Time) RepoScoreRecord {
	raw := func(m MetricName) *float64 {
		e, ok := r.Entry(m)
		if !ok {
			return nil
		}
		return RawValuePtr(e.Raw)
	}

	repo := r.Repository
	return RepoScoreRecord{
		AnalysisID:      analysisID,
		RepoName:        repo.Name,
		RepoURL:         repo.URL,
		AnalysisTime:    at,
		Rank:            int32(r.Rank),
		Score:           r.Score,
		ScoreLabel:      GetPlainLabel(r.DisplayScore()),
		Stars:           int32(repo.Stars),
		Forks:           int32(repo.Forks),
		Watchers:        int32(repo.Watchers),
		OpenIssues:      int32(repo.OpenIssues),
		LOC:             raw(MetricLOC),
		Cyclomatic:      raw(MetricCyclomatic),
		FolderDepth:     raw(MetricFolderDepth),
		FileCount:       raw(MetricFileCount),
		DependencyCount: raw(MetricDependencyCount),
		TechDiversity:   raw(MetricTechDiversity),
		QualityScore:    raw(MetricQualityScore),
		Unavailable:     r.MissingSummary(),
	}
}
