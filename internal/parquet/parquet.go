// Package parquet exports ranking results and run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/reporank/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun is one ranking run. It maps to the reporank_analysis_runs table.
type AnalysisRun struct {
	AnalysisID int64  `parquet:"analysis_id,snappy"`
	RunID      string `parquet:"run_id,snappy"`
	Owner      string `parquet:"owner,snappy"`

	// StartTime is stored as TIMESTAMP with nanosecond precision
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	TotalReposScored int32 `parquet:"total_repos_scored,snappy"`

	// ConfigParams is the JSON-encoded configuration of the run
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RepoScore is one ranked repository. It maps to the reporank_repo_scores
// table and is also the row type for direct ranking exports.
type RepoScore struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	RepoName     string    `parquet:"repo_name,snappy"`
	RepoURL      string    `parquet:"repo_url,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Rank         int32     `parquet:"rank,snappy"`
	Score        float64   `parquet:"score,snappy"`
	ScoreLabel   string    `parquet:"score_label,snappy"`

	// Hosting counters, passed through unchanged
	Stars      int32 `parquet:"stars,snappy"`
	Forks      int32 `parquet:"forks,snappy"`
	Watchers   int32 `parquet:"watchers,snappy"`
	OpenIssues int32 `parquet:"open_issues,snappy"`

	// Raw metrics are null when the metric was unavailable
	LOC             *float64 `parquet:"loc,optional,snappy"`
	Cyclomatic      *float64 `parquet:"cyclomatic_complexity,optional,snappy"`
	FolderDepth     *float64 `parquet:"folder_depth,optional,snappy"`
	FileCount       *float64 `parquet:"file_count,optional,snappy"`
	DependencyCount *float64 `parquet:"dependency_count,optional,snappy"`
	TechDiversity   *float64 `parquet:"tech_diversity,optional,snappy"`
	QualityScore    *float64 `parquet:"quality_score,optional,snappy"`

	// Unavailable lists "metric:reason" pairs
	Unavailable string `parquet:"unavailable,snappy"`
}

// writeRows writes data to a new Parquet file at outputPath, inferring the
// schema from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes run rows to outputPath.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRepoScoresParquet writes repository score rows to outputPath.
func WriteRepoScoresParquet(data []RepoScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAnalysisRunRecords converts store records for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:       record.AnalysisID,
			RunID:            record.RunID,
			Owner:            record.Owner,
			StartTime:        record.StartTime,
			EndTime:          record.EndTime,
			RunDurationMs:    record.RunDurationMs,
			TotalReposScored: record.TotalReposScored,
			ConfigParams:     record.ConfigParams,
		}
	}
	return result
}

// ConvertRepoScoreRecords converts store records for Parquet export.
func ConvertRepoScoreRecords(records []schema.RepoScoreRecord) []RepoScore {
	result := make([]RepoScore, len(records))
	for i, record := range records {
		result[i] = RepoScore{
			AnalysisID:      record.AnalysisID,
			RepoName:        record.RepoName,
			RepoURL:         record.RepoURL,
			AnalysisTime:    record.AnalysisTime,
			Rank:            record.Rank,
			Score:           record.Score,
			ScoreLabel:      record.ScoreLabel,
			Stars:           record.Stars,
			Forks:           record.Forks,
			Watchers:        record.Watchers,
			OpenIssues:      record.OpenIssues,
			LOC:             record.LOC,
			Cyclomatic:      record.Cyclomatic,
			FolderDepth:     record.FolderDepth,
			FileCount:       record.FileCount,
			DependencyCount: record.DependencyCount,
			TechDiversity:   record.TechDiversity,
			QualityScore:    record.QualityScore,
			Unavailable:     record.Unavailable,
		}
	}
	return result
}

// ConvertRankedRepositories flattens a ranking that was never persisted.
// AnalysisID is zero for these rows.
func ConvertRankedRepositories(ranked []schema.RankedRepository, at time.Time) []RepoScore {
	records := make([]schema.RepoScoreRecord, len(ranked))
	for i, r := range ranked {
		records[i] = r.ScoreRecord(0, at)
	}
	return ConvertRepoScoreRecords(records)
}
