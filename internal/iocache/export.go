package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/parquet"
)

// ExportAnalysis writes all run history in store to two Parquet files named
// after outputFile, reporting progress to w.
func ExportAnalysis(store contract.AnalysisStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is disabled; set --analysis-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total repository records: %d\n", status.TableSizes[repoScoresTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	scores, err := store.GetAllRepoScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve repository scores: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquet.ConvertAnalysisRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".repo_scores.parquet"
	if err := parquet.WriteRepoScoresParquet(parquet.ConvertRepoScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write repository scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d repository scores to: %s\n", len(scores), scoresFile)
	return nil
}

// ExecuteAnalysisExport exports the run history of the global Manager.
func ExecuteAnalysisExport(outputFile string, w io.Writer) error {
	return ExportAnalysis(Manager.GetAnalysisStore(), outputFile, w)
}
