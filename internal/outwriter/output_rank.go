package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/parquet"
	"github.com/huangsam/reporank/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// metricHeaders are the short table headers for each metric.
var metricHeaders = map[schema.MetricName]string{
	schema.MetricLOC:             "LOC",
	schema.MetricCyclomatic:      "Cyclo",
	schema.MetricFolderDepth:     "Depth",
	schema.MetricFileCount:       "Files",
	schema.MetricDependencyCount: "Deps",
	schema.MetricTechDiversity:   "Langs",
	schema.MetricQualityScore:    "Quality",
}

// rankJSON is the JSON document written for a ranking.
type rankJSON struct {
	Summary      schema.RankSummary          `json:"summary"`
	Repositories []schema.EnrichedRepository `json:"repositories"`
}

// PrintRankResults outputs a ranking in the configured format.
func PrintRankResults(output schema.RankOutput, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankJSON(w, output)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankCSV(w, output.Ranked, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertRankedRepositories(output.Ranked, time.Now())
		if err := parquet.WriteRepoScoresParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		reportWritten("Wrote Parquet", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankTable(w, output, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// writeRankJSON writes the enriched ranking and its summary.
func writeRankJSON(w io.Writer, output schema.RankOutput) error {
	return writeJSON(w, rankJSON{
		Summary:      output.Summary,
		Repositories: schema.EnrichRepositories(output.Ranked),
	})
}

// writeRankCSV writes one row per repository. Unavailable metrics are left
// empty and listed in the trailing column.
func writeRankCSV(w io.Writer, ranked []schema.RankedRepository, fmtFloat func(float64) string) error {
	header := []string{"rank", "name", "url", "score", "label", "stars", "forks", "watchers", "open_issues"}
	for _, m := range schema.AllMetrics {
		header = append(header, string(m))
	}
	header = append(header, "unavailable")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range schema.EnrichRepositories(ranked) {
			repo := r.Repository
			row := []string{
				strconv.Itoa(r.Rank),
				repo.Name,
				repo.URL,
				fmtFloat(r.DisplayScore),
				r.Label,
				strconv.Itoa(repo.Stars),
				strconv.Itoa(repo.Forks),
				strconv.Itoa(repo.Watchers),
				strconv.Itoa(repo.OpenIssues),
			}
			for _, m := range schema.AllMetrics {
				row = append(row, csvMetricValue(r.ComplexityScore, m))
			}
			row = append(row, r.MissingSummary())
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeRankTable renders the human-readable table followed by a summary.
func writeRankTable(w io.Writer, output schema.RankOutput, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Name", "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, "Stars", "Forks", "Watchers", "Issues", "URL")
		for _, m := range schema.AllMetrics {
			headers = append(headers, metricHeaders[m])
		}
	}
	if cfg.Explain {
		headers = append(headers, "Explain", "Missing")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	urlWidth := nameWidth + urlHostWidth
	var data [][]string
	for _, r := range schema.EnrichRepositories(output.Ranked) {
		label := r.Label
		if cfg.UseColors {
			label = contract.GetColorLabel(r.DisplayScore)
		}
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(r.Repository.Name, nameWidth),
			fmtFloat(r.DisplayScore),
			label,
		}
		if cfg.Detail {
			row = append(row,
				fmt.Sprintf(intFmt, r.Repository.Stars),
				fmt.Sprintf(intFmt, r.Repository.Forks),
				fmt.Sprintf(intFmt, r.Repository.Watchers),
				fmt.Sprintf(intFmt, r.Repository.OpenIssues),
				contract.TruncatePath(r.Repository.URL, urlWidth),
			)
			for _, m := range schema.AllMetrics {
				row = append(row, tableMetricValue(r.ComplexityScore, m, fmtFloat))
			}
		}
		if cfg.Explain {
			row = append(row, formatTopContributors(r.ComplexityScore), formatMissing(r.ComplexityScore))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := output.Summary
	if _, err := fmt.Fprintf(w, "Showing top %d of %d repositories (average score: %s)\n", len(output.Ranked), s.Total, fmtFloat(s.AverageScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v with %d workers. Run ID: %s\n", s.Duration.Round(time.Millisecond), cfg.Workers, s.RunID); err != nil {
		return err
	}
	return nil
}
