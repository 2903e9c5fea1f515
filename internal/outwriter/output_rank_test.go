package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() schema.RankOutput {
	return schema.RankOutput{
		Ranked: []schema.RankedRepository{
			{
				Rank: 1,
				ComplexityScore: schema.ComplexityScore{
					Repository: schema.RepositoryIdentity{Name: "platform", URL: "https://github.com/octo/platform", Stars: 42, Forks: 7, OpenIssues: 3},
					Score:      0.82,
					Breakdown: []schema.BreakdownEntry{
						{Metric: schema.MetricLOC, Raw: schema.Measured(15000), Normalized: 1, Weight: 0.5, Contribution: 0.5},
						{Metric: schema.MetricCyclomatic, Raw: schema.Measured(4.25), Normalized: 0.64, Weight: 0.5, Contribution: 0.32},
					},
				},
			},
			{
				Rank: 2,
				ComplexityScore: schema.ComplexityScore{
					Repository: schema.RepositoryIdentity{Name: "dotfiles", URL: "https://github.com/octo/dotfiles"},
					Score:      0.0,
					Breakdown: []schema.BreakdownEntry{
						{Metric: schema.MetricLOC, Raw: schema.Measured(0), Weight: 0.5},
						{Metric: schema.MetricCyclomatic, Raw: schema.Unavailable(schema.ReasonInapplicable), Weight: 0.5},
					},
				},
			},
		},
		Summary: schema.RankSummary{RunID: "run-1", Total: 5, AverageScore: 41, Duration: 1500 * time.Millisecond},
	}
}

func testOutputConfig() *contract.Config {
	return &contract.Config{Precision: 1, Width: 120, Workers: 4}
}

func TestWriteRankTable(t *testing.T) {
	cfg := testOutputConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeRankTable(&buf, sampleOutput(), cfg, fmtFloat, intFmt))
	out := buf.String()

	assert.Contains(t, strings.ToUpper(out), "RANK")
	assert.Contains(t, out, "platform")
	assert.Contains(t, out, "82.0")
	assert.Contains(t, out, "Critical")
	assert.NotContains(t, strings.ToUpper(out), "STARS", "detail columns are off by default")
	assert.Contains(t, out, "Showing top 2 of 5 repositories (average score: 41.0)")
	assert.Contains(t, out, "with 4 workers. Run ID: run-1")
}

func TestWriteRankTable_DetailAndExplain(t *testing.T) {
	cfg := testOutputConfig()
	cfg.Detail = true
	cfg.Explain = true
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	output := sampleOutput()
	output.Ranked[0].Repository.Watchers = 987

	var buf bytes.Buffer
	require.NoError(t, writeRankTable(&buf, output, cfg, fmtFloat, intFmt))
	out := buf.String()

	assert.Contains(t, out, "WATCHERS")
	assert.Contains(t, out, "987")
	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "https://github.com/octo/platform")
	assert.Contains(t, out, "15000")
	assert.Contains(t, out, "4.2")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "loc > cyclomatic_complexity")
	assert.Contains(t, out, "Cyclo:inapplicable")
}

func TestWriteRankCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeRankCSV(&buf, sampleOutput().Ranked, fmtFloat))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "rank,name,url,score,label,stars"))
	assert.True(t, strings.HasSuffix(lines[0], "loc,cyclomatic_complexity,folder_depth,file_count,dependency_count,tech_diversity,quality_score,unavailable"))
	assert.True(t, strings.HasPrefix(lines[1], "1,platform,https://github.com/octo/platform,82.00,Critical,42,7,0,3,15000,4.25,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,dotfiles,https://github.com/octo/dotfiles,0.00,Low,0,0,0,0,0,,"))
	assert.True(t, strings.HasSuffix(lines[2], "cyclomatic_complexity:inapplicable"))
}

func TestWriteRankJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRankJSON(&buf, sampleOutput()))

	var doc struct {
		Summary      schema.RankSummary `json:"summary"`
		Repositories []map[string]any   `json:"repositories"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.Summary.RunID)
	require.Len(t, doc.Repositories, 2)
	assert.Equal(t, float64(1), doc.Repositories[0]["rank"])
	assert.Equal(t, "Critical", doc.Repositories[0]["label"])
	assert.InDelta(t, 82.0, doc.Repositories[0]["display_score"], 1e-9)
}

func TestPrintRankResults_Files(t *testing.T) {
	tests := []struct {
		output schema.OutputMode
		name   string
		check  func(t *testing.T, content []byte)
	}{
		{schema.JSONOut, "rank.json", func(t *testing.T, content []byte) {
			assert.True(t, json.Valid(content))
		}},
		{schema.CSVOut, "rank.csv", func(t *testing.T, content []byte) {
			assert.True(t, strings.HasPrefix(string(content), "rank,name"))
		}},
		{schema.TextOut, "rank.txt", func(t *testing.T, content []byte) {
			assert.Contains(t, string(content), "dotfiles")
		}},
		{schema.ParquetOut, "rank.parquet", func(t *testing.T, content []byte) {
			assert.True(t, bytes.HasPrefix(content, []byte("PAR1")))
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			cfg := testOutputConfig()
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(t.TempDir(), tt.name)

			require.NoError(t, PrintRankResults(sampleOutput(), cfg))
			content, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			tt.check(t, content)
		})
	}
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      contract.Config
		expected int
	}{
		{"narrow clamps to minimum", contract.Config{Width: 40}, minNameWidth},
		{"wide clamps to maximum", contract.Config{Width: 300}, maxNameWidth},
		{"plain table", contract.Config{Width: 80}, 35},
		{"detail columns shrink name", contract.Config{Width: 180, Detail: true}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTableNameWidth(&tt.cfg))
		})
	}
}
