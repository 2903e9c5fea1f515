//go:build basic

// Package integration contains end-to-end tests for the reporank binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankedJSON is the subset of the JSON output the tests inspect.
type rankedJSON struct {
	Summary struct {
		Total int `json:"total"`
	} `json:"summary"`
	Repositories []struct {
		Rank       int     `json:"rank"`
		Score      float64 `json:"score"`
		Label      string  `json:"label"`
		Repository struct {
			Name string `json:"name"`
		} `json:"repository"`
		Breakdown []struct {
			Metric string `json:"metric"`
			Raw    struct {
				Value     float64 `json:"value"`
				Available bool    `json:"available"`
				Reason    string  `json:"reason"`
			} `json:"raw"`
			Weight float64 `json:"weight"`
		} `json:"breakdown"`
	} `json:"repositories"`
}

func rawValue(t *testing.T, out rankedJSON, repo, metric string) (float64, bool) {
	t.Helper()
	for _, r := range out.Repositories {
		if r.Repository.Name != repo {
			continue
		}
		for _, e := range r.Breakdown {
			if e.Metric == metric {
				return e.Raw.Value, e.Raw.Available
			}
		}
	}
	t.Fatalf("metric %s of %s not found", metric, repo)
	return 0, false
}

// TestLocalRankingJSON ranks two generated checkouts and verifies the
// structural metrics against the files written.
func TestLocalRankingJSON(t *testing.T) {
	small, large := fixtureRepos(t)

	stdout, err := runReporank(t, nil, "local", small, large, "--output", "json", "--timeout", "30s")
	require.NoError(t, err)

	var out rankedJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Repositories, 2)
	assert.Equal(t, 2, out.Summary.Total)

	assert.Equal(t, "sprawl", out.Repositories[0].Repository.Name)
	assert.Equal(t, 1, out.Repositories[0].Rank)
	assert.Equal(t, "tiny", out.Repositories[1].Repository.Name)
	assert.GreaterOrEqual(t, out.Repositories[0].Score, out.Repositories[1].Score)

	for _, r := range out.Repositories {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		require.Len(t, r.Breakdown, 7)
	}

	files, ok := rawValue(t, out, "tiny", "file_count")
	require.True(t, ok)
	assert.Equal(t, 2.0, files)

	files, ok = rawValue(t, out, "sprawl", "file_count")
	require.True(t, ok)
	assert.Equal(t, 15.0, files)

	deepest, ok := rawValue(t, out, "sprawl", "folder_depth")
	require.True(t, ok)
	shallowest, ok := rawValue(t, out, "tiny", "folder_depth")
	require.True(t, ok)
	assert.Greater(t, deepest, shallowest)
}

// TestLocalRankingCSV checks the CSV header and row count.
func TestLocalRankingCSV(t *testing.T) {
	small, large := fixtureRepos(t)

	stdout, err := runReporank(t, nil, "local", small, large, "--output", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "name", "url", "score", "label"}, records[0][:5])
	assert.Equal(t, "unavailable", records[0][len(records[0])-1])
	assert.Equal(t, "1", records[1][0])
}

// TestLocalRankingRejectsBadLimit ensures invalid settings fail before any work.
func TestLocalRankingRejectsBadLimit(t *testing.T) {
	small, _ := fixtureRepos(t)

	_, err := runReporank(t, []string{"REPORANK_LIMIT=0"}, "local", small)
	assert.Error(t, err)
}

// TestWeightsCommand prints the default formula.
func TestWeightsCommand(t *testing.T) {
	stdout, err := runReporank(t, nil, "weights", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "quality_score")
}
