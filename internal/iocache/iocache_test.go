package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/reporank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportAnalysis(t *testing.T) {
	store := newSQLiteStore(t)
	id, err := store.BeginAnalysis("run", "octocat", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordRepoScore(id, sampleScore(1, "api")))
	require.NoError(t, store.EndAnalysis(id, time.Now(), 1))

	base := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportAnalysis(store, base, &out))

	for _, suffix := range []string{".analysis_runs.parquet", ".repo_scores.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 1 analysis runs")
	assert.Contains(t, out.String(), "Exported 1 repository scores")
}

func TestExportAnalysis_Errors(t *testing.T) {
	var out bytes.Buffer

	err := ExportAnalysis(newSQLiteStore(t), "", &out)
	assert.ErrorContains(t, err, "--output-file is required")

	err = ExportAnalysis(nil, "x", &out)
	assert.ErrorContains(t, err, "run history is disabled")

	err = ExportAnalysis(newSQLiteStore(t), filepath.Join(t.TempDir(), "x"), &out)
	assert.ErrorContains(t, err, "no analysis data found")

	failing := &MockAnalysisStore{}
	failing.On("GetStatus").Return(schema.AnalysisStatus{}, assert.AnError)
	err = ExportAnalysis(failing, "x", &out)
	assert.ErrorIs(t, err, assert.AnError)
	failing.AssertExpectations(t)
}

func TestPrintAnalysisStatus(t *testing.T) {
	var out bytes.Buffer
	PrintAnalysisStatus(&out, schema.AnalysisStatus{Backend: "none"})
	assert.Equal(t, "Analysis Backend: none\nConnected: false\n", out.String())

	out.Reset()
	PrintAnalysisStatus(&out, schema.AnalysisStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalRuns:        2,
		LastRunID:        2,
		TotalReposScored: 9,
		TableSizes:       map[string]int64{repoScoresTable: 9, analysisRunsTable: 2},
	})
	text := out.String()
	assert.Contains(t, text, "Total Runs: 2")
	assert.Contains(t, text, "Total Repositories Scored: 9")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(analysisRunsTable)), bytes.Index(out.Bytes(), []byte(repoScoresTable)))
}

func TestClearAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewAnalysisStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearAnalysis(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Missing file is fine.
	assert.NoError(t, ClearAnalysis(schema.SQLiteBackend, path, ""))
	assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))
	assert.Error(t, ClearAnalysis(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearAnalysis("oracle", "", ""))
}

func TestStoreManager(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetAnalysisStore())

	store := &MockAnalysisStore{}
	mgr.analysis = store
	assert.Equal(t, store, mgr.GetAnalysisStore())
}
