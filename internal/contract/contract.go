// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/reporank/schema"
)

// RepositorySource lists the repositories that make up one ranking batch.
// The order of the returned slice is the batch order.
type RepositorySource interface {
	ListRepositories(ctx context.Context, owner string) ([]schema.RepositoryIdentity, error)
}

// Cloner materializes a repository on disk for analysis.
// Every successful Clone must be followed by Checkout.Close.
type Cloner interface {
	Clone(ctx context.Context, repo schema.RepositoryIdentity, workDir string) (*Checkout, error)
}

// Checkout is a working tree on disk and the means to release it.
type Checkout struct {
	Path    string
	cleanup func() error
}

// NewCheckout creates a Checkout. A nil cleanup leaves the path in place.
func NewCheckout(path string, cleanup func() error) *Checkout {
	return &Checkout{Path: path, cleanup: cleanup}
}

// Close releases the working tree. It is safe to call more than once.
func (c *Checkout) Close() error {
	if c == nil || c.cleanup == nil {
		return nil
	}
	cleanup := c.cleanup
	c.cleanup = nil
	return cleanup()
}

// StoreManager defines the interface for reaching the run-history store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for recording ranking runs.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(runID, owner string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalRepos int) error

	// RecordRepoScore stores the raw metrics and final score of one repository
	RecordRepoScore(analysisID int64, record schema.RepoScoreRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllRepoScores returns every recorded repository score
	GetAllRepoScores() ([]schema.RepoScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
