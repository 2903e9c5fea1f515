// Package iocache persists ranking runs to SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/reporank/internal/contract"
)

// StoreManager owns the run-history store for the process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetAnalysisStore returns the run-history store, or nil when tracking is
// disabled.
func (mgr *StoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
