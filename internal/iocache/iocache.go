// Package iocache provides durable storage for pipeline results: a
// versioned key/value store for stage caching and a relational store for
// run history.
package iocache

import (
	"sync"

	"github.com/devtrail/devtrail/internal/contract"
)

// CacheStoreManager manages the stage cache and run-history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stage        contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStageStore returns the stage CacheStore.
func (mgr *CacheStoreManager) GetStageStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stage
}

// GetRunStore returns the run-history RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
