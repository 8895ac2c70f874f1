// Package core orchestrates the devtrail pipeline: commit extraction, the
// three aggregation stages, stage-level caching, and run-history recording.
package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
)

// currentCacheVersion defines the version of the cache payload schema.
const currentCacheVersion = 1

// cacheMaxAge bounds how long a stored stage result stays reusable.
const cacheMaxAge = 7 * 24 * time.Hour

// stageKey namespaces a cache entry by run fingerprint and stage name.
func stageKey(fingerprint, stage string) string {
	return fingerprint + ":" + stage
}

// loadStage retrieves and validates a cached stage result. A failed lookup,
// version mismatch, stale entry, or undecodable payload is a miss.
func loadStage[T any](store contract.CacheStore, key string) (T, bool) {
	var result T
	if store == nil {
		return result, false
	}

	data, version, ts, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return result, false
	}
	if time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// storeStage persists a computed stage result. Storage failures only log,
// the in-memory result is still the stage output.
func storeStage[T any](store contract.CacheStore, key string, result T) {
	if store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("failed to encode stage result for caching", err)
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("failed to cache stage result", err)
	}
}

// runStage wraps one pipeline stage with the cache lookup. The stage is
// all-or-nothing: a compute error persists nothing and aborts the caller.
func runStage[T any](store contract.CacheStore, fingerprint, stage string, compute func() (T, error)) (T, error) {
	key := stageKey(fingerprint, stage)
	if cached, ok := loadStage[T](store, key); ok {
		contract.LogStage(fmt.Sprintf("%s: reusing cached result", stage))
		return cached, nil
	}

	result, err := compute()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s stage failed: %w", stage, err)
	}
	storeStage(store, key, result)
	return result, nil
}
