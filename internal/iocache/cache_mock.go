package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStageStore implements the CacheManager interface.
func (m *MockCacheManager) GetStageStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRunStore implements the CacheManager interface.
func (m *MockCacheManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(fingerprint, repoPath string, provider schema.LLMProvider, startedAt time.Time) (int64, error) {
	args := m.Called(fingerprint, repoPath, provider, startedAt)
	return args.Get(0).(int64), args.Error(1)
}

// FinishRun implements the RunStore interface.
func (m *MockRunStore) FinishRun(runID int64, finishedAt time.Time, commitCount, monthCount int) error {
	args := m.Called(runID, finishedAt, commitCount, monthCount)
	return args.Error(0)
}

// RecordMonthlyBucket implements the RunStore interface.
func (m *MockRunStore) RecordMonthlyBucket(runID int64, bucket schema.MonthlyBucket) error {
	args := m.Called(runID, bucket)
	return args.Error(0)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// ListMonthlyBuckets implements the RunStore interface.
func (m *MockRunStore) ListMonthlyBuckets(runID int64) ([]schema.MonthlyBucket, error) {
	args := m.Called(runID)
	buckets, _ := args.Get(0).([]schema.MonthlyBucket)
	return buckets, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
