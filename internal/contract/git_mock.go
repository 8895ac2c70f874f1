package contract

import (
	"context"
	"time"

	"github.com/devtrail/devtrail/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, url, dir string) error {
	ret := m.Called(ctx, url, dir)
	return ret.Error(0)
}

// HasCommits implements the GitClient interface.
func (m *MockGitClient) HasCommits(ctx context.Context, repoPath string) bool {
	ret := m.Called(ctx, repoPath)
	return ret.Bool(0)
}

// ListBranches implements the GitClient interface.
func (m *MockGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	branches, _ := ret.Get(0).([]string)
	return branches, ret.Error(1)
}

// GetBranchLog implements the GitClient interface.
func (m *MockGitClient) GetBranchLog(ctx context.Context, repoPath, branch string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, branch)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetLastCommitTime implements the GitClient interface.
func (m *MockGitClient) GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error) {
	ret := m.Called(ctx, repoPath)
	return ret.Get(0).(time.Time), ret.Error(1)
}

// ListTree implements the GitClient interface.
func (m *MockGitClient) ListTree(ctx context.Context, repoPath string) ([]TreeEntry, error) {
	ret := m.Called(ctx, repoPath)
	entries, _ := ret.Get(0).([]TreeEntry)
	return entries, ret.Error(1)
}

// ReadBlob implements the GitClient interface.
func (m *MockGitClient) ReadBlob(ctx context.Context, repoPath, name string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, name)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// MockModel is a mock implementation of Model for testing.
type MockModel struct {
	mock.Mock
}

var _ Model = &MockModel{} // Compile-time check

// Name implements the Model interface.
func (m *MockModel) Name() schema.LLMProvider {
	ret := m.Called()
	return ret.Get(0).(schema.LLMProvider)
}

// Generate implements the Model interface.
func (m *MockModel) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ret := m.Called(ctx, prompt, opts)
	return ret.String(0), ret.Error(1)
}

// EstimateTokens implements the Model interface.
func (m *MockModel) EstimateTokens(text string) int {
	ret := m.Called(text)
	return ret.Int(0)
}

// MockDetector is a mock implementation of TechnologyDetector for testing.
type MockDetector struct {
	mock.Mock
}

var _ TechnologyDetector = &MockDetector{} // Compile-time check

// Detect implements the TechnologyDetector interface.
func (m *MockDetector) Detect(ctx context.Context, files []string, projectContext []string) (schema.WeightMap, error) {
	ret := m.Called(ctx, files, projectContext)
	weights, _ := ret.Get(0).(schema.WeightMap)
	return weights, ret.Error(1)
}
