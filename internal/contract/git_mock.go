package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetStatus implements the GitClient interface.
func (m *MockGitClient) GetStatus(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetDefaultBranch implements the GitClient interface.
func (m *MockGitClient) GetDefaultBranch(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetRemoteURL implements the GitClient interface.
func (m *MockGitClient) GetRemoteURL(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, opts LogOptions) ([]byte, error) {
	ret := m.Called(ctx, repoPath, opts)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetCommitDiffStats implements the GitClient interface.
func (m *MockGitClient) GetCommitDiffStats(ctx context.Context, repoPath string, parent string, sha string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, parent, sha)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetFileSizes implements the GitClient interface.
func (m *MockGitClient) GetFileSizes(ctx context.Context, repoPath string, sha string, paths []string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, sha, paths)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ListBranches implements the GitClient interface.
func (m *MockGitClient) ListBranches(ctx context.Context, repoPath string, includeRemote bool) ([]byte, error) {
	ret := m.Called(ctx, repoPath, includeRemote)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetBranchesContaining implements the GitClient interface.
func (m *MockGitClient) GetBranchesContaining(ctx context.Context, repoPath string, sha string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, sha)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// CountCommits implements the GitClient interface.
func (m *MockGitClient) CountCommits(ctx context.Context, repoPath string, ref string) (int, error) {
	ret := m.Called(ctx, repoPath, ref)
	return ret.Int(0), ret.Error(1)
}

// GetFirstCommitTime implements the GitClient interface.
func (m *MockGitClient) GetFirstCommitTime(ctx context.Context, repoPath string, ref string) (time.Time, error) {
	ret := m.Called(ctx, repoPath, ref)
	t, _ := ret.Get(0).(time.Time)
	return t, ret.Error(1)
}
