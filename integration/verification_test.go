//go:build basic

// Package integration contains end-to-end tests for the gitpulse binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/huangsam/gitpulse/internal/testutil"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSampleRepo builds a small history with a feature, a fix and a docs change.
func newSampleRepo(t *testing.T) *testutil.GitRepo {
	t.Helper()
	repo := testutil.NewGitRepo(t)
	repo.WriteFile("app/main.go", "package main\n")
	repo.Commit("feat: add entrypoint")
	repo.WriteFile("app/main.go", "package main\n\nfunc main() {}\n")
	repo.Commit("fix: add missing main")
	repo.WriteFile("README.md", "# sample\n")
	repo.Commit("docs: add readme")
	repo.WriteFile("app/main.go", "package main\n\nfunc main() { println() }\n")
	repo.Commit("fix: print something")
	return repo
}

// sqliteEnv points the binary at a private SQLite file.
func sqliteEnv(t *testing.T) []string {
	t.Helper()
	return []string{
		"GITPULSE_DB_BACKEND=sqlite",
		"GITPULSE_DB_CONNECT=" + filepath.Join(t.TempDir(), "gitpulse.db"),
	}
}

// TestCollectVerification checks that stored commit counts agree with git itself.
func TestCollectVerification(t *testing.T) {
	repo := newSampleRepo(t)
	env := sqliteEnv(t)

	_, err := runGitpulse(t, repo.Dir, env, "init", ".", "--project", "sample")
	require.NoError(t, err)

	out, err := runGitpulse(t, repo.Dir, env, "query", "--project", "sample", "--output", "json")
	require.NoError(t, err)
	var res schema.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	gitCount, err := strconv.Atoi(repo.Git("rev-list", "--count", "HEAD"))
	require.NoError(t, err)
	assert.Equal(t, gitCount, res.TotalCount, "stored commits should match git rev-list")
	assert.Equal(t, 2, res.Summary.ByType[schema.FixCommit])
	assert.Equal(t, 1, res.Summary.ByType[schema.DocsCommit])

	// A second collect stores nothing new
	out, err = runGitpulse(t, repo.Dir, env, "collect", "--project", "sample", "--output", "json")
	require.NoError(t, err)
	var collected schema.CollectResult
	require.NoError(t, json.Unmarshal([]byte(out), &collected))
	assert.Equal(t, 0, collected.CommitsCollected)
	assert.Equal(t, gitCount, collected.AlreadyStored)

	out, err = runGitpulse(t, repo.Dir, env, "hotspots", "--project", "sample", "--min-changes", "2", "--output", "json")
	require.NoError(t, err)
	var hotspots schema.HotspotResult
	require.NoError(t, json.Unmarshal([]byte(out), &hotspots))
	require.Len(t, hotspots.Hotspots, 1)
	assert.Equal(t, "app/main.go", hotspots.Hotspots[0].FilePath)
	assert.Equal(t, 3, hotspots.Hotspots[0].ChangeCount)

	head := repo.Git("rev-parse", "HEAD")
	out, err = runGitpulse(t, repo.Dir, env, "analyze", head[:8], "--project", "sample", "--output", "json")
	require.NoError(t, err)
	var analysis schema.CommitAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, head, analysis.Commit.SHA)
	assert.Len(t, analysis.FileChanges, 1)
}

// TestSessionsAndExport imports sessions, correlates them and exports the project.
func TestSessionsAndExport(t *testing.T) {
	repo := newSampleRepo(t)
	env := sqliteEnv(t)

	_, err := runGitpulse(t, repo.Dir, env, "init", ".", "--project", "sample")
	require.NoError(t, err)

	// The session spans the whole test run, so every commit lies inside it.
	head := repo.Git("log", "-1", "--format=%aI")
	sessions := `[{"session_id": "s-1", "title": "pairing", "started_at": "` + head + `"}]`
	sessionsFile := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(sessionsFile, []byte(sessions), 0o644))

	out, err := runGitpulse(t, repo.Dir, env, "sessions", "import", sessionsFile, "--project", "sample")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 sessions")

	out, err = runGitpulse(t, repo.Dir, env, "correlate", "--project", "sample", "--output", "json")
	require.NoError(t, err)
	var corr schema.CorrelationResult
	require.NoError(t, json.Unmarshal([]byte(out), &corr))
	assert.GreaterOrEqual(t, corr.LinksCreated, 1)

	exportDir := filepath.Join(t.TempDir(), "export")
	_, err = runGitpulse(t, repo.Dir, env, "db", "export", "--project", "sample", "--output-dir", exportDir)
	require.NoError(t, err)
	for _, name := range []string{"commits.parquet", "file_changes.parquet", "links.parquet"} {
		info, err := os.Stat(filepath.Join(exportDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	out, err = runGitpulse(t, repo.Dir, env, "db", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.StoreStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Connected)
	require.Len(t, status.Projects, 1)
	assert.Equal(t, "sample", status.Projects[0].ID)

	_, err = runGitpulse(t, repo.Dir, env, "db", "clear", "--project", "sample")
	require.NoError(t, err)
}
