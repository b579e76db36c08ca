// Package testutil builds throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a temporary repository with a fixed identity and no signing.
type GitRepo struct {
	Dir string
	t   testing.TB
}

// SkipIfGitNotAvailable skips the test if the git binary is not found in PATH.
func SkipIfGitNotAvailable(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// NewGitRepo initializes an empty repository on branch main.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()
	SkipIfGitNotAvailable(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	r := &GitRepo{Dir: dir, t: t}
	r.Git("init", "--quiet")
	r.Git("symbolic-ref", "HEAD", "refs/heads/main")
	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	full := append([]string{
		"-C", r.Dir,
		"-c", "user.name=Test User",
		"-c", "user.email=test@example.com",
		"-c", "commit.gpgsign=false",
		"-c", "init.defaultBranch=main",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to a path relative to the repository root.
func (r *GitRepo) WriteFile(path, content string) {
	r.t.Helper()
	full := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
}

// Commit stages every change and commits with message, returning the new sha.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "--quiet", "--allow-empty", "-m", message)
	return r.Git("rev-parse", "HEAD")
}
