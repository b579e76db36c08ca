package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Separators used in git format strings. Commit messages never contain them.
const (
	RecordSep = "\x1e"
	FieldSep  = "\x1f"
)

// commitLogFormat emits one record per commit. The trailing field separator ends
// the body so the numstat lines that follow can be told apart from it.
const commitLogFormat = "--pretty=format:%x1e%H%x1f%h%x1f%an%x1f%ae%x1f%aI%x1f%cn%x1f%ce%x1f%cI%x1f%P%x1f%G?%x1f%GS%x1f%GK%x1f%s%x1f%b%x1f"

// branchRefFormat is the for-each-ref format used by ListBranches.
const branchRefFormat = "--format=%(refname)%1f%(objectname)%1f%(committerdate:iso-strict)"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	limiter *rate.Limiter
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// NewLimitedGitClient creates a local Git client that starts at most callsPerSecond
// git processes per second. A non-positive rate means unlimited.
func NewLimitedGitClient(callsPerSecond float64) *LocalGitClient {
	if callsPerSecond <= 0 {
		return NewLocalGitClient()
	}
	return &LocalGitClient{limiter: rate.NewLimiter(rate.Limit(callsPerSecond), 1)}
}

// Run executes a git command and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("git rate limiter: %w", err)
		}
	}
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetStatus implements the GitClient interface.
func (c *LocalGitClient) GetStatus(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "status", "--porcelain=v1", "--branch")
}

// GetDefaultBranch implements the GitClient interface.
func (c *LocalGitClient) GetDefaultBranch(ctx context.Context, repoPath string) (string, error) {
	if out, err := c.Run(ctx, repoPath, "symbolic-ref", "--quiet", "--short", "refs/remotes/origin/HEAD"); err == nil {
		if name := strings.TrimPrefix(strings.TrimSpace(string(out)), "origin/"); name != "" {
			return name, nil
		}
	}
	out, err := c.Run(ctx, repoPath, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRemoteURL implements the GitClient interface.
func (c *LocalGitClient) GetRemoteURL(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "config", "--get", "remote.origin.url")
	if err != nil {
		// git config exits 1 when the key is missing
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, opts LogOptions) ([]byte, error) {
	args := []string{
		"log",
		"--no-color",
		"-M",
		"--numstat",
		commitLogFormat,
	}
	if opts.Limit > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Limit))
	}
	if opts.Since != nil {
		args = append(args, "--since="+opts.Since.Format(time.RFC3339))
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	args = append(args, "--")
	return c.Run(ctx, repoPath, args...)
}

// GetCommitDiffStats implements the GitClient interface.
func (c *LocalGitClient) GetCommitDiffStats(ctx context.Context, repoPath string, parent string, sha string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--no-color", "-M", "--numstat", parent, sha, "--")
}

// GetFileSizes implements the GitClient interface.
func (c *LocalGitClient) GetFileSizes(ctx context.Context, repoPath string, sha string, paths []string) ([]byte, error) {
	args := append([]string{"ls-tree", "-l", sha, "--"}, paths...)
	return c.Run(ctx, repoPath, args...)
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string, includeRemote bool) ([]byte, error) {
	args := []string{"for-each-ref", branchRefFormat, "refs/heads"}
	if includeRemote {
		args = append(args, "refs/remotes")
	}
	return c.Run(ctx, repoPath, args...)
}

// GetBranchesContaining implements the GitClient interface.
func (c *LocalGitClient) GetBranchesContaining(ctx context.Context, repoPath string, sha string) ([]byte, error) {
	return c.Run(ctx, repoPath, "for-each-ref", "--format=%(refname)", "--contains", sha, "refs/heads", "refs/remotes")
}

// CountCommits implements the GitClient interface.
func (c *LocalGitClient) CountCommits(ctx context.Context, repoPath string, ref string) (int, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "--count", ref, "--")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(out)))
}

// GetFirstCommitTime implements the GitClient interface.
func (c *LocalGitClient) GetFirstCommitTime(ctx context.Context, repoPath string, ref string) (time.Time, error) {
	out, err := c.Run(ctx, repoPath, "log", "--max-parents=0", "--format=%cI", ref, "--")
	if err != nil {
		return time.Time{}, err
	}
	var first time.Time
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(line))
		if err != nil {
			continue
		}
		if first.IsZero() || t.Before(first) {
			first = t
		}
	}
	if first.IsZero() {
		return time.Time{}, fmt.Errorf("no root commit found for %q", ref)
	}
	return first, nil
}
