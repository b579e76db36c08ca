// Package contract has the interfaces, configuration and shared plumbing used across gitpulse.
package contract

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// ErrNotFound is returned by stores when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// LogOptions bounds a commit log query.
type LogOptions struct {
	Limit  int
	Since  *time.Time
	Branch string
}

// GitClient defines the necessary operations for interacting with a Git repository.
// Methods returning []byte hand back raw git output for core/gitlog to parse.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a generic git command in repoPath and returns stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository ---

	// GetRepoRoot returns the absolute path of the repository top-level directory.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetStatus returns `git status --porcelain=v1 --branch` output.
	GetStatus(ctx context.Context, repoPath string) ([]byte, error)

	// GetDefaultBranch resolves origin/HEAD, falling back to the checked out branch.
	GetDefaultBranch(ctx context.Context, repoPath string) (string, error)

	// GetRemoteURL returns the fetch URL of origin, or "" when there is none.
	GetRemoteURL(ctx context.Context, repoPath string) (string, error)

	// --- History ---

	// GetCommitLog returns record-separated commit headers, each followed by numstat lines.
	GetCommitLog(ctx context.Context, repoPath string, opts LogOptions) ([]byte, error)

	// GetCommitDiffStats returns numstat output for sha against parent.
	GetCommitDiffStats(ctx context.Context, repoPath string, parent string, sha string) ([]byte, error)

	// GetFileSizes returns `git ls-tree -l` output for the given paths at sha.
	GetFileSizes(ctx context.Context, repoPath string, sha string, paths []string) ([]byte, error)

	// --- Branches ---

	// ListBranches returns for-each-ref output for local, and optionally remote, branches.
	ListBranches(ctx context.Context, repoPath string, includeRemote bool) ([]byte, error)

	// GetBranchesContaining returns full ref names of all branches containing sha.
	GetBranchesContaining(ctx context.Context, repoPath string, sha string) ([]byte, error)

	// CountCommits returns the number of commits reachable from ref.
	CountCommits(ctx context.Context, repoPath string, ref string) (int, error)

	// GetFirstCommitTime returns the committer time of the oldest commit reachable from ref.
	GetFirstCommitTime(ctx context.Context, repoPath string, ref string) (time.Time, error)
}

// ProjectStore persists registered repositories.
type ProjectStore interface {
	UpsertProject(ctx context.Context, p schema.Project) error
	GetProject(ctx context.Context, projectID string) (schema.Project, error)
	ListProjects(ctx context.Context) ([]schema.Project, error)
}

// CommitStore persists commits and their file changes, keyed by (project, sha).
type CommitStore interface {
	// CommitExists reports whether (projectID, sha) is already stored.
	CommitExists(ctx context.Context, projectID string, sha string) (bool, error)

	// SaveCommit stores a commit and its file changes atomically. It returns false
	// without error when the commit was already stored.
	SaveCommit(ctx context.Context, c *schema.Commit, changes []schema.FileChange) (bool, error)

	// GetCommit looks up a commit by full sha or unique prefix.
	GetCommit(ctx context.Context, projectID string, sha string) (schema.Commit, error)

	// ListFileChanges returns the file changes of one commit ordered by path.
	ListFileChanges(ctx context.Context, commitID string) ([]schema.FileChange, error)

	// QueryCommits returns one page of commits and the total matching count.
	QueryCommits(ctx context.Context, filter schema.CommitFilter) ([]schema.Commit, int, error)

	// SummarizeCommits aggregates over every commit matching filter, ignoring paging.
	SummarizeCommits(ctx context.Context, filter schema.CommitFilter) (schema.QuerySummary, error)
}

// BranchStore persists branch snapshots.
type BranchStore interface {
	UpsertBranch(ctx context.Context, b schema.Branch) error
	ListBranches(ctx context.Context, projectID string, includeRemote bool) ([]schema.Branch, error)
}

// LinkStore persists commit to session links.
type LinkStore interface {
	// UpsertLinkIfImproved inserts a new link, or updates an existing one only when the
	// new confidence is strictly greater than the stored one.
	UpsertLinkIfImproved(ctx context.Context, link schema.CommitSessionLink) (schema.LinkOutcome, error)
	GetLink(ctx context.Context, commitID string, sessionID string) (schema.CommitSessionLink, error)
	ListLinks(ctx context.Context, projectID string) ([]schema.CommitSessionLink, error)
}

// ActivityStore serves the aggregates hotspots are scored from.
type ActivityStore interface {
	FileActivity(ctx context.Context, projectID string, since *time.Time, minChanges int, limit int) ([]schema.FileActivity, error)
	CountCommits(ctx context.Context, projectID string, since *time.Time) (int, error)
}

// SessionDirectory is the read side of the externally owned session records.
type SessionDirectory interface {
	// ListSessions returns sessions of a project that are open or ended at or after since.
	ListSessions(ctx context.Context, projectID string, since *time.Time) ([]schema.Session, error)
}

// Store is everything the engine needs from persistence.
type Store interface {
	ProjectStore
	CommitStore
	BranchStore
	LinkStore
	ActivityStore
	io.Closer
}
