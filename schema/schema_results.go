package schema

import "time"

// RepoStatus is the working tree state reported by git status.
type RepoStatus struct {
	Branch    string `json:"branch"`
	Clean     bool   `json:"clean"`
	Untracked int    `json:"untracked"`
	Staged    int    `json:"staged"`
	Modified  int    `json:"modified"`
	Ahead     int    `json:"ahead"`
	Behind    int    `json:"behind"`
}

// InitResult is returned when a repository is registered.
type InitResult struct {
	ProjectID        string     `json:"project_id"`
	RepoRoot         string     `json:"repo_root"`
	DefaultBranch    string     `json:"default_branch"`
	BranchCount      int        `json:"branch_count"`
	CommitsCollected int        `json:"commits_collected"`
	Status           RepoStatus `json:"status"`
}

// BatchError is a recorded, non-fatal failure of one collection batch.
type BatchError struct {
	Batch     int    `json:"batch"`
	FailedSHA string `json:"failed_sha,omitempty"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// CollectResult summarizes one collection run, including partial failures.
type CollectResult struct {
	CommitsCollected   int          `json:"commits_collected"`
	CommitsSeen        int          `json:"commits_seen"`
	AlreadyStored      int          `json:"already_stored"`
	DependencyCommits  int          `json:"dependency_commits"`
	BranchesUpdated    int          `json:"branches_updated"`
	FileChangesTracked int          `json:"file_changes_tracked"`
	Batches            int          `json:"batches"`
	Errors             []BatchError `json:"errors"`
}

// CorrelationStats are accumulated across one correlation run and never stored.
type CorrelationStats struct {
	CommitsEvaluated  int `json:"commits_evaluated"`
	SessionsEvaluated int `json:"sessions_evaluated"`
	PairsEvaluated    int `json:"pairs_evaluated"`
	Candidates        int `json:"candidates"`
	AuthorMatches     int `json:"author_matches"`
	WithinHour        int `json:"within_hour"`
}

// CorrelationResult is returned by a correlation run.
type CorrelationResult struct {
	LinksCreated        int              `json:"links_created"`
	LinksUpdated        int              `json:"links_updated"`
	LinksUnchanged      int              `json:"links_unchanged"`
	HighConfidenceLinks int              `json:"high_confidence_links"`
	Stats               CorrelationStats `json:"correlation_stats"`
}

// CommitFilter is the filter set accepted by commit queries.
type CommitFilter struct {
	ProjectID       string       `json:"project_id"`
	Since           *time.Time   `json:"since,omitempty"`
	Until           *time.Time   `json:"until,omitempty"`
	Author          string       `json:"author,omitempty"`
	Branch          string       `json:"branch,omitempty"`
	Types           []CommitType `json:"types,omitempty"`
	Merge           *bool        `json:"merge,omitempty"`
	BreakingOnly    bool         `json:"breaking_only,omitempty"`
	MessageContains string       `json:"message_contains,omitempty"`
	PathPrefix      string       `json:"path_prefix,omitempty"`
	Limit           int          `json:"limit"`
	Offset          int          `json:"offset"`
}

// QuerySummary describes the full filtered set, not only the returned page.
type QuerySummary struct {
	ByType        map[CommitType]int `json:"by_type"`
	MergeCount    int                `json:"merge_count"`
	BreakingCount int                `json:"breaking_count"`
	Authors       int                `json:"authors"`
	Insertions    int                `json:"insertions"`
	Deletions     int                `json:"deletions"`
}

// QueryResult is one page of commits plus totals.
type QueryResult struct {
	Commits    []Commit     `json:"commits"`
	TotalCount int          `json:"total_count"`
	Summary    QuerySummary `json:"metadata_summary"`
}

// HotspotSummary describes one hotspot query.
type HotspotSummary struct {
	TotalFiles   int        `json:"total_files"`
	HighRisk     int        `json:"high_risk"`
	AverageRisk  float64    `json:"average_risk"`
	Since        *time.Time `json:"since,omitempty"`
	MinChanges   int        `json:"min_changes"`
	Limit        int        `json:"limit"`
	GeneratedAt  time.Time  `json:"generated_at"`
	CommitsInSet int        `json:"commits_in_set"`
}

// HotspotResult is returned by a hotspot query.
type HotspotResult struct {
	Hotspots []Hotspot      `json:"hotspots"`
	Summary  HotspotSummary `json:"summary"`
}

// CommitAnalysis is the full analysis of one stored commit.
type CommitAnalysis struct {
	Commit      Commit           `json:"commit"`
	FileChanges []FileChange     `json:"file_changes"`
	Complexity  CommitComplexity `json:"complexity"`
}

// FileActivity is the raw per-file aggregate a hotspot is scored from.
type FileActivity struct {
	FilePath         string    `json:"file_path"`
	ChangeCount      int       `json:"change_count"`
	ContributorCount int       `json:"contributor_count"`
	LastChanged      time.Time `json:"last_changed"`
	TotalChurn       int       `json:"total_churn"`
}

// LinkOutcome is what happened when a candidate link was offered to the store.
type LinkOutcome string

// All link outcomes.
const (
	LinkCreated   LinkOutcome = "created"
	LinkUpdated   LinkOutcome = "updated"
	LinkUnchanged LinkOutcome = "unchanged"
)
