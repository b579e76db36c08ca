// Package schema has the models, enums and result records for all parts of gitpulse.
package schema

import "time"

// Identity is a person plus the moment they acted on a commit.
type Identity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CoAuthor is one Co-authored-by trailer.
type CoAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MessageAnalysis is what the classifier learned from the commit message.
type MessageAnalysis struct {
	Conventional  bool       `json:"conventional"`
	RawType       string     `json:"raw_type,omitempty"`
	Scope         string     `json:"scope,omitempty"`
	Subject       string     `json:"subject"`
	SubjectLength int        `json:"subject_length"`
	HasBody       bool       `json:"has_body"`
	Tickets       []string   `json:"tickets,omitempty"`
	ClosesRefs    []string   `json:"closes_refs,omitempty"`
	CoAuthors     []CoAuthor `json:"co_authors,omitempty"`
}

// MergeInfo records where a merge commit came from and went to.
type MergeInfo struct {
	ParentSHAs   []string `json:"parent_shas"`
	SourceBranch string   `json:"source_branch,omitempty"`
	TargetBranch string   `json:"target_branch,omitempty"`
}

// SignatureInfo captures the signature state reported by git (%G?, %GS, %GK).
type SignatureInfo struct {
	Status   string `json:"status"`
	Signer   string `json:"signer,omitempty"`
	Key      string `json:"key,omitempty"`
	Verified bool   `json:"verified"`
}

// StatBlock is the raw diff summary of a commit.
type StatBlock struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
	BinaryFiles  int `json:"binary_files"`
}

// Commit is a classified commit as stored for one project.
// Identity is (ProjectID, SHA).
type Commit struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	SHA            string          `json:"commit_sha"`
	ShortSHA       string          `json:"short_sha"`
	Message        string          `json:"message"`
	Body           string          `json:"body,omitempty"`
	Author         Identity        `json:"author"`
	Committer      Identity        `json:"committer"`
	ParentSHAs     []string        `json:"parent_shas"`
	IsMerge        bool            `json:"is_merge"`
	BranchName     string          `json:"branch_name"`
	FilesChanged   int             `json:"files_changed"`
	Insertions     int             `json:"insertions"`
	Deletions      int             `json:"deletions"`
	Type           CommitType      `json:"commit_type"`
	BreakingChange bool            `json:"breaking_change"`
	Tags           []string        `json:"tags,omitempty"`
	Analysis       MessageAnalysis `json:"message_analysis"`
	Merge          *MergeInfo      `json:"merge_info,omitempty"`
	Signature      SignatureInfo   `json:"signature_info"`
	Stats          StatBlock       `json:"stats"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FileChange is one file touched by one commit. Identity is (CommitID, FilePath).
type FileChange struct {
	ID              string       `json:"id"`
	CommitID        string       `json:"commit_id"`
	FilePath        string       `json:"file_path"`
	OldFilePath     string       `json:"old_file_path,omitempty"`
	ChangeType      ChangeType   `json:"change_type"`
	LinesAdded      int          `json:"lines_added"`
	LinesRemoved    int          `json:"lines_removed"`
	IsBinary        bool         `json:"is_binary"`
	IsGenerated     bool         `json:"is_generated"`
	FileSizeBytes   *int64       `json:"file_size_bytes,omitempty"`
	Category        FileCategory `json:"category"`
	Language        string       `json:"language,omitempty"`
	Magnitude       Magnitude    `json:"magnitude"`
	IsConfiguration bool         `json:"is_configuration"`
	IsDocumentation bool         `json:"is_documentation"`
	IsTest          bool         `json:"is_test"`
}

// ChangeSize is lines added plus lines removed.
func (fc FileChange) ChangeSize() int {
	return fc.LinesAdded + fc.LinesRemoved
}

// Branch is a branch of a project as last seen during collection.
type Branch struct {
	ProjectID       string     `json:"project_id"`
	Name            string     `json:"branch_name"`
	CurrentSHA      string     `json:"current_sha"`
	IsDefault       bool       `json:"is_default"`
	IsRemote        bool       `json:"is_remote"`
	Type            BranchType `json:"branch_type"`
	CommitCount     int        `json:"commit_count"`
	FirstCommitDate time.Time  `json:"first_commit_date"`
	LastCommitDate  time.Time  `json:"last_commit_date"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Project is a registered repository.
type Project struct {
	ID            string    `json:"project_id"`
	RepoPath      string    `json:"repo_path"`
	RemoteURL     string    `json:"remote_url,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is a bounded window of development activity owned outside the engine.
// A nil EndedAt means the session is still open.
type Session struct {
	ID          string     `json:"session_id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	AuthorName  string     `json:"author_name,omitempty"`
	AuthorEmail string     `json:"author_email,omitempty"`
}

// CommitSessionLink relates one commit to one session. At most one per pair.
type CommitSessionLink struct {
	CommitID             string    `json:"commit_id"`
	SessionID            string    `json:"session_id"`
	LinkType             LinkType  `json:"link_type"`
	Confidence           float64   `json:"confidence_score"`
	TimeProximityMinutes *float64  `json:"time_proximity_minutes,omitempty"`
	AuthorMatch          bool      `json:"author_match"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// HighConfidence reports whether the link is above the high confidence line.
func (l CommitSessionLink) HighConfidence() bool {
	return l.Confidence > HighConfidenceThreshold
}

// HighConfidenceThreshold separates high confidence links from the rest.
const HighConfidenceThreshold = 0.7

// Hotspot is a derived, non-persisted view of one file's change history.
type Hotspot struct {
	FilePath            string    `json:"file_path"`
	ChangeCount         int       `json:"change_count"`
	ContributorCount    int       `json:"contributor_count"`
	LastChanged         time.Time `json:"last_changed"`
	AvgChangeSize       float64   `json:"avg_change_size"`
	DaysSinceLastChange float64   `json:"days_since_last_change"`
	RiskScore           float64   `json:"risk_score"`
}

// CommitComplexity is the derived complexity score and tier of a commit.
type CommitComplexity struct {
	Score              float64  `json:"score"`
	Tier               RiskTier `json:"tier"`
	TestCoverageImpact bool     `json:"test_coverage_impact"`
	Languages          []string `json:"languages,omitempty"`
	Factors            []string `json:"factors,omitempty"`
}
