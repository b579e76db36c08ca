package schema

import (
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// CommitType is the single classification every commit receives.
	CommitType string

	// ChangeType describes what happened to a file in one commit.
	ChangeType string

	// FileCategory is the coarse kind of a file, resolved from its extension.
	FileCategory string

	// Magnitude buckets the size of a single file change.
	Magnitude string

	// BranchType is the role a branch plays, resolved from its name.
	BranchType string

	// RiskTier is the bucketed commit complexity.
	RiskTier string

	// LinkType describes how a commit relates in time to a session.
	LinkType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the relational store backend.
	DatabaseBackend string

	// AuthorMatchMode selects how commit and session authors are compared.
	AuthorMatchMode string
)

// All commit types. Every commit gets exactly one of these.
const (
	FeatureCommit  CommitType = "feature" // default
	FixCommit      CommitType = "fix"
	DocsCommit     CommitType = "docs"
	StyleCommit    CommitType = "style"
	RefactorCommit CommitType = "refactor"
	TestCommit     CommitType = "test"
	ChoreCommit    CommitType = "chore"
	MergeCommit    CommitType = "merge"
)

// All file change types.
const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

// All file categories.
const (
	SourceCategory        FileCategory = "source"
	WebCategory           FileCategory = "web"
	ConfigCategory        FileCategory = "config"
	DocumentationCategory FileCategory = "documentation"
	DataCategory          FileCategory = "data"
	ImageCategory         FileCategory = "image"
	ArchiveCategory       FileCategory = "archive"
	ExecutableCategory    FileCategory = "executable"
	OtherCategory         FileCategory = "other"
)

// All magnitude buckets, smallest first.
const (
	MagnitudeNone    Magnitude = "none"
	MagnitudeMinimal Magnitude = "minimal"
	MagnitudeSmall   Magnitude = "small"
	MagnitudeMedium  Magnitude = "medium"
	MagnitudeLarge   Magnitude = "large"
	MagnitudeMassive Magnitude = "massive"
)

// All branch types.
const (
	MainBranch    BranchType = "main"
	DevelopBranch BranchType = "develop"
	FeatureBranch BranchType = "feature" // default
	HotfixBranch  BranchType = "hotfix"
	ReleaseBranch BranchType = "release"
)

// All risk tiers, lowest first.
const (
	LowTier      RiskTier = "low"
	MediumTier   RiskTier = "medium"
	HighTier     RiskTier = "high"
	CriticalTier RiskTier = "critical"
)

// All link types.
const (
	DuringSessionLink LinkType = "during_session"
	NearSessionLink   LinkType = "near_session"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All author match modes supported.
const (
	NoAuthorMatch    AuthorMatchMode = "none" // default
	EmailAuthorMatch AuthorMatchMode = "email"
)

// AllCommitTypes lists every commit type in display order.
var AllCommitTypes = []CommitType{
	FeatureCommit, FixCommit, DocsCommit, StyleCommit,
	RefactorCommit, TestCommit, ChoreCommit, MergeCommit,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidAuthorMatchModes lists all valid author match modes.
var ValidAuthorMatchModes = map[AuthorMatchMode]struct{}{
	NoAuthorMatch:    {},
	EmailAuthorMatch: {},
}

// Valid reports whether t is one of the known commit types.
func (t CommitType) Valid() bool {
	for _, known := range AllCommitTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseCommitTypes parses a comma-separated list like "fix,feature".
func ParseCommitTypes(s string) ([]CommitType, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []CommitType
	for part := range strings.SplitSeq(s, ",") {
		t := CommitType(strings.ToLower(strings.TrimSpace(part)))
		if t == "" {
			continue
		}
		if !t.Valid() {
			return nil, fmt.Errorf("unknown commit type %q", part)
		}
		out = append(out, t)
	}
	return out, nil
}
