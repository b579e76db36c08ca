package store

import (
	"database/sql"

	"github.com/huangsam/gitpulse/schema"
)

// commitColumns lists commit columns in insert order.
const commitColumns = `id, project_id, commit_sha, short_sha, message, body,
	author_name, author_email, author_date, committer_name, committer_email, committer_date,
	parent_shas, is_merge, branch_name, files_changed, insertions, deletions, binary_files,
	commit_type, breaking_change, tags, message_analysis, merge_source_branch, merge_target_branch,
	signature_status, signer, signing_key, signature_verified, created_at`

// commitRow is the stored shape of a commit. Typed sub-records are flattened into
// columns except for the message analysis, which keeps its lists as JSON.
type commitRow struct {
	ID                string                             `db:"id"`
	ProjectID         string                             `db:"project_id"`
	SHA               string                             `db:"commit_sha"`
	ShortSHA          string                             `db:"short_sha"`
	Message           string                             `db:"message"`
	Body              string                             `db:"body"`
	AuthorName        string                             `db:"author_name"`
	AuthorEmail       string                             `db:"author_email"`
	AuthorDate        int64                              `db:"author_date"`
	CommitterName     string                             `db:"committer_name"`
	CommitterEmail    string                             `db:"committer_email"`
	CommitterDate     int64                              `db:"committer_date"`
	ParentSHAs        jsonColumn[[]string]               `db:"parent_shas"`
	IsMerge           bool                               `db:"is_merge"`
	BranchName        string                             `db:"branch_name"`
	FilesChanged      int                                `db:"files_changed"`
	Insertions        int                                `db:"insertions"`
	Deletions         int                                `db:"deletions"`
	BinaryFiles       int                                `db:"binary_files"`
	CommitType        string                             `db:"commit_type"`
	BreakingChange    bool                               `db:"breaking_change"`
	Tags              jsonColumn[[]string]               `db:"tags"`
	MessageAnalysis   jsonColumn[schema.MessageAnalysis] `db:"message_analysis"`
	MergeSource       sql.NullString                     `db:"merge_source_branch"`
	MergeTarget       sql.NullString                     `db:"merge_target_branch"`
	SignatureStatus   string                             `db:"signature_status"`
	Signer            string                             `db:"signer"`
	SigningKey        string                             `db:"signing_key"`
	SignatureVerified bool                               `db:"signature_verified"`
	CreatedAt         int64                              `db:"created_at"`
}

func toCommitRow(c *schema.Commit) commitRow {
	row := commitRow{
		ID:                c.ID,
		ProjectID:         c.ProjectID,
		SHA:               c.SHA,
		ShortSHA:          c.ShortSHA,
		Message:           c.Message,
		Body:              c.Body,
		AuthorName:        c.Author.Name,
		AuthorEmail:       c.Author.Email,
		AuthorDate:        unix(c.Author.Date),
		CommitterName:     c.Committer.Name,
		CommitterEmail:    c.Committer.Email,
		CommitterDate:     unix(c.Committer.Date),
		ParentSHAs:        jsonColumn[[]string]{V: nonNil(c.ParentSHAs)},
		IsMerge:           c.IsMerge,
		BranchName:        c.BranchName,
		FilesChanged:      c.FilesChanged,
		Insertions:        c.Insertions,
		Deletions:         c.Deletions,
		BinaryFiles:       c.Stats.BinaryFiles,
		CommitType:        string(c.Type),
		BreakingChange:    c.BreakingChange,
		Tags:              jsonColumn[[]string]{V: nonNil(c.Tags)},
		MessageAnalysis:   jsonColumn[schema.MessageAnalysis]{V: c.Analysis},
		SignatureStatus:   c.Signature.Status,
		Signer:            c.Signature.Signer,
		SigningKey:        c.Signature.Key,
		SignatureVerified: c.Signature.Verified,
		CreatedAt:         unix(c.CreatedAt),
	}
	if row.SignatureStatus == "" {
		row.SignatureStatus = "none"
	}
	if c.Merge != nil {
		row.MergeSource = sql.NullString{String: c.Merge.SourceBranch, Valid: true}
		row.MergeTarget = sql.NullString{String: c.Merge.TargetBranch, Valid: true}
	}
	return row
}

func (r commitRow) toCommit() schema.Commit {
	c := schema.Commit{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		SHA:            r.SHA,
		ShortSHA:       r.ShortSHA,
		Message:        r.Message,
		Body:           r.Body,
		Author:         schema.Identity{Name: r.AuthorName, Email: r.AuthorEmail, Date: fromUnix(r.AuthorDate)},
		Committer:      schema.Identity{Name: r.CommitterName, Email: r.CommitterEmail, Date: fromUnix(r.CommitterDate)},
		ParentSHAs:     r.ParentSHAs.V,
		IsMerge:        r.IsMerge,
		BranchName:     r.BranchName,
		FilesChanged:   r.FilesChanged,
		Insertions:     r.Insertions,
		Deletions:      r.Deletions,
		Type:           schema.CommitType(r.CommitType),
		BreakingChange: r.BreakingChange,
		Tags:           r.Tags.V,
		Analysis:       r.MessageAnalysis.V,
		Signature: schema.SignatureInfo{
			Status:   r.SignatureStatus,
			Signer:   r.Signer,
			Key:      r.SigningKey,
			Verified: r.SignatureVerified,
		},
		Stats: schema.StatBlock{
			FilesChanged: r.FilesChanged,
			Insertions:   r.Insertions,
			Deletions:    r.Deletions,
			BinaryFiles:  r.BinaryFiles,
		},
		CreatedAt: fromUnix(r.CreatedAt),
	}
	if r.MergeSource.Valid || r.MergeTarget.Valid {
		c.Merge = &schema.MergeInfo{
			ParentSHAs:   r.ParentSHAs.V,
			SourceBranch: r.MergeSource.String,
			TargetBranch: r.MergeTarget.String,
		}
	}
	return c
}

// fileChangeColumns lists file change columns in insert order.
const fileChangeColumns = `id, commit_id, file_path, old_file_path, change_type, lines_added, lines_removed,
	is_binary, is_generated, file_size_bytes, category, language, magnitude,
	is_configuration, is_documentation, is_test`

type fileChangeRow struct {
	ID              string        `db:"id"`
	CommitID        string        `db:"commit_id"`
	FilePath        string        `db:"file_path"`
	OldFilePath     string        `db:"old_file_path"`
	ChangeType      string        `db:"change_type"`
	LinesAdded      int           `db:"lines_added"`
	LinesRemoved    int           `db:"lines_removed"`
	IsBinary        bool          `db:"is_binary"`
	IsGenerated     bool          `db:"is_generated"`
	FileSizeBytes   sql.NullInt64 `db:"file_size_bytes"`
	Category        string        `db:"category"`
	Language        string        `db:"language"`
	Magnitude       string        `db:"magnitude"`
	IsConfiguration bool          `db:"is_configuration"`
	IsDocumentation bool          `db:"is_documentation"`
	IsTest          bool          `db:"is_test"`
}

func toFileChangeRow(fc schema.FileChange) fileChangeRow {
	row := fileChangeRow{
		ID:              fc.ID,
		CommitID:        fc.CommitID,
		FilePath:        fc.FilePath,
		OldFilePath:     fc.OldFilePath,
		ChangeType:      string(fc.ChangeType),
		LinesAdded:      fc.LinesAdded,
		LinesRemoved:    fc.LinesRemoved,
		IsBinary:        fc.IsBinary,
		IsGenerated:     fc.IsGenerated,
		Category:        string(fc.Category),
		Language:        fc.Language,
		Magnitude:       string(fc.Magnitude),
		IsConfiguration: fc.IsConfiguration,
		IsDocumentation: fc.IsDocumentation,
		IsTest:          fc.IsTest,
	}
	if fc.FileSizeBytes != nil {
		row.FileSizeBytes = sql.NullInt64{Int64: *fc.FileSizeBytes, Valid: true}
	}
	return row
}

func (r fileChangeRow) toFileChange() schema.FileChange {
	fc := schema.FileChange{
		ID:              r.ID,
		CommitID:        r.CommitID,
		FilePath:        r.FilePath,
		OldFilePath:     r.OldFilePath,
		ChangeType:      schema.ChangeType(r.ChangeType),
		LinesAdded:      r.LinesAdded,
		LinesRemoved:    r.LinesRemoved,
		IsBinary:        r.IsBinary,
		IsGenerated:     r.IsGenerated,
		Category:        schema.FileCategory(r.Category),
		Language:        r.Language,
		Magnitude:       schema.Magnitude(r.Magnitude),
		IsConfiguration: r.IsConfiguration,
		IsDocumentation: r.IsDocumentation,
		IsTest:          r.IsTest,
	}
	if r.FileSizeBytes.Valid {
		size := r.FileSizeBytes.Int64
		fc.FileSizeBytes = &size
	}
	return fc
}

type projectRow struct {
	ID            string `db:"id"`
	RepoPath      string `db:"repo_path"`
	RemoteURL     string `db:"remote_url"`
	DefaultBranch string `db:"default_branch"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

func (r projectRow) toProject() schema.Project {
	return schema.Project{
		ID:            r.ID,
		RepoPath:      r.RepoPath,
		RemoteURL:     r.RemoteURL,
		DefaultBranch: r.DefaultBranch,
		CreatedAt:     fromUnix(r.CreatedAt),
		UpdatedAt:     fromUnix(r.UpdatedAt),
	}
}

type branchRow struct {
	ProjectID       string `db:"project_id"`
	Name            string `db:"branch_name"`
	CurrentSHA      string `db:"current_sha"`
	IsDefault       bool   `db:"is_default"`
	IsRemote        bool   `db:"is_remote"`
	Type            string `db:"branch_type"`
	CommitCount     int    `db:"commit_count"`
	FirstCommitDate int64  `db:"first_commit_date"`
	LastCommitDate  int64  `db:"last_commit_date"`
	UpdatedAt       int64  `db:"updated_at"`
}

func (r branchRow) toBranch() schema.Branch {
	return schema.Branch{
		ProjectID:       r.ProjectID,
		Name:            r.Name,
		CurrentSHA:      r.CurrentSHA,
		IsDefault:       r.IsDefault,
		IsRemote:        r.IsRemote,
		Type:            schema.BranchType(r.Type),
		CommitCount:     r.CommitCount,
		FirstCommitDate: fromUnix(r.FirstCommitDate),
		LastCommitDate:  fromUnix(r.LastCommitDate),
		UpdatedAt:       fromUnix(r.UpdatedAt),
	}
}

type linkRow struct {
	CommitID             string          `db:"commit_id"`
	SessionID            string          `db:"session_id"`
	LinkType             string          `db:"link_type"`
	Confidence           float64         `db:"confidence_score"`
	TimeProximityMinutes sql.NullFloat64 `db:"time_proximity_minutes"`
	AuthorMatch          bool            `db:"author_match"`
	CreatedAt            int64           `db:"created_at"`
	UpdatedAt            int64           `db:"updated_at"`
}

func toLinkRow(l schema.CommitSessionLink) linkRow {
	row := linkRow{
		CommitID:    l.CommitID,
		SessionID:   l.SessionID,
		LinkType:    string(l.LinkType),
		Confidence:  l.Confidence,
		AuthorMatch: l.AuthorMatch,
		CreatedAt:   unix(l.CreatedAt),
		UpdatedAt:   unix(l.UpdatedAt),
	}
	if l.TimeProximityMinutes != nil {
		row.TimeProximityMinutes = sql.NullFloat64{Float64: *l.TimeProximityMinutes, Valid: true}
	}
	return row
}

func (r linkRow) toLink() schema.CommitSessionLink {
	l := schema.CommitSessionLink{
		CommitID:    r.CommitID,
		SessionID:   r.SessionID,
		LinkType:    schema.LinkType(r.LinkType),
		Confidence:  r.Confidence,
		AuthorMatch: r.AuthorMatch,
		CreatedAt:   fromUnix(r.CreatedAt),
		UpdatedAt:   fromUnix(r.UpdatedAt),
	}
	if r.TimeProximityMinutes.Valid {
		p := r.TimeProximityMinutes.Float64
		l.TimeProximityMinutes = &p
	}
	return l
}

type sessionRow struct {
	ID          string        `db:"id"`
	ProjectID   string        `db:"project_id"`
	Title       string        `db:"title"`
	StartedAt   int64         `db:"started_at"`
	EndedAt     sql.NullInt64 `db:"ended_at"`
	AuthorName  string        `db:"author_name"`
	AuthorEmail string        `db:"author_email"`
}

func toSessionRow(s schema.Session) sessionRow {
	row := sessionRow{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Title:       s.Title,
		StartedAt:   unix(s.StartedAt),
		AuthorName:  s.AuthorName,
		AuthorEmail: s.AuthorEmail,
	}
	if s.EndedAt != nil {
		row.EndedAt = sql.NullInt64{Int64: unix(*s.EndedAt), Valid: true}
	}
	return row
}

func (r sessionRow) toSession() schema.Session {
	s := schema.Session{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		StartedAt:   fromUnix(r.StartedAt),
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
	}
	if r.EndedAt.Valid {
		ended := fromUnix(r.EndedAt.Int64)
		s.EndedAt = &ended
	}
	return s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
