// Package parquet exports stored commits, file changes and session links to
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// Commit is one exported row of the commits table.
type Commit struct {
	// ID is the store identifier referenced by file changes and links
	ID        string `parquet:"id,snappy"`
	ProjectID string `parquet:"project_id,snappy,dict"`
	SHA       string `parquet:"commit_sha,snappy"`
	Message   string `parquet:"message,snappy"`

	AuthorName  string    `parquet:"author_name,snappy,dict"`
	AuthorEmail string    `parquet:"author_email,snappy,dict"`
	AuthorDate  time.Time `parquet:"author_date,snappy"`

	BranchName     string `parquet:"branch_name,snappy,dict"`
	CommitType     string `parquet:"commit_type,snappy,dict"`
	BreakingChange bool   `parquet:"breaking_change"`
	IsMerge        bool   `parquet:"is_merge"`
	FilesChanged   int32  `parquet:"files_changed,snappy"`
	Insertions     int32  `parquet:"insertions,snappy"`
	Deletions      int32  `parquet:"deletions,snappy"`

	// Tags is pipe separated
	Tags string `parquet:"tags,snappy"`

	// MergeSource is set for merges whose source branch was resolved
	MergeSource *string `parquet:"merge_source,optional,snappy"`
}

// FileChange is one exported row of the file_changes table.
type FileChange struct {
	CommitID      string  `parquet:"commit_id,snappy"`
	FilePath      string  `parquet:"file_path,snappy"`
	OldFilePath   *string `parquet:"old_file_path,optional,snappy"`
	ChangeType    string  `parquet:"change_type,snappy,dict"`
	LinesAdded    int32   `parquet:"lines_added,snappy"`
	LinesRemoved  int32   `parquet:"lines_removed,snappy"`
	IsBinary      bool    `parquet:"is_binary"`
	FileSizeBytes *int64  `parquet:"file_size_bytes,optional,snappy"`
	Category      string  `parquet:"category,snappy,dict"`
	Language      string  `parquet:"language,snappy,dict"`
	Magnitude     string  `parquet:"magnitude,snappy,dict"`
	IsTest        bool    `parquet:"is_test"`
}

// Link is one exported row of the commit_session_links table.
type Link struct {
	CommitID             string    `parquet:"commit_id,snappy"`
	SessionID            string    `parquet:"session_id,snappy"`
	LinkType             string    `parquet:"link_type,snappy,dict"`
	Confidence           float64   `parquet:"confidence_score,snappy"`
	TimeProximityMinutes *float64  `parquet:"time_proximity_minutes,optional,snappy"`
	AuthorMatch          bool      `parquet:"author_match"`
	UpdatedAt            time.Time `parquet:"updated_at,snappy"`
}

// Source is the part of the commit store an export reads from.
type Source interface {
	QueryCommits(ctx context.Context, filter schema.CommitFilter) ([]schema.Commit, int, error)
	ListProjectFileChanges(ctx context.Context, projectID string) ([]schema.FileChange, error)
	ListLinks(ctx context.Context, projectID string) ([]schema.CommitSessionLink, error)
}

// ExportResult lists the files written by ExportProject and their row counts.
type ExportResult struct {
	Files map[string]int `json:"files"`
}

// ExportProject writes commits.parquet, file_changes.parquet and links.parquet for
// one project into dir, creating dir when needed.
func ExportProject(ctx context.Context, src Source, projectID string, dir string) (ExportResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	result := ExportResult{Files: make(map[string]int, 3)}

	commits, _, err := src.QueryCommits(ctx, schema.CommitFilter{ProjectID: projectID})
	if err != nil {
		return result, fmt.Errorf("failed to read commits: %w", err)
	}
	path := filepath.Join(dir, "commits.parquet")
	if err := WriteParquet(ConvertCommits(commits), path); err != nil {
		return result, err
	}
	result.Files[path] = len(commits)

	changes, err := src.ListProjectFileChanges(ctx, projectID)
	if err != nil {
		return result, fmt.Errorf("failed to read file changes: %w", err)
	}
	path = filepath.Join(dir, "file_changes.parquet")
	if err := WriteParquet(ConvertFileChanges(changes), path); err != nil {
		return result, err
	}
	result.Files[path] = len(changes)

	links, err := src.ListLinks(ctx, projectID)
	if err != nil {
		return result, fmt.Errorf("failed to read links: %w", err)
	}
	path = filepath.Join(dir, "links.parquet")
	if err := WriteParquet(ConvertLinks(links), path); err != nil {
		return result, err
	}
	result.Files[path] = len(links)
	return result, nil
}

// WriteParquet writes rows to a Parquet file whose schema is inferred from T's struct tags.
func WriteParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ConvertCommits converts stored commits to export rows.
func ConvertCommits(commits []schema.Commit) []Commit {
	result := make([]Commit, len(commits))
	for i, c := range commits {
		result[i] = Commit{
			ID:             c.ID,
			ProjectID:      c.ProjectID,
			SHA:            c.SHA,
			Message:        c.Message,
			AuthorName:     c.Author.Name,
			AuthorEmail:    c.Author.Email,
			AuthorDate:     c.Author.Date.UTC(),
			BranchName:     c.BranchName,
			CommitType:     string(c.Type),
			BreakingChange: c.BreakingChange,
			IsMerge:        c.IsMerge,
			FilesChanged:   int32(c.FilesChanged),
			Insertions:     int32(c.Insertions),
			Deletions:      int32(c.Deletions),
			Tags:           strings.Join(c.Tags, "|"),
		}
		if c.Merge != nil && c.Merge.SourceBranch != "" {
			source := c.Merge.SourceBranch
			result[i].MergeSource = &source
		}
	}
	return result
}

// ConvertFileChanges converts stored file changes to export rows.
func ConvertFileChanges(changes []schema.FileChange) []FileChange {
	result := make([]FileChange, len(changes))
	for i, fc := range changes {
		result[i] = FileChange{
			CommitID:      fc.CommitID,
			FilePath:      fc.FilePath,
			ChangeType:    string(fc.ChangeType),
			LinesAdded:    int32(fc.LinesAdded),
			LinesRemoved:  int32(fc.LinesRemoved),
			IsBinary:      fc.IsBinary,
			FileSizeBytes: fc.FileSizeBytes,
			Category:      string(fc.Category),
			Language:      fc.Language,
			Magnitude:     string(fc.Magnitude),
			IsTest:        fc.IsTest,
		}
		if fc.OldFilePath != "" {
			old := fc.OldFilePath
			result[i].OldFilePath = &old
		}
	}
	return result
}

// ConvertLinks converts stored links to export rows.
func ConvertLinks(links []schema.CommitSessionLink) []Link {
	result := make([]Link, len(links))
	for i, l := range links {
		result[i] = Link{
			CommitID:             l.CommitID,
			SessionID:            l.SessionID,
			LinkType:             string(l.LinkType),
			Confidence:           l.Confidence,
			TimeProximityMinutes: l.TimeProximityMinutes,
			AuthorMatch:          l.AuthorMatch,
			UpdatedAt:            l.UpdatedAt.UTC(),
		}
	}
	return result
}
