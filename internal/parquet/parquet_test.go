package parquet

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportDate = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()
	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	for name, tc := range map[string]struct {
		model   any
		columns []string
	}{
		"commit":      {new(Commit), []string{"id", "commit_sha", "author_date", "commit_type", "tags", "merge_source"}},
		"file change": {new(FileChange), []string{"commit_id", "file_path", "old_file_path", "file_size_bytes", "magnitude"}},
		"link":        {new(Link), []string{"commit_id", "session_id", "confidence_score", "time_proximity_minutes"}},
	} {
		t.Run(name, func(t *testing.T) {
			s := parquet.SchemaOf(tc.model)
			for _, col := range tc.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes.parquet")
	size := int64(2048)
	rows := ConvertFileChanges([]schema.FileChange{
		{CommitID: "c1", FilePath: "new.go", OldFilePath: "old.go", ChangeType: schema.ChangeRenamed, LinesAdded: 3, FileSizeBytes: &size},
		{CommitID: "c1", FilePath: "logo.png", ChangeType: schema.ChangeAdded, IsBinary: true},
	})
	require.NoError(t, WriteParquet(rows, path))

	read := readAll[FileChange](t, path)
	require.Len(t, read, 2)
	require.NotNil(t, read[0].OldFilePath)
	assert.Equal(t, "old.go", *read[0].OldFilePath)
	require.NotNil(t, read[0].FileSizeBytes)
	assert.Equal(t, int64(2048), *read[0].FileSizeBytes)
	assert.Nil(t, read[1].OldFilePath)
	assert.Nil(t, read[1].FileSizeBytes)
	assert.True(t, read[1].IsBinary)
}

func TestWriteParquet_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteParquet([]Link{}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Empty(t, readAll[Link](t, path))
}

func TestWriteParquet_BadPath(t *testing.T) {
	err := WriteParquet([]Link{}, filepath.Join(t.TempDir(), "missing", "x.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

type fakeSource struct {
	commits []schema.Commit
	changes []schema.FileChange
	links   []schema.CommitSessionLink
}

func (f fakeSource) QueryCommits(context.Context, schema.CommitFilter) ([]schema.Commit, int, error) {
	return f.commits, len(f.commits), nil
}

func (f fakeSource) ListProjectFileChanges(context.Context, string) ([]schema.FileChange, error) {
	return f.changes, nil
}

func (f fakeSource) ListLinks(context.Context, string) ([]schema.CommitSessionLink, error) {
	return f.links, nil
}

func TestExportProject(t *testing.T) {
	proximity := 45.0
	src := fakeSource{
		commits: []schema.Commit{{
			ID:        "c1",
			ProjectID: "proj",
			SHA:       "abc123",
			Message:   "Merge branch 'feature/x'",
			Author:    schema.Identity{Name: "Ada", Email: "ada@example.com", Date: exportDate},
			Type:      schema.MergeCommit,
			IsMerge:   true,
			Tags:      []string{"merge", "ticket"},
			Merge:     &schema.MergeInfo{SourceBranch: "feature/x", TargetBranch: "main"},
		}},
		changes: []schema.FileChange{{CommitID: "c1", FilePath: "a.go", ChangeType: schema.ChangeModified}},
		links: []schema.CommitSessionLink{{
			CommitID: "c1", SessionID: "s1", LinkType: schema.NearSessionLink,
			Confidence: 0.5, TimeProximityMinutes: &proximity, UpdatedAt: exportDate,
		}},
	}
	dir := filepath.Join(t.TempDir(), "export")

	result, err := ExportProject(context.Background(), src, "proj", dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		filepath.Join(dir, "commits.parquet"):      1,
		filepath.Join(dir, "file_changes.parquet"): 1,
		filepath.Join(dir, "links.parquet"):        1,
	}, result.Files)

	commits := readAll[Commit](t, filepath.Join(dir, "commits.parquet"))
	require.Len(t, commits, 1)
	assert.Equal(t, "merge|ticket", commits[0].Tags)
	require.NotNil(t, commits[0].MergeSource)
	assert.Equal(t, "feature/x", *commits[0].MergeSource)
	assert.True(t, commits[0].AuthorDate.Equal(exportDate))

	links := readAll[Link](t, filepath.Join(dir, "links.parquet"))
	require.Len(t, links, 1)
	assert.InDelta(t, 0.5, links[0].Confidence, 1e-9)
	require.NotNil(t, links[0].TimeProximityMinutes)
	assert.InDelta(t, 45.0, *links[0].TimeProximityMinutes, 1e-9)
}
