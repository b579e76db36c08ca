package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func testConfig(output schema.OutputMode) *contract.Config {
	cfg := contract.DefaultConfig()
	cfg.Output = output
	cfg.Width = 160
	return cfg
}

func testCommits() []schema.Commit {
	return []schema.Commit{
		{
			SHA:            "abc1230000000000000000000000000000000000",
			Message:        "fix(auth): handle null token",
			Author:         schema.Identity{Name: "Ada Lovelace", Email: "ada@example.com", Date: testDate},
			Type:           schema.FixCommit,
			BranchName:     "main",
			FilesChanged:   1,
			Insertions:     12,
			Deletions:      3,
			Tags:           []string{"fix", "conventional"},
			BreakingChange: false,
		},
		{
			SHA:            "def4560000000000000000000000000000000000",
			Message:        "feat!: new api, with comma",
			Author:         schema.Identity{Name: "Grace Hopper", Email: "grace@example.com", Date: testDate.Add(-time.Hour)},
			Type:           schema.FeatureCommit,
			BranchName:     "main",
			BreakingChange: true,
		},
	}
}

func parseCSV(t *testing.T, out string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCommits_Formats(t *testing.T) {
	commits := testCommits()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(testConfig(schema.JSONOut), &buf).WriteCommits(commits))
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "fix", decoded[0]["commit_type"])
		assert.Equal(t, true, decoded[1]["breaking_change"])
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteCommits(commits))
		records := parseCSV(t, buf.String())
		require.Len(t, records, 3)
		assert.Equal(t, "commit_sha", records[0][0])
		assert.Equal(t, "2024-03-01T10:30:00Z", records[1][3])
		assert.Equal(t, "fix|conventional", records[1][11])
		assert.Equal(t, "feat!: new api, with comma", records[2][12])
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteCommits(commits))
		out := buf.String()
		assert.Contains(t, out, "abc1230")
		assert.Contains(t, out, "Ada L")
		assert.Contains(t, out, "feature!")
		assert.Contains(t, out, "+12/-3")
		assert.Contains(t, out, "Showing 2 commits")
	})
}

func TestWriteQuery_Summary(t *testing.T) {
	res := schema.QueryResult{
		Commits:    testCommits(),
		TotalCount: 1200,
		Summary: schema.QuerySummary{
			ByType:        map[schema.CommitType]int{schema.FixCommit: 700, schema.FeatureCommit: 500},
			BreakingCount: 3,
			Authors:       2,
			Insertions:    12345,
		},
	}
	var buf bytes.Buffer
	err := NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteQuery(res, schema.CommitFilter{Offset: 50})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Showing 51-52 of 1,200 commits")
	assert.Contains(t, out, "feature=500 fix=700")
	assert.Contains(t, out, "+12,345/-0")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.JSONOut), &buf).WriteQuery(res, schema.CommitFilter{}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(1200), decoded["total_count"])
	assert.Contains(t, decoded, "metadata_summary")
}

func TestWriteCollect(t *testing.T) {
	res := schema.CollectResult{
		CommitsSeen:      4,
		CommitsCollected: 2,
		Batches:          2,
		Errors: []schema.BatchError{{
			Batch:     1,
			FailedSHA: "c1c1c1c1c1",
			Skipped:   1,
			Code:      string(contract.CodeBatchFailed),
			Message:   "diff failed",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteCollect(res, 1500*time.Millisecond))
	out := buf.String()
	assert.Contains(t, out, "Collection finished")
	assert.Contains(t, out, "BATCH_FAILED")
	assert.Contains(t, out, "c1c1c1c")
	assert.Contains(t, out, "Collected in 1.5s")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteCollect(res, 0))
	records := parseCSV(t, buf.String())
	assert.Equal(t, []string{"metric", "value"}, records[0])
	assert.Equal(t, []string{"commits_collected", "2"}, records[2])
	last := records[len(records)-1]
	assert.Equal(t, "error_1", last[0])
	assert.Contains(t, last[1], "batch 1 at c1c1c1c (0 processed, 1 skipped): diff failed")
}

func TestWriteHotspots(t *testing.T) {
	since := testDate.Add(-30 * 24 * time.Hour)
	res := schema.HotspotResult{
		Hotspots: []schema.Hotspot{
			{FilePath: "src/hot.go", ChangeCount: 30, ContributorCount: 7, AvgChangeSize: 80, LastChanged: testDate, DaysSinceLastChange: 1, RiskScore: 0.8},
			{FilePath: "README.md", ChangeCount: 4, ContributorCount: 1, AvgChangeSize: 3.5, LastChanged: testDate, DaysSinceLastChange: 20},
		},
		Summary: schema.HotspotSummary{TotalFiles: 2, HighRisk: 1, AverageRisk: 0.4, Since: &since, MinChanges: 3, CommitsInSet: 1500},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteHotspots(res))
	out := buf.String()
	assert.Contains(t, out, "src/hot.go")
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Showing 2 hotspots over 1,500 commits (since 2024-01-31, min changes 3) | high risk: 1")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteHotspots(res))
	records := parseCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "src/hot.go", "30", "7", "80.00", "2024-03-01T10:30:00Z", "1.00", "0.80", "high"}, records[1])
	assert.Equal(t, "low", records[2][8])
}

func TestWriteAnalysis(t *testing.T) {
	res := schema.CommitAnalysis{
		Commit: testCommits()[0],
		FileChanges: []schema.FileChange{
			{FilePath: "src/auth.ts", ChangeType: schema.ChangeModified, LinesAdded: 12, LinesRemoved: 3, Category: schema.WebCategory, Language: "TypeScript", Magnitude: schema.MagnitudeSmall},
			{FilePath: "new.go", OldFilePath: "old.go", ChangeType: schema.ChangeRenamed, Category: schema.SourceCategory, IsTest: true},
		},
		Complexity: schema.CommitComplexity{Score: 0.115, Tier: schema.LowTier, Factors: []string{"1 test files"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteAnalysis(res))
	out := buf.String()
	assert.Contains(t, out, "fix")
	assert.Contains(t, out, "0.115")
	assert.Contains(t, out, "old.go => new.go")
	assert.Contains(t, out, "1 test files")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteAnalysis(res))
	records := parseCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, "src/auth.ts", records[1][4])
	assert.Equal(t, "old.go", records[2][5])
	assert.Equal(t, "true", records[2][13])
}

func TestWriteBranchesAndStatus(t *testing.T) {
	branches := []schema.Branch{
		{Name: "main", Type: schema.MainBranch, IsDefault: true, CommitCount: 1234, CurrentSHA: "a1b2c3d4e5", LastCommitDate: testDate},
		{Name: "origin/feature/x", Type: schema.FeatureBranch, IsRemote: true},
	}
	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteBranches(branches))
	assert.Contains(t, buf.String(), "* main")
	assert.Contains(t, buf.String(), "1,234")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteBranches(branches))
	records := parseCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, "", records[2][5])

	status := schema.StoreStatus{
		Backend:       "sqlite",
		Connected:     true,
		SchemaVersion: 2,
		TableSizes:    map[string]int64{"commits": 2500, "branches": 3},
		Projects:      []schema.Project{{ID: "proj", RepoPath: "/repo", DefaultBranch: "main"}},
	}
	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteStatus(status))
	assert.Contains(t, buf.String(), "2,500")
	assert.Contains(t, buf.String(), "never")
	assert.Contains(t, buf.String(), "/repo")

	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.CSVOut), &buf).WriteStatus(status))
	records = parseCSV(t, buf.String())
	assert.Equal(t, []string{"rows_branches", "3"}, records[len(records)-2])
	assert.Equal(t, []string{"rows_commits", "2500"}, records[len(records)-1])
}

func TestWriteInitAndCorrelation(t *testing.T) {
	res := schema.InitResult{
		ProjectID:        "proj",
		RepoRoot:         "/repo",
		DefaultBranch:    "main",
		BranchCount:      2,
		CommitsCollected: 10,
		Status:           schema.RepoStatus{Branch: "main", Modified: 2, Untracked: 1, Ahead: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(testConfig(schema.TextOut), &buf).WriteInit(res))
	assert.Contains(t, buf.String(), "2 modified, 1 untracked, ahead 3")

	corr := schema.CorrelationResult{LinksCreated: 3, HighConfidenceLinks: 1, Stats: schema.CorrelationStats{PairsEvaluated: 4}}
	buf.Reset()
	require.NoError(t, NewOutWriterTo(testConfig(schema.JSONOut), &buf).WriteCorrelation(corr))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(3), decoded["links_created"])
	stats, ok := decoded["correlation_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), stats["pairs_evaluated"])
}

func TestWriteToOutputFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewOutWriter(cfg).WriteCommits(testCommits()))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "abcdefg...", truncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "none", formatTypeCounts(nil))
	assert.Equal(t, "fix=1 bogus=2", formatTypeCounts(map[schema.CommitType]int{schema.FixCommit: 1, "bogus": 2}))
	assert.Equal(t, "-", fileFlags(schema.FileChange{}))
	assert.Equal(t, "test,generated", fileFlags(schema.FileChange{IsTest: true, IsGenerated: true}))

	cfg := contract.DefaultConfig()
	cfg.Width = 40
	assert.Equal(t, minFlexWidth, flexWidth(cfg, 75))
	cfg.Width = 400
	assert.Equal(t, maxFlexWidth, flexWidth(cfg, 75))
	cfg.Width = 150
	assert.Equal(t, 55, flexWidth(cfg, 75))
}
