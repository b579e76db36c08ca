package algo

import (
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		tier  schema.RiskTier
	}{
		{0, schema.LowTier},
		{1.5, schema.LowTier},
		{1.500001, schema.MediumTier},
		{3.0, schema.MediumTier},
		{3.0001, schema.HighTier},
		{5.0, schema.HighTier},
		{5.01, schema.CriticalTier},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.score), "score %v", tt.score)
	}
}

func TestComplexity_Scenario(t *testing.T) {
	commit := schema.Commit{SHA: "abc123", FilesChanged: 1, Insertions: 12, Deletions: 3, Type: schema.FixCommit}
	changes := []schema.FileChange{{
		FilePath: "src/auth.ts", ChangeType: schema.ChangeModified,
		LinesAdded: 12, LinesRemoved: 3, Language: "TypeScript",
	}}
	c := Complexity(commit, changes)
	assert.InDelta(t, 0.115, c.Score, 1e-9)
	assert.Equal(t, schema.LowTier, c.Tier)
	assert.False(t, c.TestCoverageImpact)
	assert.Equal(t, []string{"TypeScript"}, c.Languages)
	assert.Empty(t, c.Factors)
}

func TestComplexity_MergeBonus(t *testing.T) {
	commit := schema.Commit{FilesChanged: 1, Insertions: 12, Deletions: 3, IsMerge: true, ParentSHAs: []string{"a", "b"}}
	c := Complexity(commit, nil)
	assert.InDelta(t, 0.615, c.Score, 1e-9)
	assert.Contains(t, c.Factors, "merge commit")
}

func TestComplexity_ExactBoundary(t *testing.T) {
	// 10 files and 500 lines land exactly on the low tier ceiling.
	commit := schema.Commit{FilesChanged: 10, Insertions: 400, Deletions: 100}
	c := Complexity(commit, nil)
	assert.InDelta(t, 1.5, c.Score, 1e-9)
	assert.Equal(t, schema.LowTier, c.Tier)

	commit.Insertions++
	c = Complexity(commit, nil)
	assert.Equal(t, schema.MediumTier, c.Tier)
}

func TestComplexity_PerFileFactors(t *testing.T) {
	commit := schema.Commit{FilesChanged: 5, Insertions: 900, Deletions: 100, BreakingChange: true}
	changes := []schema.FileChange{
		{FilePath: "config.yaml", IsConfiguration: true, ChangeType: schema.ChangeModified, LinesAdded: 2, Language: "YAML"},
		{FilePath: "a_test.go", IsTest: true, ChangeType: schema.ChangeAdded, LinesAdded: 150, Language: "Go"},
		{FilePath: "old.py", ChangeType: schema.ChangeDeleted, LinesRemoved: 600, Language: "Python"},
		{FilePath: "new.rs", OldFilePath: "old.rs", ChangeType: schema.ChangeRenamed, Language: "Rust"},
		{FilePath: "b.go", ChangeType: schema.ChangeModified, LinesAdded: 50, Language: "Go"},
	}
	c := Complexity(commit, changes)

	// base 0.5 + 1.0, config 0.3, test 0.1, deleted 0.2, renamed 0.1,
	// large 0.2, massive 0.5, 4 languages 0.5, breaking 1.0
	assert.InDelta(t, 4.4, c.Score, 1e-9)
	assert.Equal(t, schema.HighTier, c.Tier)
	assert.True(t, c.TestCoverageImpact)
	assert.Equal(t, []string{"Go", "Python", "Rust", "YAML"}, c.Languages)
	assert.Equal(t, []string{
		"1 config files", "1 test files", "1 deleted files", "1 renamed files",
		"1 large changes", "1 massive changes", "4 languages", "breaking change",
	}, c.Factors)
}

func TestComplexity_BaseCaps(t *testing.T) {
	commit := schema.Commit{FilesChanged: 500, Insertions: 50000, IsMerge: true, BreakingChange: true}
	c := Complexity(commit, nil)
	assert.InDelta(t, 5.5, c.Score, 1e-9)
	assert.Equal(t, schema.CriticalTier, c.Tier)
}
