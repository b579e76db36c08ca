package algo

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/gitpulse/schema"
)

// Tier thresholds. A score equal to a threshold stays in the lower tier.
const (
	LowTierMax    = 1.5
	MediumTierMax = 3.0
	HighTierMax   = 5.0
)

// TierFor buckets a complexity score.
func TierFor(score float64) schema.RiskTier {
	switch {
	case score <= LowTierMax:
		return schema.LowTier
	case score <= MediumTierMax:
		return schema.MediumTier
	case score <= HighTierMax:
		return schema.HighTier
	default:
		return schema.CriticalTier
	}
}

// Complexity scores a commit from its size, its file changes and its flags.
// The tier is taken from the unrounded score.
func Complexity(commit schema.Commit, changes []schema.FileChange) schema.CommitComplexity {
	var out schema.CommitComplexity
	addCount := func(n int, what string) {
		if n > 0 {
			out.Factors = append(out.Factors, fmt.Sprintf("%d %s", n, what))
		}
	}

	score := math.Min(float64(commit.FilesChanged)*0.1, 2.0) +
		math.Min(float64(commit.Insertions+commit.Deletions)*0.001, 2.0)

	var config, tests, deleted, renamed, large, massive int
	languages := make(map[string]struct{})
	for _, fc := range changes {
		if fc.IsConfiguration {
			score += 0.3
			config++
		}
		if fc.IsTest {
			score += 0.1
			tests++
			out.TestCoverageImpact = true
		}
		switch fc.ChangeType {
		case schema.ChangeDeleted:
			score += 0.2
			deleted++
		case schema.ChangeRenamed:
			score += 0.1
			renamed++
		}
		if size := fc.ChangeSize(); size > 500 {
			score += 0.2 + 0.3
			massive++
		} else if size > 100 {
			score += 0.2
			large++
		}
		if fc.Language != "" {
			languages[fc.Language] = struct{}{}
		}
	}
	addCount(config, "config files")
	addCount(tests, "test files")
	addCount(deleted, "deleted files")
	addCount(renamed, "renamed files")
	addCount(large, "large changes")
	addCount(massive, "massive changes")

	if n := len(languages); n > 3 {
		score += 0.3 + 0.2
		addCount(n, "languages")
	} else if n > 1 {
		score += 0.3
		addCount(n, "languages")
	}
	if commit.IsMerge {
		score += 0.5
		out.Factors = append(out.Factors, "merge commit")
	}
	if commit.BreakingChange {
		score += 1.0
		out.Factors = append(out.Factors, "breaking change")
	}

	for lang := range languages {
		out.Languages = append(out.Languages, lang)
	}
	slices.Sort(out.Languages)

	out.Tier = TierFor(score)
	out.Score = math.Round(score*1000) / 1000
	return out
}
