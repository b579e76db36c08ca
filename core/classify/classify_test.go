package classify

import (
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Conventional(t *testing.T) {
	tests := []struct {
		subject  string
		want     schema.CommitType
		scope    string
		breaking bool
	}{
		{"feat: add login", schema.FeatureCommit, "", false},
		{"fix(auth): handle null token", schema.FixCommit, "auth", false},
		{"docs(readme): typo", schema.DocsCommit, "readme", false},
		{"style: gofmt", schema.StyleCommit, "", false},
		{"refactor(core)!: split engine", schema.RefactorCommit, "core", true},
		{"test: cover parser", schema.TestCommit, "", false},
		{"chore: bump version", schema.ChoreCommit, "", false},
		{"build: use go 1.25", schema.ChoreCommit, "", false},
		{"ci: cache modules", schema.ChoreCommit, "", false},
		{"perf: avoid allocation", schema.RefactorCommit, "", false},
		{"revert: undo login", schema.FixCommit, "", false},
		{"FEAT(api): uppercase type", schema.FeatureCommit, "api", false},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			res := Classify(tt.subject, "")
			assert.Equal(t, tt.want, res.Type)
			assert.True(t, res.Analysis.Conventional)
			assert.Equal(t, tt.scope, res.Analysis.Scope)
			assert.Equal(t, tt.breaking, res.Breaking)
		})
	}
}

func TestClassify_Heuristics(t *testing.T) {
	tests := []struct {
		subject string
		want    schema.CommitType
	}{
		{"Fixed the flaky test", schema.FixCommit},
		{"Add rate limiting", schema.FeatureCommit},
		{"feature flag for exports", schema.FeatureCommit},
		{"Documentation overhaul", schema.DocsCommit},
		{"Refactoring session", schema.RefactorCommit},
		{"Tests for store", schema.TestCommit},
		{"Formatting", schema.StyleCommit},
		{"Build script cleanup", schema.ChoreCommit},
		{"Merge branch 'feature/x' into main", schema.MergeCommit},
		{"Improve startup time", schema.FeatureCommit},
		{"", schema.FeatureCommit},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			res := Classify(tt.subject, "")
			assert.Equal(t, tt.want, res.Type)
			assert.False(t, res.Analysis.Conventional)
		})
	}
}

func TestClassify_UnknownConventionalTypeFallsBack(t *testing.T) {
	res := Classify("wip: fix the thing", "")
	assert.False(t, res.Analysis.Conventional)
	assert.Equal(t, schema.FeatureCommit, res.Type)

	res = Classify("fixup: address review", "")
	assert.Equal(t, schema.FixCommit, res.Type)
}

func TestClassify_BreakingFooter(t *testing.T) {
	res := Classify("feat(api): drop v1", "BREAKING CHANGE: v1 endpoints removed")
	assert.True(t, res.Breaking)
	assert.Contains(t, res.Tags, "breaking")

	res = Classify("Remove legacy flags", "BREAKING-CHANGE: flags gone")
	assert.True(t, res.Breaking)

	res = Classify("feat: mention breaking change casually", "")
	assert.False(t, res.Breaking)
}

func TestClassify_Scenario(t *testing.T) {
	res := Classify("fix(auth): handle null token", "")
	assert.Equal(t, schema.FixCommit, res.Type)
	assert.False(t, res.Breaking)
	assert.Equal(t, "handle null token", res.Analysis.Subject)
	assert.Equal(t, []string{"fix", "conventional", "scope:auth"}, res.Tags)
}

func TestClassify_Analysis(t *testing.T) {
	body := "Refs PROJ-42 and #7.\n\nCloses #7\nfixes #9\n\nCo-authored-by: Ada Lovelace <ada@example.com>\nCo-authored-by: ada again <ADA@example.com>"
	res := Classify("feat(ui): dark mode", body)
	a := res.Analysis
	assert.True(t, a.HasBody)
	assert.Equal(t, len("feat(ui): dark mode"), a.SubjectLength)
	assert.Equal(t, []string{"#7", "#9", "PROJ-42"}, a.Tickets)
	assert.Equal(t, []string{"#7", "#9"}, a.ClosesRefs)
	assert.Equal(t, []schema.CoAuthor{{Name: "Ada Lovelace", Email: "ada@example.com"}}, a.CoAuthors)
	assert.Contains(t, res.Tags, "ticket")
	assert.Contains(t, res.Tags, "closes-issue")
	assert.Contains(t, res.Tags, "co-authored")
}

func TestClassifySubject_RuleOrder(t *testing.T) {
	// "fix" is checked before "feature", so the first rule wins.
	assert.Equal(t, schema.FixCommit, ClassifySubject("fix: add missing feature"))
	assert.Equal(t, schema.FeatureCommit, ClassifySubject("add fix for typo"))
}

func TestExtractTickets(t *testing.T) {
	assert.Empty(t, ExtractTickets("nothing here"))
	assert.Equal(t, []string{"#1", "#2"}, ExtractTickets("#1 then (#2) and #1"))
	assert.Empty(t, ExtractTickets("see https://x.test/page#12 and a&#39;"))
	assert.Equal(t, []string{"ABC-1", "X9-22"}, ExtractTickets("ABC-1 X9-22 abc-3"))
}

func TestSignature(t *testing.T) {
	good := Signature("G", "Ada", "KEY")
	assert.Equal(t, "good", good.Status)
	assert.True(t, good.Verified)

	none := Signature("N", "", "")
	assert.Equal(t, "none", none.Status)
	assert.False(t, none.Verified)

	assert.Equal(t, "none", Signature("", "", "").Status)
	assert.False(t, Signature("B", "", "").Verified)
}
