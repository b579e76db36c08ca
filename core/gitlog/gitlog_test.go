package gitlog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds one log record the way commitLogFormat prints it.
func record(fields []string, numstat string) string {
	return contract.RecordSep + strings.Join(fields, contract.FieldSep) + contract.FieldSep + numstat
}

func TestParseCommitLog(t *testing.T) {
	first := record([]string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "aaaaaaa",
		"Ada", "ada@example.com", "2024-03-01T10:00:00+01:00",
		"Bob", "bob@example.com", "2024-03-01T10:05:00Z",
		"bbbbbbb ccccccc", "G", "Ada <ada@example.com>", "ABCDEF",
		"feat(auth): add login", "Adds the login form.\n\nCloses #12\n",
	}, "\n10\t2\tsrc/login.ts\n-\t-\tassets/logo.png\n\n")
	second := record([]string{
		"dddddddddddddddddddddddddddddddddddddddd", "ddddddd",
		"Bob", "bob@example.com", "2024-02-28T09:00:00Z",
		"Bob", "bob@example.com", "2024-02-28T09:00:00Z",
		"", "N", "", "",
		"initial commit", "",
	}, "")

	commits, err := ParseCommitLog([]byte(first + second))
	require.NoError(t, err)
	require.Len(t, commits, 2)

	c := commits[0]
	assert.Equal(t, "aaaaaaa", c.ShortSHA)
	assert.Equal(t, "ada@example.com", c.Author.Email)
	assert.True(t, c.Author.Date.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"bbbbbbb", "ccccccc"}, c.Parents)
	assert.Equal(t, "G", c.SignatureStatus)
	assert.Equal(t, "feat(auth): add login", c.Subject)
	assert.Equal(t, "Adds the login form.\n\nCloses #12", c.Body)
	require.Len(t, c.Files, 2)
	assert.Equal(t, RawFileStat{Path: "src/login.ts", Insertions: 10, Deletions: 2}, c.Files[0])
	assert.True(t, c.Files[1].Binary)

	files, ins, del := c.Totals()
	assert.Equal(t, 2, files)
	assert.Equal(t, 10, ins)
	assert.Equal(t, 2, del)

	assert.Empty(t, commits[1].Parents)
	assert.Empty(t, commits[1].Files)
}

func TestParseCommitLog_Malformed(t *testing.T) {
	_, err := ParseCommitLog([]byte(contract.RecordSep + "abc" + contract.FieldSep + "def"))
	assert.Error(t, err)

	bad := record([]string{"a", "a", "n", "e", "not-a-date", "n", "e", "2024-01-01T00:00:00Z", "", "N", "", "", "s", ""}, "")
	_, err = ParseCommitLog([]byte(bad))
	assert.ErrorContains(t, err, "invalid author date")
}

func TestParseCommitLog_Empty(t *testing.T) {
	commits, err := ParseCommitLog(nil)
	assert.NoError(t, err)
	assert.Empty(t, commits)
}

func TestParseNumstatLine(t *testing.T) {
	tests := []struct {
		line string
		want RawFileStat
		ok   bool
	}{
		{"3\t1\tmain.go", RawFileStat{Path: "main.go", Insertions: 3, Deletions: 1}, true},
		{"-\t-\timage.png", RawFileStat{Path: "image.png", Binary: true}, true},
		{"0\t0\tsrc/{old => new}/a.go", RawFileStat{Path: "src/{old => new}/a.go"}, true},
		{"1\t1\t\"caf\\303\\251.txt\"", RawFileStat{Path: "café.txt", Insertions: 1, Deletions: 1}, true},
		{"x\t1\tmain.go", RawFileStat{}, false},
		{"1\t1", RawFileStat{}, false},
		{"", RawFileStat{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseNumstatLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBranchRefs(t *testing.T) {
	sep := contract.FieldSep
	out := strings.Join([]string{
		"refs/heads/main" + sep + "abc" + sep + "2024-03-01T10:00:00Z",
		"refs/heads/feature/login" + sep + "def" + sep + "2024-03-02T10:00:00Z",
		"refs/remotes/origin/HEAD" + sep + "abc" + sep + "2024-03-01T10:00:00Z",
		"refs/remotes/origin/main" + sep + "abc" + sep + "garbage",
	}, "\n")

	refs := ParseBranchRefs([]byte(out))
	require.Len(t, refs, 3)
	assert.Equal(t, "main", refs[0].Name)
	assert.False(t, refs[0].Remote)
	assert.Equal(t, "feature/login", refs[1].Name)
	assert.Equal(t, "def", refs[1].SHA)
	assert.Equal(t, "origin/main", refs[2].Name)
	assert.True(t, refs[2].Remote)
	assert.True(t, refs[2].LastCommit.IsZero())
}

func TestParseRefNames(t *testing.T) {
	refs := ParseRefNames([]byte("refs/heads/main\nrefs/remotes/origin/HEAD\nrefs/remotes/origin/develop\n"))
	require.Len(t, refs, 2)
	assert.Equal(t, "main", refs[0].Name)
	assert.Equal(t, "origin/develop", refs[1].Name)
	assert.True(t, refs[1].Remote)
}

func TestParseStatus(t *testing.T) {
	out := "## main...origin/main [ahead 2, behind 1]\nM  staged.go\n M dirty.go\nMM both.go\n?? new.txt\n"
	st := ParseStatus([]byte(out))
	assert.Equal(t, "main", st.Branch)
	assert.Equal(t, 2, st.Ahead)
	assert.Equal(t, 1, st.Behind)
	assert.Equal(t, 2, st.Staged)
	assert.Equal(t, 2, st.Modified)
	assert.Equal(t, 1, st.Untracked)
	assert.False(t, st.Clean)

	clean := ParseStatus([]byte("## release/1.2\n"))
	assert.Equal(t, "release/1.2", clean.Branch)
	assert.True(t, clean.Clean)

	fresh := ParseStatus([]byte("## No commits yet on main\n"))
	assert.Equal(t, "main", fresh.Branch)
}

func TestParseFileSizes(t *testing.T) {
	out := "100644 blob 1234abcd     120\tREADME.md\n040000 tree 5678ef00       -\tsrc\n160000 commit 9abc0000       -\tvendor/lib\n"
	sizes := ParseFileSizes([]byte(out))
	assert.Equal(t, map[string]int64{"README.md": 120}, sizes)
}

func TestParseCommitLog_RealRepository(t *testing.T) {
	repo := testutil.NewGitRepo(t)
	repo.WriteFile("README.md", "hello\n")
	repo.Commit("docs: add readme")
	repo.WriteFile("src/app.go", "package app\n\nfunc Run() {}\n")
	repo.WriteFile("README.md", "hello\nworld\n")
	sha := repo.Commit("feat(app): add runner\n\nCo-authored-by: Pair <pair@example.com>")

	client := contract.NewLocalGitClient()
	out, err := client.GetCommitLog(context.Background(), repo.Dir, contract.LogOptions{Limit: 10})
	require.NoError(t, err)

	commits, err := ParseCommitLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	latest := commits[0]
	assert.Equal(t, sha, latest.SHA)
	assert.Equal(t, "feat(app): add runner", latest.Subject)
	assert.Contains(t, latest.Body, "Co-authored-by: Pair")
	assert.Len(t, latest.Parents, 1)
	assert.Len(t, latest.Files, 2)

	files, ins, del := latest.Totals()
	assert.Equal(t, 2, files)
	assert.Equal(t, 4, ins)
	assert.Equal(t, 0, del)

	assert.Equal(t, "docs: add readme", commits[1].Subject)
	assert.Empty(t, commits[1].Parents)
}
