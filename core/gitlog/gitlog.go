// Package gitlog parses the raw output of the git commands issued by contract.GitClient.
package gitlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// commitFieldCount is the number of separated fields in one log record, including
// the trailing numstat block.
const commitFieldCount = 15

// RawFileStat is one numstat line.
type RawFileStat struct {
	Path       string // as printed by git, possibly in "old => new" form
	Insertions int
	Deletions  int
	Binary     bool
}

// RawCommit is one commit as read from the log, before classification.
type RawCommit struct {
	SHA             string
	ShortSHA        string
	Author          schema.Identity
	Committer       schema.Identity
	Parents         []string
	SignatureStatus string
	Signer          string
	SignKey         string
	Subject         string
	Body            string
	Files           []RawFileStat
}

// Totals returns files changed, insertions and deletions over all file stats.
func (c RawCommit) Totals() (files, insertions, deletions int) {
	for _, f := range c.Files {
		insertions += f.Insertions
		deletions += f.Deletions
	}
	return len(c.Files), insertions, deletions
}

// BranchRef is one branch as listed by for-each-ref.
type BranchRef struct {
	FullRef    string
	Name       string
	SHA        string
	Remote     bool
	LastCommit time.Time
}

// ParseCommitLog splits GetCommitLog output into commits, newest first.
func ParseCommitLog(out []byte) ([]RawCommit, error) {
	var commits []RawCommit
	for record := range strings.SplitSeq(string(out), contract.RecordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		c, err := parseCommitRecord(record)
		if err != nil {
			return commits, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// parseCommitRecord parses the fields of one record in commitLogFormat order.
func parseCommitRecord(record string) (RawCommit, error) {
	f := strings.SplitN(record, contract.FieldSep, commitFieldCount)
	if len(f) < commitFieldCount {
		return RawCommit{}, fmt.Errorf("malformed commit record with %d fields", len(f))
	}

	authorDate, err := time.Parse(time.RFC3339, f[4])
	if err != nil {
		return RawCommit{}, fmt.Errorf("invalid author date %q for %s: %w", f[4], f[0], err)
	}
	committerDate, err := time.Parse(time.RFC3339, f[7])
	if err != nil {
		return RawCommit{}, fmt.Errorf("invalid committer date %q for %s: %w", f[7], f[0], err)
	}

	return RawCommit{
		SHA:             strings.TrimSpace(f[0]),
		ShortSHA:        f[1],
		Author:          schema.Identity{Name: f[2], Email: f[3], Date: authorDate},
		Committer:       schema.Identity{Name: f[5], Email: f[6], Date: committerDate},
		Parents:         strings.Fields(f[8]),
		SignatureStatus: f[9],
		Signer:          f[10],
		SignKey:         f[11],
		Subject:         strings.TrimSpace(f[12]),
		Body:            strings.TrimSpace(f[13]),
		Files:           ParseNumstat([]byte(f[14])),
	}, nil
}

// ParseNumstat parses `--numstat` lines, ignoring anything that is not one.
func ParseNumstat(out []byte) []RawFileStat {
	var stats []RawFileStat
	for line := range strings.SplitSeq(string(out), "\n") {
		if stat, ok := ParseNumstatLine(line); ok {
			stats = append(stats, stat)
		}
	}
	return stats
}

// ParseNumstatLine parses "added<TAB>deleted<TAB>path". Binary files report "-" counts.
func ParseNumstatLine(line string) (RawFileStat, bool) {
	parts := strings.SplitN(strings.TrimRight(line, "\r"), "\t", 3)
	if len(parts) < 3 || parts[2] == "" {
		return RawFileStat{}, false
	}
	binary := parts[0] == "-" && parts[1] == "-"
	add, okAdd := parseChurnValue(parts[0])
	del, okDel := parseChurnValue(parts[1])
	if !okAdd || !okDel {
		return RawFileStat{}, false
	}
	return RawFileStat{
		Path:       unquotePath(parts[2]),
		Insertions: add,
		Deletions:  del,
		Binary:     binary,
	}, true
}

// parseChurnValue converts a churn string to int, handling "-" as 0.
func parseChurnValue(s string) (int, bool) {
	if s == "-" {
		return 0, true
	}
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// unquotePath undoes git's C-style quoting of paths with unusual characters.
func unquotePath(p string) string {
	if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
		if unquoted, err := strconv.Unquote(p); err == nil {
			return unquoted
		}
	}
	return p
}

// ParseBranchRefs parses ListBranches output. Symbolic refs like origin/HEAD are skipped.
func ParseBranchRefs(out []byte) []BranchRef {
	var refs []BranchRef
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		f := strings.Split(line, contract.FieldSep)
		if len(f) < 2 || f[0] == "" {
			continue
		}
		ref := parseRefName(f[0])
		if strings.HasSuffix(ref.Name, "/HEAD") || ref.Name == "HEAD" {
			continue
		}
		ref.SHA = f[1]
		if len(f) > 2 {
			if t, err := time.Parse(time.RFC3339, f[2]); err == nil {
				ref.LastCommit = t
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// ParseRefNames parses one full ref name per line, as printed by GetBranchesContaining.
func ParseRefNames(out []byte) []BranchRef {
	var refs []BranchRef
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ref := parseRefName(line)
		if strings.HasSuffix(ref.Name, "/HEAD") {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// parseRefName splits a full ref into its short name and remote flag.
func parseRefName(full string) BranchRef {
	switch {
	case strings.HasPrefix(full, "refs/heads/"):
		return BranchRef{FullRef: full, Name: strings.TrimPrefix(full, "refs/heads/")}
	case strings.HasPrefix(full, "refs/remotes/"):
		return BranchRef{FullRef: full, Name: strings.TrimPrefix(full, "refs/remotes/"), Remote: true}
	default:
		return BranchRef{FullRef: full, Name: full}
	}
}

// statusBranchRe matches "## main...origin/main [ahead 1, behind 2]".
var statusBranchRe = regexp.MustCompile(`^## (?:No commits yet on )?([^.\s]+(?:\.[^.\s]+)*)(?:\.\.\.\S+)?(?: \[(.*)\])?`)

// ParseStatus parses `git status --porcelain=v1 --branch` output.
func ParseStatus(out []byte) schema.RepoStatus {
	var st schema.RepoStatus
	for line := range strings.SplitSeq(string(out), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "## ") {
			parseStatusBranch(line, &st)
			continue
		}
		if len(line) < 2 {
			continue
		}
		x, y := line[0], line[1]
		if x == '?' && y == '?' {
			st.Untracked++
			continue
		}
		if x != ' ' && x != '!' {
			st.Staged++
		}
		if y != ' ' && y != '!' {
			st.Modified++
		}
	}
	st.Clean = st.Untracked == 0 && st.Staged == 0 && st.Modified == 0
	return st
}

// parseStatusBranch fills branch and tracking counts from the "## " header.
func parseStatusBranch(line string, st *schema.RepoStatus) {
	m := statusBranchRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	st.Branch = m[1]
	for part := range strings.SplitSeq(m[2], ",") {
		part = strings.TrimSpace(part)
		if n, ok := strings.CutPrefix(part, "ahead "); ok {
			st.Ahead, _ = strconv.Atoi(n)
		} else if n, ok := strings.CutPrefix(part, "behind "); ok {
			st.Behind, _ = strconv.Atoi(n)
		}
	}
}

// ParseFileSizes parses `git ls-tree -l` output into path -> size. Trees and
// submodules, which report "-" for size, are skipped.
func ParseFileSizes(out []byte) map[string]int64 {
	sizes := make(map[string]int64)
	for line := range strings.SplitSeq(string(out), "\n") {
		meta, path, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 4 {
			continue
		}
		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		sizes[unquotePath(path)] = size
	}
	return sizes
}
