package classify

import (
	"regexp"
	"strings"

	"github.com/huangsam/gitpulse/core/gitlog"
	"github.com/huangsam/gitpulse/schema"
)

// BranchType resolves the role of a branch from its name. Remote prefixes are ignored.
func BranchType(name string) schema.BranchType {
	short := name
	if i := strings.Index(short, "/"); i >= 0 && isRemoteName(short[:i]) {
		short = short[i+1:]
	}
	switch strings.ToLower(short) {
	case "main", "master", "trunk":
		return schema.MainBranch
	case "develop", "dev", "development":
		return schema.DevelopBranch
	}
	lower := strings.ToLower(short)
	switch {
	case strings.HasPrefix(lower, "hotfix/"):
		return schema.HotfixBranch
	case strings.HasPrefix(lower, "release/"):
		return schema.ReleaseBranch
	default:
		return schema.FeatureBranch
	}
}

// isRemoteName reports whether a leading path segment is a conventional remote name.
func isRemoteName(s string) bool {
	return s == "origin" || s == "upstream"
}

// PrimaryBranch picks the branch a commit is attributed to: the first local branch
// containing it, or fallback when none does.
func PrimaryBranch(containing []gitlog.BranchRef, fallback string) string {
	for _, ref := range containing {
		if !ref.Remote {
			return ref.Name
		}
	}
	return fallback
}

var (
	mergeBranchRe = regexp.MustCompile(`^Merge (?:remote-tracking )?branch '([^']+)'(?: of \S+)?(?: into (\S+))?`)
	mergePullRe   = regexp.MustCompile(`^Merge pull request #\d+ from [^/\s]+/(\S+)`)
)

// ParseMergeSubject extracts source and target branches from git's and GitHub's
// default merge messages. Either may be empty.
func ParseMergeSubject(subject string) (source, target string) {
	if m := mergeBranchRe.FindStringSubmatch(subject); m != nil {
		return m[1], m[2]
	}
	if m := mergePullRe.FindStringSubmatch(subject); m != nil {
		return m[1], ""
	}
	return "", ""
}

// BuildMergeInfo resolves where a merge came from using the branches that contain
// each parent, falling back to the merge subject for whatever containment leaves open.
// It returns nil for commits with fewer than two parents.
func BuildMergeInfo(parents []string, targetRefs, sourceRefs []gitlog.BranchRef, subject string) *schema.MergeInfo {
	if len(parents) < 2 {
		return nil
	}
	info := &schema.MergeInfo{ParentSHAs: parents}
	info.TargetBranch = PrimaryBranch(targetRefs, "")
	for _, ref := range sourceRefs {
		if ref.Name != info.TargetBranch && !ref.Remote {
			info.SourceBranch = ref.Name
			break
		}
	}

	msgSource, msgTarget := ParseMergeSubject(subject)
	if info.SourceBranch == "" {
		info.SourceBranch = msgSource
	}
	if info.TargetBranch == "" {
		info.TargetBranch = msgTarget
	}
	return info
}
