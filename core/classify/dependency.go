package classify

import (
	"fmt"
	"path"
	"strings"
)

// Thresholds of the dependency commit filter.
const (
	MaxInsertions        = 10000
	MaxFilesChanged      = 1000
	KeywordMinInsertions = 1000
	GeneratedFileRatio   = 0.5
)

// lockfileNames are package manager lockfiles matched by base name.
var lockfileNames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"Gemfile.lock":      {},
	"Cargo.lock":        {},
	"poetry.lock":       {},
	"composer.lock":     {},
	"go.sum":            {},
	"Pipfile.lock":      {},
}

// generatedDirs are vendored or build output directories matched as path segments.
var generatedDirs = []string{
	"node_modules",
	"vendor",
	"bower_components",
	"dist",
	"build",
	"out",
	".next",
	"__pycache__",
}

// minifiedSuffixes mark minified assets.
var minifiedSuffixes = []string{".min.js", ".min.css"}

// dependencyKeywords only count when the commit is also large.
var dependencyKeywords = []string{
	"package-lock",
	"yarn.lock",
	"npm install",
	"update dependencies",
	"lockfile",
	"node_modules",
	"pnpm-lock",
	"upgrade dependencies",
	"dependency update",
	"yarn upgrade",
	"go mod tidy",
	"bundle update",
}

// IsDependencyFile reports whether a path is a lockfile, vendored, minified or build output.
func IsDependencyFile(p string) bool {
	p = strings.TrimPrefix(p, "./")
	if _, ok := lockfileNames[path.Base(p)]; ok {
		return true
	}
	lower := strings.ToLower(p)
	for _, suffix := range minifiedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments[:len(segments)-1] {
		for _, dir := range generatedDirs {
			if seg == dir {
				return true
			}
		}
	}
	return false
}

// DependencyCheck is the input of the dependency commit filter.
type DependencyCheck struct {
	Message      string
	FilesChanged int
	Insertions   int
	Paths        []string
}

// IsDependencyCommit reports whether a commit is dominated by package manager output,
// and why. Such commits are not stored.
func IsDependencyCommit(c DependencyCheck) (bool, string) {
	if c.Insertions > MaxInsertions {
		return true, fmt.Sprintf("%d insertions exceed %d", c.Insertions, MaxInsertions)
	}
	if c.FilesChanged > MaxFilesChanged {
		return true, fmt.Sprintf("%d files changed exceed %d", c.FilesChanged, MaxFilesChanged)
	}
	if len(c.Paths) > 0 {
		matched := 0
		for _, p := range c.Paths {
			if IsDependencyFile(p) {
				matched++
			}
		}
		if ratio := float64(matched) / float64(len(c.Paths)); ratio > GeneratedFileRatio {
			return true, fmt.Sprintf("%d of %d files are lockfiles or generated", matched, len(c.Paths))
		}
	}
	if c.Insertions > KeywordMinInsertions {
		lower := strings.ToLower(c.Message)
		for _, kw := range dependencyKeywords {
			if strings.Contains(lower, kw) {
				return true, fmt.Sprintf("message mentions %q with %d insertions", kw, c.Insertions)
			}
		}
	}
	return false, ""
}
