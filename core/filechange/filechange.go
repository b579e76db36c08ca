// Package filechange turns per-file diff stats into typed change records.
package filechange

import (
	"path"
	"regexp"
	"strings"

	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/core/gitlog"
	"github.com/huangsam/gitpulse/schema"
)

// renameArrow separates old and new paths in numstat rename entries.
const renameArrow = " => "

// Analyze classifies one numstat entry. One-sided line counts win over the
// rename form: a renamed path with only insertions is added, with only
// deletions is deleted. Old and new paths are split for every rename form.
func Analyze(stat gitlog.RawFileStat) schema.FileChange {
	fc := schema.FileChange{
		FilePath:     stat.Path,
		LinesAdded:   stat.Insertions,
		LinesRemoved: stat.Deletions,
		IsBinary:     stat.Binary,
		ChangeType:   changeTypeFromLines(stat.Insertions, stat.Deletions),
	}

	if strings.Contains(stat.Path, renameArrow) {
		if oldPath, newPath := ParseRenamePath(stat.Path); newPath != "" {
			fc.FilePath = newPath
			fc.OldFilePath = oldPath
			if fc.ChangeType == schema.ChangeModified {
				fc.ChangeType = schema.ChangeRenamed
			}
		}
	}

	fc.Category = Category(fc.FilePath)
	fc.Language = Language(fc.FilePath)
	fc.Magnitude = MagnitudeOf(fc.ChangeSize())
	fc.IsConfiguration = matchesAny(configPatterns, fc.FilePath)
	fc.IsDocumentation = matchesAny(docPatterns, fc.FilePath)
	fc.IsTest = matchesAny(testPatterns, fc.FilePath)
	fc.IsGenerated = matchesAny(generatedPatterns, fc.FilePath) || classify.IsDependencyFile(fc.FilePath)
	return fc
}

// AnalyzeAll classifies every entry of a commit. Entries resolving to the same
// path are merged so each path appears once.
func AnalyzeAll(stats []gitlog.RawFileStat) []schema.FileChange {
	out := make([]schema.FileChange, 0, len(stats))
	index := make(map[string]int, len(stats))
	for _, stat := range stats {
		fc := Analyze(stat)
		if i, ok := index[fc.FilePath]; ok {
			merged := &out[i]
			merged.LinesAdded += fc.LinesAdded
			merged.LinesRemoved += fc.LinesRemoved
			merged.IsBinary = merged.IsBinary || fc.IsBinary
			merged.Magnitude = MagnitudeOf(merged.ChangeSize())
			continue
		}
		index[fc.FilePath] = len(out)
		out = append(out, fc)
	}
	return out
}

func changeTypeFromLines(insertions, deletions int) schema.ChangeType {
	switch {
	case insertions > 0 && deletions == 0:
		return schema.ChangeAdded
	case insertions == 0 && deletions > 0:
		return schema.ChangeDeleted
	default:
		return schema.ChangeModified
	}
}

// ParseRenamePath extracts old and new paths from a rename string, either
// "old => new" or "prefix{old => new}suffix". It returns empty strings when the
// input is not a well formed rename.
func ParseRenamePath(p string) (string, string) {
	if !strings.Contains(p, "{") {
		parts := strings.SplitN(p, renameArrow, 2)
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
		return "", ""
	}

	braceStart := strings.Index(p, "{")
	braceEnd := strings.Index(p, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}

	prefix := p[:braceStart]
	renamePart := p[braceStart+1 : braceEnd]
	suffix := p[braceEnd+1:]

	parts := strings.SplitN(renamePart, renameArrow, 2)
	if len(parts) != 2 {
		return "", ""
	}
	return joinRenamePath(prefix, parts[0], suffix), joinRenamePath(prefix, parts[1], suffix)
}

// joinRenamePath rebuilds a path around one side of a brace rename. An empty side
// such as "{ => lib}" leaves a doubled or leading slash behind, which is collapsed.
func joinRenamePath(prefix, middle, suffix string) string {
	joined := prefix + middle + suffix
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return strings.TrimPrefix(joined, "/")
}

// Category resolves the file category from the base name, then the extension.
func Category(p string) schema.FileCategory {
	base := path.Base(p)
	if c, ok := nameCategories[base]; ok {
		return c
	}
	if c, ok := extCategories[strings.ToLower(path.Ext(base))]; ok {
		return c
	}
	return schema.OtherCategory
}

// Language resolves the language name, or "" when unknown.
func Language(p string) string {
	base := path.Base(p)
	if l, ok := nameLanguages[base]; ok {
		return l
	}
	return extLanguages[strings.ToLower(path.Ext(base))]
}

// MagnitudeOf buckets a change size (lines added plus removed).
func MagnitudeOf(size int) schema.Magnitude {
	switch {
	case size <= 0:
		return schema.MagnitudeNone
	case size <= 5:
		return schema.MagnitudeMinimal
	case size <= 25:
		return schema.MagnitudeSmall
	case size <= 100:
		return schema.MagnitudeMedium
	case size <= 500:
		return schema.MagnitudeLarge
	default:
		return schema.MagnitudeMassive
	}
}

func matchesAny(patterns []*regexp.Regexp, p string) bool {
	for _, re := range patterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}
