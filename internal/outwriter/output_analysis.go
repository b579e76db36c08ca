package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// fileTableReserved is the width taken by every file change column except the path.
const fileTableReserved = 65

// writeAnalysisTable renders the commit header, its complexity and its files.
func writeAnalysisTable(w io.Writer, res schema.CommitAnalysis, cfg *contract.Config) error {
	c := res.Commit
	fmtFloat := createFormatter(max(cfg.Precision, 3))
	pairs := []keyValue{
		{"commit_sha", "Commit", c.SHA},
		{"author", "Author", fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)},
		{"author_date", "Date", fmt.Sprintf("%s (%s)", c.Author.Date.Format(contract.DateTimeFormat), humanize.Time(c.Author.Date))},
		{"branch", "Branch", c.BranchName},
		{"type", "Type", describeType(c)},
		{"message", "Message", c.Message},
		{"score", "Complexity", fmt.Sprintf("%s (%s)", fmtFloat(res.Complexity.Score), contract.GetColorTier(res.Complexity.Tier))},
	}
	if len(res.Complexity.Factors) > 0 {
		pairs = append(pairs, keyValue{"factors", "Factors", strings.Join(res.Complexity.Factors, ", ")})
	}
	if len(res.Complexity.Languages) > 0 {
		pairs = append(pairs, keyValue{"languages", "Languages", strings.Join(res.Complexity.Languages, ", ")})
	}
	if c.Merge != nil && (c.Merge.SourceBranch != "" || c.Merge.TargetBranch != "") {
		pairs = append(pairs, keyValue{"merge", "Merge", fmt.Sprintf("%s -> %s", orDash(c.Merge.SourceBranch), orDash(c.Merge.TargetBranch))})
	}
	if tickets := c.Analysis.Tickets; len(tickets) > 0 {
		pairs = append(pairs, keyValue{"tickets", "Tickets", strings.Join(tickets, ", ")})
	}
	if c.Signature.Status != "" && c.Signature.Status != "none" {
		pairs = append(pairs, keyValue{"signature", "Signature", describeSignature(c.Signature)})
	}
	if err := writeKeyValueTable(w, "Commit analysis", pairs); err != nil {
		return err
	}

	width := flexWidth(cfg, fileTableReserved)
	data := make([][]string, 0, len(res.FileChanges))
	for _, fc := range res.FileChanges {
		path := fc.FilePath
		if fc.OldFilePath != "" {
			path = fc.OldFilePath + " => " + fc.FilePath
		}
		lines := fmt.Sprintf("+%d/-%d", fc.LinesAdded, fc.LinesRemoved)
		if fc.IsBinary {
			lines = "binary"
		}
		data = append(data, []string{
			contract.TruncatePath(path, width),
			string(fc.ChangeType),
			lines,
			string(fc.Category),
			orDash(fc.Language),
			string(fc.Magnitude),
			fileFlags(fc),
		})
	}
	return renderTable(w, []string{"Path", "Change", "Lines", "Category", "Language", "Magnitude", "Flags"}, data)
}

// writeAnalysisCSV writes one row per file change with the commit level columns repeated.
func writeAnalysisCSV(w *csv.Writer, res schema.CommitAnalysis, fmtFloat func(float64) string) error {
	header := []string{
		"commit_sha",
		"commit_type",
		"complexity_score",
		"tier",
		"file_path",
		"old_file_path",
		"change_type",
		"lines_added",
		"lines_removed",
		"is_binary",
		"category",
		"language",
		"magnitude",
		"is_test",
		"is_configuration",
		"is_documentation",
	}
	records := make([][]string, 0, len(res.FileChanges))
	for _, fc := range res.FileChanges {
		records = append(records, []string{
			res.Commit.SHA,
			string(res.Commit.Type),
			fmtFloat(res.Complexity.Score),
			string(res.Complexity.Tier),
			fc.FilePath,
			fc.OldFilePath,
			string(fc.ChangeType),
			strconv.Itoa(fc.LinesAdded),
			strconv.Itoa(fc.LinesRemoved),
			strconv.FormatBool(fc.IsBinary),
			string(fc.Category),
			fc.Language,
			string(fc.Magnitude),
			strconv.FormatBool(fc.IsTest),
			strconv.FormatBool(fc.IsConfiguration),
			strconv.FormatBool(fc.IsDocumentation),
		})
	}
	return writeCSVWithHeader(w, header, records)
}

func describeType(c schema.Commit) string {
	var parts []string
	parts = append(parts, string(c.Type))
	if c.Analysis.Scope != "" {
		parts[0] += "(" + c.Analysis.Scope + ")"
	}
	if c.BreakingChange {
		parts = append(parts, "breaking")
	}
	if c.IsMerge {
		parts = append(parts, "merge")
	}
	return strings.Join(parts, ", ")
}

func describeSignature(sig schema.SignatureInfo) string {
	s := sig.Status
	if sig.Signer != "" {
		s += " by " + sig.Signer
	}
	if sig.Verified {
		s += " (verified)"
	}
	return s
}

// fileFlags lists the test, config, docs and generated markers of a file change.
func fileFlags(fc schema.FileChange) string {
	var flags []string
	if fc.IsTest {
		flags = append(flags, "test")
	}
	if fc.IsConfiguration {
		flags = append(flags, "config")
	}
	if fc.IsDocumentation {
		flags = append(flags, "docs")
	}
	if fc.IsGenerated {
		flags = append(flags, "generated")
	}
	return orDash(strings.Join(flags, ","))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
