package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// commitTableReserved is the width taken by every commit column except the message.
const commitTableReserved = 75

// writeCommitTable renders commits newest first as they were given.
func writeCommitTable(w io.Writer, commits []schema.Commit, cfg *contract.Config) error {
	width := flexWidth(cfg, commitTableReserved)
	data := make([][]string, 0, len(commits))
	for _, c := range commits {
		typ := string(c.Type)
		if c.BreakingChange {
			typ += "!"
		}
		data = append(data, []string{
			schema.ShortSHA(c.SHA),
			humanize.Time(c.Author.Date),
			schema.AbbreviateName(c.Author.Name),
			typ,
			c.BranchName,
			fmt.Sprintf("+%d/-%d", c.Insertions, c.Deletions),
			truncateText(c.Message, width),
		})
	}
	return renderTable(w, []string{"SHA", "When", "Author", "Type", "Branch", "Lines", "Message"}, data)
}

// writeQueryTable renders one page of query results followed by the summary.
func writeQueryTable(w io.Writer, res schema.QueryResult, filter schema.CommitFilter, cfg *contract.Config) error {
	if err := writeCommitTable(w, res.Commits, cfg); err != nil {
		return err
	}
	from := 0
	if len(res.Commits) > 0 {
		from = filter.Offset + 1
	}
	if _, err := fmt.Fprintf(w, "Showing %d-%d of %s commits\n",
		from, filter.Offset+len(res.Commits), humanize.Comma(int64(res.TotalCount))); err != nil {
		return err
	}
	s := res.Summary
	_, err := fmt.Fprintf(w, "Types: %s | merges: %d | breaking: %d | authors: %d | +%s/-%s\n",
		formatTypeCounts(s.ByType), s.MergeCount, s.BreakingCount, s.Authors,
		humanize.Comma(int64(s.Insertions)), humanize.Comma(int64(s.Deletions)))
	return err
}

// formatTypeCounts lists non-zero type counts in display order.
func formatTypeCounts(counts map[schema.CommitType]int) string {
	var parts []string
	for _, t := range schema.AllCommitTypes {
		if n := counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", t, n))
		}
	}
	// types outside the known set still show up, last and sorted
	var extra []string
	for t, n := range counts {
		if !t.Valid() && n > 0 {
			extra = append(extra, fmt.Sprintf("%s=%d", t, n))
		}
	}
	slices.Sort(extra)
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// writeCommitsCSV writes one row per commit.
func writeCommitsCSV(w *csv.Writer, commits []schema.Commit) error {
	header := []string{
		"commit_sha",
		"author_name",
		"author_email",
		"author_date",
		"commit_type",
		"breaking_change",
		"is_merge",
		"branch_name",
		"files_changed",
		"insertions",
		"deletions",
		"tags",
		"message",
	}
	records := make([][]string, 0, len(commits))
	for _, c := range commits {
		records = append(records, []string{
			c.SHA,
			c.Author.Name,
			c.Author.Email,
			c.Author.Date.UTC().Format(time.RFC3339),
			string(c.Type),
			strconv.FormatBool(c.BreakingChange),
			strconv.FormatBool(c.IsMerge),
			c.BranchName,
			strconv.Itoa(c.FilesChanged),
			strconv.Itoa(c.Insertions),
			strconv.Itoa(c.Deletions),
			strings.Join(c.Tags, "|"),
			c.Message,
		})
	}
	return writeCSVWithHeader(w, header, records)
}

// truncateText shortens s to maxWidth runes with a trailing ellipsis.
func truncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth || maxWidth <= 3 {
		return s
	}
	return string(runes[:maxWidth-3]) + "..."
}
