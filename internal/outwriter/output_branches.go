package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/schema"
)

// writeBranchTable renders branches in the order the store returned them.
func writeBranchTable(w io.Writer, branches []schema.Branch) error {
	data := make([][]string, 0, len(branches))
	for _, b := range branches {
		name := b.Name
		if b.IsDefault {
			name = "* " + name
		}
		data = append(data, []string{
			name,
			string(b.Type),
			yesNo(b.IsRemote),
			humanize.Comma(int64(b.CommitCount)),
			formatSince(b.FirstCommitDate),
			formatSince(b.LastCommitDate),
			schema.ShortSHA(b.CurrentSHA),
		})
	}
	return renderTable(w, []string{"Branch", "Type", "Remote", "Commits", "First commit", "Last commit", "SHA"}, data)
}

// writeBranchesCSV writes one row per branch.
func writeBranchesCSV(w *csv.Writer, branches []schema.Branch) error {
	header := []string{
		"branch_name",
		"branch_type",
		"is_default",
		"is_remote",
		"commit_count",
		"first_commit_date",
		"last_commit_date",
		"current_sha",
	}
	records := make([][]string, 0, len(branches))
	for _, b := range branches {
		records = append(records, []string{
			b.Name,
			string(b.Type),
			strconv.FormatBool(b.IsDefault),
			strconv.FormatBool(b.IsRemote),
			strconv.Itoa(b.CommitCount),
			formatDate(b.FirstCommitDate),
			formatDate(b.LastCommitDate),
			b.CurrentSHA,
		})
	}
	return writeCSVWithHeader(w, header, records)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// formatSince is a relative time, or "-" for the zero time.
func formatSince(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// formatDate is RFC3339 in UTC, or empty for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
