package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// writeStatusTable renders the store connection, table sizes and projects.
func writeStatusTable(w io.Writer, status schema.StoreStatus) error {
	lastCommit := "never"
	if status.LastCommitTime > 0 {
		lastCommit = humanize.Time(time.Unix(status.LastCommitTime, 0))
	}
	version := strconv.FormatUint(uint64(status.SchemaVersion), 10)
	if status.Dirty {
		version += " (dirty)"
	}
	pairs := []keyValue{
		{"backend", "Backend", status.Backend},
		{"connected", "Connected", yesNo(status.Connected)},
		{"schema_version", "Schema version", version},
		{"projects", "Projects", strconv.Itoa(len(status.Projects))},
		{"last_commit", "Last commit", lastCommit},
	}
	for _, table := range sortedTables(status.TableSizes) {
		pairs = append(pairs, keyValue{table, table, humanize.Comma(status.TableSizes[table])})
	}
	if err := writeKeyValueTable(w, "Commit store", pairs); err != nil {
		return err
	}
	if len(status.Projects) == 0 {
		return nil
	}

	data := make([][]string, 0, len(status.Projects))
	for _, p := range status.Projects {
		data = append(data, []string{p.ID, p.RepoPath, p.DefaultBranch, orDash(p.RemoteURL), p.UpdatedAt.Format(contract.DateTimeFormat)})
	}
	return renderTable(w, []string{"Project", "Path", "Default", "Remote", "Updated"}, data)
}

// writeStatusCSV writes the status as metric,value rows.
func writeStatusCSV(w *csv.Writer, status schema.StoreStatus) error {
	records := [][]string{
		{"backend", status.Backend},
		{"connected", strconv.FormatBool(status.Connected)},
		{"schema_version", strconv.FormatUint(uint64(status.SchemaVersion), 10)},
		{"dirty", strconv.FormatBool(status.Dirty)},
		{"projects", strconv.Itoa(len(status.Projects))},
		{"last_commit_time", strconv.FormatInt(status.LastCommitTime, 10)},
	}
	for _, table := range sortedTables(status.TableSizes) {
		records = append(records, []string{fmt.Sprintf("rows_%s", table), strconv.FormatInt(status.TableSizes[table], 10)})
	}
	return writeCSVWithHeader(w, []string{"metric", "value"}, records)
}

func sortedTables(sizes map[string]int64) []string {
	tables := make([]string, 0, len(sizes))
	for t := range sizes {
		tables = append(tables, t)
	}
	slices.Sort(tables)
	return tables
}
