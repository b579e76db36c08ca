package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// hotspotTableReserved is the width taken by every hotspot column except the path.
const hotspotTableReserved = 70

// writeHotspotTable renders ranked hotspots and a one line summary.
func writeHotspotTable(w io.Writer, res schema.HotspotResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	width := flexWidth(cfg, hotspotTableReserved)
	data := make([][]string, 0, len(res.Hotspots))
	for i, h := range res.Hotspots {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(h.FilePath, width),
			strconv.Itoa(h.ChangeCount),
			strconv.Itoa(h.ContributorCount),
			fmtFloat(h.AvgChangeSize),
			humanize.Time(h.LastChanged),
			fmtFloat(h.RiskScore),
			contract.GetColorTier(contract.GetRiskTier(h.RiskScore)),
		})
	}
	if err := renderTable(w, []string{"Rank", "Path", "Changes", "Contrib", "Avg Size", "Last Change", "Risk", "Tier"}, data); err != nil {
		return err
	}

	s := res.Summary
	window := "all history"
	if s.Since != nil {
		window = "since " + s.Since.Format(contract.DateFormat)
	}
	_, err := fmt.Fprintf(w, "Showing %d hotspots over %s commits (%s, min changes %d) | high risk: %d | average risk: %s\n",
		s.TotalFiles, humanize.Comma(int64(s.CommitsInSet)), window, s.MinChanges, s.HighRisk, fmtFloat(s.AverageRisk))
	return err
}

// writeHotspotsCSV writes one row per hotspot.
func writeHotspotsCSV(w *csv.Writer, hotspots []schema.Hotspot, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"file_path",
		"change_count",
		"contributor_count",
		"avg_change_size",
		"last_changed",
		"days_since_last_change",
		"risk_score",
		"tier",
	}
	records := make([][]string, 0, len(hotspots))
	for i, h := range hotspots {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			h.FilePath,
			strconv.Itoa(h.ChangeCount),
			strconv.Itoa(h.ContributorCount),
			fmtFloat(h.AvgChangeSize),
			formatDate(h.LastChanged),
			fmtFloat(h.DaysSinceLastChange),
			fmtFloat(h.RiskScore),
			string(contract.GetRiskTier(h.RiskScore)),
		})
	}
	return writeCSVWithHeader(w, header, records)
}
