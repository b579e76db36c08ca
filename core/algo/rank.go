package algo

import (
	"cmp"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// HighRiskThreshold is the file risk at which a hotspot counts as high risk.
const HighRiskThreshold = 0.7

// BuildHotspots scores every file that changed at least minChanges times,
// ranks them and returns the top limit. A non-positive limit returns all.
func BuildHotspots(activity []schema.FileActivity, minChanges, limit int, now time.Time) []schema.Hotspot {
	hotspots := make([]schema.Hotspot, 0, len(activity))
	for _, a := range activity {
		if a.ChangeCount < minChanges || a.ChangeCount == 0 {
			continue
		}
		avg := float64(a.TotalChurn) / float64(a.ChangeCount)
		days := max(now.Sub(a.LastChanged).Hours()/24, 0)
		hotspots = append(hotspots, schema.Hotspot{
			FilePath:            a.FilePath,
			ChangeCount:         a.ChangeCount,
			ContributorCount:    a.ContributorCount,
			LastChanged:         a.LastChanged,
			AvgChangeSize:       Round2(avg),
			DaysSinceLastChange: Round2(days),
			RiskScore: FileRisk(FileRiskInput{
				ChangeCount:         a.ChangeCount,
				ContributorCount:    a.ContributorCount,
				AvgChangeSize:       avg,
				DaysSinceLastChange: days,
			}),
		})
	}
	return RankHotspots(hotspots, limit)
}

// RankHotspots sorts by change count, then contributor count, both descending,
// and returns the top limit. Ties fall back to the file path.
func RankHotspots(hotspots []schema.Hotspot, limit int) []schema.Hotspot {
	slices.SortStableFunc(hotspots, func(a, b schema.Hotspot) int {
		return cmp.Or(
			cmp.Compare(b.ChangeCount, a.ChangeCount),
			cmp.Compare(b.ContributorCount, a.ContributorCount),
			cmp.Compare(a.FilePath, b.FilePath),
		)
	})
	if limit > 0 && len(hotspots) > limit {
		return hotspots[:limit]
	}
	return hotspots
}

// SummarizeHotspots fills the totals of a hotspot summary.
func SummarizeHotspots(hotspots []schema.Hotspot, summary *schema.HotspotSummary) {
	summary.TotalFiles = len(hotspots)
	summary.HighRisk = 0
	var total float64
	for _, h := range hotspots {
		total += h.RiskScore
		if h.RiskScore >= HighRiskThreshold {
			summary.HighRisk++
		}
	}
	summary.AverageRisk = 0
	if len(hotspots) > 0 {
		summary.AverageRisk = Round2(total / float64(len(hotspots)))
	}
}
