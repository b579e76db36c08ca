package algo

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankHotspots(t *testing.T) {
	hotspots := []schema.Hotspot{
		{FilePath: "b.go", ChangeCount: 5, ContributorCount: 1},
		{FilePath: "a.go", ChangeCount: 5, ContributorCount: 1},
		{FilePath: "c.go", ChangeCount: 5, ContributorCount: 3},
		{FilePath: "d.go", ChangeCount: 9, ContributorCount: 1},
	}
	ranked := RankHotspots(hotspots, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "d.go", ranked[0].FilePath)
	assert.Equal(t, "c.go", ranked[1].FilePath)
	assert.Equal(t, "a.go", ranked[2].FilePath)

	assert.Len(t, RankHotspots(hotspots, 0), 4)
	assert.Len(t, RankHotspots(hotspots, 10), 4)
}

func TestBuildHotspots(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	activity := []schema.FileActivity{
		{FilePath: "core/engine.go", ChangeCount: 30, ContributorCount: 6, LastChanged: now.Add(-48 * time.Hour), TotalChurn: 3000},
		{FilePath: "README.md", ChangeCount: 4, ContributorCount: 2, LastChanged: now.Add(-30 * 24 * time.Hour), TotalChurn: 40},
		{FilePath: "once.go", ChangeCount: 2, ContributorCount: 1, LastChanged: now, TotalChurn: 5},
	}
	hotspots := BuildHotspots(activity, 3, 50, now)
	require.Len(t, hotspots, 2)

	top := hotspots[0]
	assert.Equal(t, "core/engine.go", top.FilePath)
	assert.Equal(t, 100.0, top.AvgChangeSize)
	assert.Equal(t, 2.0, top.DaysSinceLastChange)
	// 0.5 changes + 0.2 contributors + 0.2 avg size + 0.1 recent
	assert.Equal(t, 1.0, top.RiskScore)

	assert.Equal(t, "README.md", hotspots[1].FilePath)
	assert.Equal(t, 0.0, hotspots[1].RiskScore)

	var summary schema.HotspotSummary
	SummarizeHotspots(hotspots, &summary)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.HighRisk)
	assert.Equal(t, 0.5, summary.AverageRisk)
}

func TestSummarizeHotspots_Empty(t *testing.T) {
	summary := schema.HotspotSummary{HighRisk: 4, AverageRisk: 0.9}
	SummarizeHotspots(nil, &summary)
	assert.Zero(t, summary.TotalFiles)
	assert.Zero(t, summary.HighRisk)
	assert.Zero(t, summary.AverageRisk)
}
