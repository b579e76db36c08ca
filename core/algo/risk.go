// Package algo scores file risk and commit complexity and ranks hotspots.
package algo

import "math"

// FileRiskInput is the change history summary a file risk score is computed from.
type FileRiskInput struct {
	ChangeCount         int
	ContributorCount    int
	AvgChangeSize       float64
	DaysSinceLastChange float64
}

// FileRisk returns a score in [0, 1] rounded to two decimals. Each threshold crossed
// adds a fixed step.
func FileRisk(in FileRiskInput) float64 {
	var risk float64

	switch {
	case in.ChangeCount > 50:
		risk += 0.3 + 0.2 + 0.2
	case in.ChangeCount > 25:
		risk += 0.3 + 0.2
	case in.ChangeCount > 10:
		risk += 0.3
	}

	switch {
	case in.ContributorCount > 10:
		risk += 0.2 + 0.1
	case in.ContributorCount > 5:
		risk += 0.2
	}

	switch {
	case in.AvgChangeSize > 200:
		risk += 0.2 + 0.2
	case in.AvgChangeSize > 50:
		risk += 0.2
	}

	if in.DaysSinceLastChange < 7 {
		risk += 0.1
	}

	return Round2(clamp01(risk))
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
