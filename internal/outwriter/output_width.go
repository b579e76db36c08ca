package outwriter

import (
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
	"golang.org/x/term"
)

// Width bounds of the one flexible column (path or message) in a table.
const (
	minFlexWidth = 15
	maxFlexWidth = 70
)

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// flexWidth returns the width left for the flexible column once reserved columns,
// borders and padding are subtracted, clamped to a readable range.
func flexWidth(cfg *contract.Config, reserved int) int {
	available := terminalWidth(cfg) - reserved - 20
	return min(max(available, minFlexWidth), maxFlexWidth)
}
