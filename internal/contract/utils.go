package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gitpulse/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	MediumColor   = color.New(color.FgYellow)              // MediumColor represents standard caution.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational signal.
)

// GetRiskTier maps a [0,1] file risk score onto the same tiers used for commits.
func GetRiskTier(risk float64) schema.RiskTier {
	switch {
	case risk >= 0.9:
		return schema.CriticalTier
	case risk >= 0.7:
		return schema.HighTier
	case risk >= 0.4:
		return schema.MediumTier
	default:
		return schema.LowTier
	}
}

// GetColorTier returns a colored tier label for console output (table).
func GetColorTier(tier schema.RiskTier) string {
	text := strings.ToUpper(string(tier[:1])) + string(tier[1:])
	switch tier {
	case schema.CriticalTier:
		return CriticalColor.Sprint(text)
	case schema.HighTier:
		return HighColor.Sprint(text)
	case schema.MediumTier:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the file to write output to, falling back to os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// maxWidth must exceed 3 to leave room for the prefix.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
