package schema

import (
	"strings"
	"unicode"
)

// ShortSHALength is the number of hex characters kept by ShortSHA.
const ShortSHALength = 7

// ShortSHA trims a commit hash to its display form.
func ShortSHA(sha string) string {
	if len(sha) <= ShortSHALength {
		return sha
	}
	return sha[:ShortSHALength]
}

// AbbreviateName formats "Samuel Huang" to "Samuel H" for narrow table columns.
// Bot accounts and single-word names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return strings.Join(strings.Fields(trimmed), " ")
	}

	var parts []string
	for _, p := range strings.Fields(strings.Trim(trimmed, "()\"'`")) {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			parts = append(parts, cp)
		}
	}

	switch len(parts) {
	case 0:
		return trimmed
	case 1:
		return parts[0]
	default:
		last := []rune(parts[len(parts)-1])
		return parts[0] + " " + string(last[0])
	}
}

// Dedupe returns values with duplicates removed, keeping first occurrences in order.
func Dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
