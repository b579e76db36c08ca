package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Layouts used when printing times.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago" or "3 hours ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// lookbackDurationRe captures "N [units]", e.g. "30 days".
var lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// absoluteLayouts are tried in order before any relative or natural language parsing.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// naturalParser understands English phrases like "last monday" or "yesterday".
var naturalParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default:
		return now.Add(time.Duration(-value) * time.Minute), nil
	}
}

// ParseLookbackDuration converts strings like "3 months" or "720h" into a time.Duration.
// Months are 30 days and years are 365 days.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("lookback duration must be positive")
		}
		return d, nil
	}

	matches := lookbackDurationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid lookback duration format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	const day = 24 * time.Hour
	var d time.Duration
	switch matches[2] {
	case "year":
		d = time.Duration(value) * 365 * day
	case "month":
		d = time.Duration(value) * 30 * day
	case "week":
		d = time.Duration(value) * 7 * day
	case "day":
		d = time.Duration(value) * day
	case "hour":
		d = time.Duration(value) * time.Hour
	default:
		d = time.Duration(value) * time.Minute
	}
	if d == 0 {
		return 0, errors.New("lookback duration must be positive")
	}
	return d, nil
}

// ParseSince resolves a user supplied point in time. It accepts absolute layouts,
// "N units ago", a bare lookback like "30 days", and natural language such as
// "last monday". An empty string yields nil.
func ParseSince(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	if t, err := ParseRelativeTime(s, now); err == nil {
		return &t, nil
	}
	if d, err := ParseLookbackDuration(s); err == nil {
		t := now.Add(-d)
		return &t, nil
	}
	if r, err := naturalParser.Parse(s, now); err == nil && r != nil {
		t := r.Time
		return &t, nil
	}
	return nil, fmt.Errorf("unrecognized time %q. Expected ISO8601, 'N units ago', 'N units' or a phrase like 'last monday'", s)
}

// DaysBetween returns the fractional number of days from start to end.
func DaysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}
