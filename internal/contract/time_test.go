package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"plural months mixed case", "3 MoNtHs AgO", fixedNow.AddDate(0, -3, 0), false},
		{"singular week", "1 Week Ago", fixedNow.Add(-7 * 24 * time.Hour), false},
		{"hours", "48 hours ago", fixedNow.Add(-48 * time.Hour), false},
		{"minutes", "90 minutes ago", fixedNow.Add(-90 * time.Minute), false},
		{"missing ago", "2 years", time.Time{}, true},
		{"bad unit", "4 decades ago", time.Time{}, true},
		{"non-numeric", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseLookbackDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"go duration", "720h", 720 * time.Hour, false},
		{"days", "7 days", 7 * day, false},
		{"weeks", "4 weeks", 28 * day, false},
		{"month approx", "1 month", 30 * day, false},
		{"year approx", "2 years", 730 * day, false},
		{"mixed case", "3 MoNtHs", 90 * day, false},
		{"extra space", " 1  day ", day, false},
		{"zero", "0 days", 0, true},
		{"negative go duration", "-5h", 0, true},
		{"missing unit", "3", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLookbackDuration(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSince(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		got, err := ParseSince("  ", fixedNow)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := ParseSince("2025-10-01T12:00:00Z", fixedNow)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Equal(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("date only", func(t *testing.T) {
		got, err := ParseSince("2025-10-01", fixedNow)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("relative", func(t *testing.T) {
		got, err := ParseSince("2 days ago", fixedNow)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, fixedNow.Add(-48*time.Hour), *got)
	})

	t.Run("bare lookback", func(t *testing.T) {
		got, err := ParseSince("24 hours", fixedNow)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, fixedNow.Add(-24*time.Hour), *got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseSince("qwertyuiop", fixedNow)
		assert.Error(t, err)
	})
}

func TestDaysBetween(t *testing.T) {
	assert.InDelta(t, 1.5, DaysBetween(fixedNow, fixedNow.Add(36*time.Hour)), 1e-9)
	assert.InDelta(t, -1.0, DaysBetween(fixedNow, fixedNow.Add(-24*time.Hour)), 1e-9)
}

func FuzzParseRelativeTime(f *testing.F) {
	f.Add("1 day ago")
	f.Add("2 weeks ago")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		_, _ = ParseRelativeTime(s, fixedNow)
	})
}
