package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRiskTier(t *testing.T) {
	tests := []struct {
		risk float64
		want schema.RiskTier
	}{
		{0.0, schema.LowTier},
		{0.39, schema.LowTier},
		{0.4, schema.MediumTier},
		{0.69, schema.MediumTier},
		{0.7, schema.HighTier},
		{0.9, schema.CriticalTier},
		{1.0, schema.CriticalTier},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetRiskTier(tt.risk), "risk %v", tt.risk)
	}
}

func TestGetColorTier(t *testing.T) {
	assert.Contains(t, GetColorTier(schema.LowTier), "Low")
	assert.Contains(t, GetColorTier(schema.MediumTier), "Medium")
	assert.Contains(t, GetColorTier(schema.HighTier), "High")
	assert.Contains(t, GetColorTier(schema.CriticalTier), "Critical")
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...c/d.go", TruncatePath("a/b/c/d.go", 9))
	assert.Equal(t, "a/b/c/d.go", TruncatePath("a/b/c/d.go", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, logrus.InfoLevel, "json")
	logger.WithField("project", "demo").Info("collected")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), `"project":"demo"`)
	assert.NotContains(t, buf.String(), "hidden")
}
