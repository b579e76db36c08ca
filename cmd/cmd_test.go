package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSessions(t *testing.T) {
	path := writeTempFile(t, `[
		{"session_id": "s1", "started_at": "2024-03-01T09:00:00Z", "ended_at": "2024-03-01T11:00:00Z", "title": "auth"},
		{"started_at": "2024-03-01T13:00:00Z", "project_id": "other", "author_email": "dev@example.com"}
	]`)

	sessions, err := readSessions(path, "proj")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "proj", sessions[0].ProjectID)
	require.NotNil(t, sessions[0].EndedAt)

	assert.NotEmpty(t, sessions[1].ID, "missing ids are generated")
	assert.Equal(t, "other", sessions[1].ProjectID)
	assert.Nil(t, sessions[1].EndedAt)
}

func TestReadSessions_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"not json", `{`, "invalid session file"},
		{"missing start", `[{"session_id": "s1"}]`, "has no started_at"},
		{"ends before start", `[{"session_id": "s1", "started_at": "2024-03-01T09:00:00Z", "ended_at": "2024-03-01T08:00:00Z"}]`, "ends before it starts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readSessions(writeTempFile(t, tt.content), "proj")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCommitFilter(t *testing.T) {
	viper.Set("project", "proj")
	defer viper.Set("project", "")

	flags := queryCmd.Flags()
	require.NoError(t, flags.Set("type", "fix,Docs"))
	require.NoError(t, flags.Set("merge", "false"))
	require.NoError(t, flags.Set("since", "2024-01-01"))
	require.NoError(t, flags.Set("offset", "10"))
	defer func() {
		_ = flags.Set("merge", "any")
		_ = flags.Set("since", "")
		_ = flags.Set("offset", "0")
	}()

	filter, err := commitFilter(queryCmd)
	require.NoError(t, err)
	assert.Equal(t, "proj", filter.ProjectID)
	assert.Equal(t, []schema.CommitType{schema.FixCommit, schema.DocsCommit}, filter.Types)
	require.NotNil(t, filter.Merge)
	assert.False(t, *filter.Merge)
	require.NotNil(t, filter.Since)
	assert.Equal(t, 2024, filter.Since.Year())
	assert.Nil(t, filter.Until)
	assert.Equal(t, 10, filter.Offset)

	require.NoError(t, flags.Set("merge", "sometimes"))
	_, err = commitFilter(queryCmd)
	assert.ErrorContains(t, err, "invalid --merge")
}

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf, schema.PostgreSQLBackend)
	out := buf.String()
	assert.Contains(t, out, "gitpulse "+version)
	assert.Contains(t, out, "Schema:  v2 (postgresql)")

	buf.Reset()
	writeVersion(&buf, "none")
	assert.Contains(t, buf.String(), "Schema:  unknown")
}
