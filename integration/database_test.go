//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/internal/testutil"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGitpulseWithMySQL runs the CLI against a MySQL backend.
func TestGitpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitpulse?parseTime=true", host, port.Port())
	runBackendScenario(t, []string{"GITPULSE_DB_BACKEND=mysql", "GITPULSE_DB_CONNECT=" + connStr})
}

// TestGitpulseWithPostgres runs the CLI against a PostgreSQL backend.
func TestGitpulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, []string{"GITPULSE_DB_BACKEND=postgresql", "GITPULSE_DB_CONNECT=" + connStr})
}

// runBackendScenario exercises migrate, init, collect, query, status and clear.
func runBackendScenario(t *testing.T, env []string) {
	t.Helper()
	repo := testutil.NewGitRepo(t)
	repo.WriteFile("svc/handler.go", "package svc\n")
	repo.Commit("feat: add handler")
	repo.WriteFile("svc/handler.go", "package svc\n\nfunc Handle() {}\n")
	repo.Commit("fix: export handler")

	_, err := runGitpulse(t, repo.Dir, env, "db", "migrate")
	require.NoError(t, err)

	_, err = runGitpulse(t, repo.Dir, env, "init", ".", "--project", "svc")
	require.NoError(t, err)

	// Collect is idempotent against the same store
	_, err = runGitpulse(t, repo.Dir, env, "collect", "--project", "svc")
	require.NoError(t, err)

	out, err := runGitpulse(t, repo.Dir, env, "query", "--project", "svc", "--type", "fix", "--output", "json")
	require.NoError(t, err)
	var res schema.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.TotalCount)

	out, err = runGitpulse(t, repo.Dir, env, "query", "--project", "svc", "--output", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	gitCount, err := strconv.Atoi(repo.Git("rev-list", "--count", "HEAD"))
	require.NoError(t, err)
	assert.Equal(t, gitCount, res.TotalCount)

	_, err = runGitpulse(t, repo.Dir, env, "db", "status")
	require.NoError(t, err)

	_, err = runGitpulse(t, repo.Dir, env, "db", "clear", "--project", "svc")
	require.NoError(t, err)
}
