// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine is the set of engine operations exposed as tools.
type Engine interface {
	InitializeRepository(ctx context.Context, projectID string, path string, remoteURL string) (schema.InitResult, error)
	CollectCommits(ctx context.Context, projectID string, opts core.CollectOptions) (schema.CollectResult, error)
	GetRecentCommits(ctx context.Context, projectID string, hours int, branch string, author string) ([]schema.Commit, error)
	GetBranchInfo(ctx context.Context, projectID string, includeRemote bool) ([]schema.Branch, error)
	CorrelateSessions(ctx context.Context, projectID string, since *time.Time, threshold float64) (schema.CorrelationResult, error)
	QueryCommits(ctx context.Context, filter schema.CommitFilter) (schema.QueryResult, error)
	GetHotspots(ctx context.Context, projectID string, since *time.Time, minChanges int, limit int) (schema.HotspotResult, error)
	GetCommitAnalysis(ctx context.Context, projectID string, sha string) (schema.CommitAnalysis, error)
}

var _ Engine = (*core.Engine)(nil)

// NewMCPServer initializes and configures the GitPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(engine Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"GitPulse Activity Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{engine: engine, now: time.Now}

	s.AddTool(mcp.NewTool("initialize_repository",
		mcp.WithDescription("Register a git repository under a project id, record its branches and collect its recent commits."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path to the git working tree."), mcp.Required()),
		mcp.WithString("remote_url", mcp.Description("Optional remote URL stored with the project.")),
	), h.handleInitializeRepository)

	s.AddTool(mcp.NewTool("collect_commits",
		mcp.WithDescription("Collect, classify and store new commits for a registered project."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of commits to read from history (default 100).")),
		mcp.WithString("since", mcp.Description("Only commits after this time (e.g. '2024-01-01', '3 days ago', 'last monday').")),
		mcp.WithString("branch", mcp.Description("Branch or ref to walk. Defaults to all refs.")),
	), h.handleCollectCommits)

	s.AddTool(mcp.NewTool("get_recent_commits",
		mcp.WithDescription("List stored commits from the last N hours, newest first."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithNumber("hours", mcp.Description("Size of the window in hours (default 24).")),
		mcp.WithString("branch", mcp.Description("Only commits attributed to this branch.")),
		mcp.WithString("author", mcp.Description("Only commits whose author name or email contains this text.")),
	), h.handleGetRecentCommits)

	s.AddTool(mcp.NewTool("get_branch_info",
		mcp.WithDescription("List the branches recorded for a project."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithBoolean("include_remote", mcp.Description("Include remote-tracking branches.")),
	), h.handleGetBranchInfo)

	s.AddTool(mcp.NewTool("correlate_sessions",
		mcp.WithDescription("Link stored commits to work sessions by time proximity and author."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithString("since", mcp.Description("Only commits after this time.")),
		mcp.WithNumber("confidence_threshold", mcp.Description("Minimum confidence to store a link, between 0 and 1 (default 0.3).")),
	), h.handleCorrelateSessions)

	s.AddTool(mcp.NewTool("query_commits",
		mcp.WithDescription("Filter stored commits and page through the results with a summary of the whole set."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithString("since", mcp.Description("Only commits after this time.")),
		mcp.WithString("until", mcp.Description("Only commits before this time.")),
		mcp.WithString("author", mcp.Description("Author name or email substring.")),
		mcp.WithString("branch", mcp.Description("Branch name.")),
		mcp.WithString("types", mcp.Description("Comma separated commit types (feature, fix, docs, style, refactor, test, chore, merge).")),
		mcp.WithString("merge", mcp.Description("Restrict to merge or non-merge commits."), mcp.Enum("any", "true", "false")),
		mcp.WithBoolean("breaking_only", mcp.Description("Only commits flagged as breaking changes.")),
		mcp.WithString("message_contains", mcp.Description("Substring of the commit message.")),
		mcp.WithString("path_prefix", mcp.Description("Only commits touching files under this path.")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50).")),
		mcp.WithNumber("offset", mcp.Description("Page offset.")),
	), h.handleQueryCommits)

	s.AddTool(mcp.NewTool("get_hotspots",
		mcp.WithDescription("Find the most frequently changed files and score their risk."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithString("since", mcp.Description("Only changes after this time.")),
		mcp.WithNumber("min_changes", mcp.Description("Minimum number of changes for a file to qualify (default 3).")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hotspots (default 50).")),
	), h.handleGetHotspots)

	s.AddTool(mcp.NewTool("get_commit_analysis",
		mcp.WithDescription("Show a stored commit with its file changes and complexity score."),
		mcp.WithString("project_id", mcp.Description("Project identifier."), mcp.Required()),
		mcp.WithString("sha", mcp.Description("Full SHA or a unique prefix."), mcp.Required()),
	), h.handleGetCommitAnalysis)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, engine Engine, version string) error {
	s := NewMCPServer(engine, version)
	return server.ServeStdio(s)
}
