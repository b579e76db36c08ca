package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	engine Engine
	now    func() time.Time
}

// toolError renders an engine failure. Engine errors already lead with their code.
func toolError(err error) *mcp.CallToolResult {
	if contract.CodeOf(err) == "" {
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", contract.CodeAnalysisFailed, err))
	}
	return mcp.NewToolResultError(err.Error())
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func requireProject(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	projectID := strings.TrimSpace(request.GetString("project_id", ""))
	if projectID == "" {
		return "", mcp.NewToolResultError("project_id is required")
	}
	return projectID, nil
}

func (h *toolHandler) parseTime(request mcp.CallToolRequest, key string) (*time.Time, *mcp.CallToolResult) {
	t, err := contract.ParseSince(request.GetString(key, ""), h.now())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid %s: %v", key, err))
	}
	return t, nil
}

func (h *toolHandler) handleInitializeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	path := request.GetString("repo_path", "")
	if path == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}

	res, err := h.engine.InitializeRepository(ctx, projectID, path, request.GetString("remote_url", ""))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func (h *toolHandler) handleCollectCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	since, bad := h.parseTime(request, "since")
	if bad != nil {
		return bad, nil
	}
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	res, err := h.engine.CollectCommits(ctx, projectID, core.CollectOptions{
		Limit:  limit,
		Since:  since,
		Branch: request.GetString("branch", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func (h *toolHandler) handleGetRecentCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	hours := request.GetInt("hours", contract.DefaultRecentHours)
	if hours <= 0 {
		return mcp.NewToolResultError("hours must be at least 1"), nil
	}

	commits, err := h.engine.GetRecentCommits(ctx, projectID, hours,
		request.GetString("branch", ""), request.GetString("author", ""))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(commits)
}

func (h *toolHandler) handleGetBranchInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}

	branches, err := h.engine.GetBranchInfo(ctx, projectID, request.GetBool("include_remote", false))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(branches)
}

func (h *toolHandler) handleCorrelateSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	since, bad := h.parseTime(request, "since")
	if bad != nil {
		return bad, nil
	}

	res, err := h.engine.CorrelateSessions(ctx, projectID, since,
		request.GetFloat("confidence_threshold", contract.DefaultConfidenceThreshold))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func (h *toolHandler) handleQueryCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	since, bad := h.parseTime(request, "since")
	if bad != nil {
		return bad, nil
	}
	until, bad := h.parseTime(request, "until")
	if bad != nil {
		return bad, nil
	}
	merge, err := parseMerge(request.GetString("merge", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	types, err := schema.ParseCommitTypes(request.GetString("types", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filter := schema.CommitFilter{
		ProjectID:       projectID,
		Since:           since,
		Until:           until,
		Author:          request.GetString("author", ""),
		Branch:          request.GetString("branch", ""),
		Types:           types,
		Merge:           merge,
		BreakingOnly:    request.GetBool("breaking_only", false),
		MessageContains: request.GetString("message_contains", ""),
		PathPrefix:      request.GetString("path_prefix", ""),
		Limit:           request.GetInt("limit", 0),
		Offset:          request.GetInt("offset", 0),
	}

	res, err := h.engine.QueryCommits(ctx, filter)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func (h *toolHandler) handleGetHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	since, bad := h.parseTime(request, "since")
	if bad != nil {
		return bad, nil
	}

	res, err := h.engine.GetHotspots(ctx, projectID, since,
		request.GetInt("min_changes", contract.DefaultHotspotMinChanges),
		request.GetInt("limit", contract.DefaultHotspotLimit))
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func (h *toolHandler) handleGetCommitAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, bad := requireProject(request)
	if bad != nil {
		return bad, nil
	}
	sha := strings.TrimSpace(request.GetString("sha", ""))
	if sha == "" {
		return mcp.NewToolResultError("sha is required"), nil
	}

	res, err := h.engine.GetCommitAnalysis(ctx, projectID, sha)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(res)
}

func parseMerge(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("invalid merge filter %q", s)
}
