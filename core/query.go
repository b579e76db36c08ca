package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
)

// GetRecentCommits returns commits authored in the last hours, newest first,
// optionally narrowed to one branch and an author name or email substring.
// At most contract.MaxResultLimit commits are returned; use QueryCommits to page
// through larger windows.
func (e *Engine) GetRecentCommits(ctx context.Context, projectID string, hours int, branch string, author string) ([]schema.Commit, error) {
	if _, err := e.handle(ctx, projectID); err != nil {
		return nil, err
	}
	if hours <= 0 {
		hours = contract.DefaultRecentHours
	}
	filter := schema.CommitFilter{
		ProjectID: projectID,
		Since:     sinceHours(e.now(), hours),
		Branch:    branch,
		Author:    author,
		Limit:     e.recentLimit,
	}
	commits, total, err := e.store.QueryCommits(ctx, filter)
	if err != nil {
		return nil, fail(err, contract.KindQueryFailed, contract.CodeQueryFailed, "failed to load recent commits",
			map[string]any{"project_id": projectID, "hours": hours, "branch": branch, "author": author})
	}
	if total > len(commits) {
		e.log.WithFields(logrus.Fields{
			"project":  projectID,
			"hours":    hours,
			"total":    total,
			"returned": len(commits),
		}).Debug("recent commits truncated")
	}
	return commits, nil
}

// GetBranchInfo returns the stored branches of a project, default branch first.
func (e *Engine) GetBranchInfo(ctx context.Context, projectID string, includeRemote bool) ([]schema.Branch, error) {
	if _, err := e.handle(ctx, projectID); err != nil {
		return nil, err
	}
	branches, err := e.store.ListBranches(ctx, projectID, includeRemote)
	if err != nil {
		return nil, fail(err, contract.KindQueryFailed, contract.CodeQueryFailed, "failed to load branches",
			map[string]any{"project_id": projectID, "include_remote": includeRemote})
	}
	return branches, nil
}

// QueryCommits returns one page of commits matching filter together with the total
// count and a summary over the whole filtered set.
func (e *Engine) QueryCommits(ctx context.Context, filter schema.CommitFilter) (schema.QueryResult, error) {
	if _, err := e.handle(ctx, filter.ProjectID); err != nil {
		return schema.QueryResult{}, err
	}
	filter.Limit = normalizeLimit(filter.Limit, contract.DefaultQueryLimit)
	filter.Offset = max(filter.Offset, 0)
	details := map[string]any{"project_id": filter.ProjectID, "filter": filter}

	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return schema.QueryResult{}, contract.NewEngineError(contract.KindQueryFailed, contract.CodeQueryFailed,
			"until must not be before since", nil).WithDetails(details)
	}
	for _, t := range filter.Types {
		if !t.Valid() {
			return schema.QueryResult{}, contract.NewEngineError(contract.KindQueryFailed, contract.CodeQueryFailed,
				"unknown commit type "+string(t), nil).WithDetails(details)
		}
	}

	commits, total, err := e.store.QueryCommits(ctx, filter)
	if err != nil {
		return schema.QueryResult{}, fail(err, contract.KindQueryFailed, contract.CodeQueryFailed, "failed to query commits", details)
	}
	summary, err := e.store.SummarizeCommits(ctx, filter)
	if err != nil {
		return schema.QueryResult{}, fail(err, contract.KindQueryFailed, contract.CodeQueryFailed, "failed to summarize commits", details)
	}
	return schema.QueryResult{Commits: commits, TotalCount: total, Summary: summary}, nil
}

// GetHotspots scores files changed at least minChanges times since the given time
// and returns the top limit by change count and contributor count.
func (e *Engine) GetHotspots(ctx context.Context, projectID string, since *time.Time, minChanges int, limit int) (schema.HotspotResult, error) {
	if _, err := e.handle(ctx, projectID); err != nil {
		return schema.HotspotResult{}, err
	}
	if minChanges <= 0 {
		minChanges = contract.DefaultHotspotMinChanges
	}
	limit = normalizeLimit(limit, contract.DefaultHotspotLimit)
	details := map[string]any{"project_id": projectID, "min_changes": minChanges, "limit": limit}

	activity, err := e.store.FileActivity(ctx, projectID, since, minChanges, limit)
	if err != nil {
		return schema.HotspotResult{}, fail(err, contract.KindAnalysisFailed, contract.CodeAnalysisFailed, "failed to aggregate file activity", details)
	}
	commits, err := e.store.CountCommits(ctx, projectID, since)
	if err != nil {
		return schema.HotspotResult{}, fail(err, contract.KindAnalysisFailed, contract.CodeAnalysisFailed, "failed to count commits", details)
	}

	now := e.now()
	hotspots := algo.BuildHotspots(activity, minChanges, limit, now)
	summary := schema.HotspotSummary{
		Since:        since,
		MinChanges:   minChanges,
		Limit:        limit,
		GeneratedAt:  now,
		CommitsInSet: commits,
	}
	algo.SummarizeHotspots(hotspots, &summary)
	return schema.HotspotResult{Hotspots: hotspots, Summary: summary}, nil
}

// GetCommitAnalysis returns a stored commit, its file changes and its complexity.
// sha may be any unique prefix.
func (e *Engine) GetCommitAnalysis(ctx context.Context, projectID string, sha string) (schema.CommitAnalysis, error) {
	if _, err := e.handle(ctx, projectID); err != nil {
		return schema.CommitAnalysis{}, err
	}
	details := map[string]any{"project_id": projectID, "sha": sha}

	commit, err := e.store.GetCommit(ctx, projectID, sha)
	if errors.Is(err, contract.ErrNotFound) {
		return schema.CommitAnalysis{}, fail(err, contract.KindAnalysisFailed, contract.CodeCommitNotFound, "commit not found", details)
	}
	if err != nil {
		return schema.CommitAnalysis{}, fail(err, contract.KindAnalysisFailed, contract.CodeAnalysisFailed, "failed to load commit", details)
	}
	changes, err := e.store.ListFileChanges(ctx, commit.ID)
	if err != nil {
		return schema.CommitAnalysis{}, fail(err, contract.KindAnalysisFailed, contract.CodeAnalysisFailed, "failed to load file changes", details)
	}
	return schema.CommitAnalysis{
		Commit:      commit,
		FileChanges: changes,
		Complexity:  algo.Complexity(commit, changes),
	}, nil
}
