package store

import (
	"context"
	"fmt"

	"github.com/huangsam/gitpulse/schema"
)

const branchColumns = `project_id, branch_name, current_sha, is_default, is_remote, branch_type,
	commit_count, first_commit_date, last_commit_date, updated_at`

// UpsertBranch stores the latest snapshot of a branch.
func (s *Store) UpsertBranch(ctx context.Context, b schema.Branch) error {
	row := branchRow{
		ProjectID:       b.ProjectID,
		Name:            b.Name,
		CurrentSHA:      b.CurrentSHA,
		IsDefault:       b.IsDefault,
		IsRemote:        b.IsRemote,
		Type:            string(b.Type),
		CommitCount:     b.CommitCount,
		FirstCommitDate: unix(b.FirstCommitDate),
		LastCommitDate:  unix(b.LastCommitDate),
		UpdatedAt:       unix(s.now()),
	}
	query := "INSERT INTO branches (" + branchColumns + ") VALUES (" + named(branchColumns) + ")" +
		s.upsertClause([]string{"project_id", "branch_name"}, []string{
			"current_sha", "is_default", "is_remote", "branch_type",
			"commit_count", "first_commit_date", "last_commit_date", "updated_at",
		})
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert branch %s: %w", b.Name, err)
	}
	return nil
}

// ListBranches returns the branches of a project, default branch first.
func (s *Store) ListBranches(ctx context.Context, projectID string, includeRemote bool) ([]schema.Branch, error) {
	query := "SELECT " + branchColumns + " FROM branches WHERE project_id = ?"
	args := []any{projectID}
	if !includeRemote {
		query += " AND is_remote = ?"
		args = append(args, false)
	}
	query += " ORDER BY is_default DESC, is_remote, branch_name"

	var rows []branchRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list branches of %s: %w", projectID, err)
	}
	branches := make([]schema.Branch, 0, len(rows))
	for _, r := range rows {
		branches = append(branches, r.toBranch())
	}
	return branches, nil
}
