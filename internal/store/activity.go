package store

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

type activityRow struct {
	FilePath         string `db:"file_path"`
	ChangeCount      int64  `db:"change_count"`
	ContributorCount int64  `db:"contributor_count"`
	LastChanged      int64  `db:"last_changed"`
	TotalChurn       int64  `db:"total_churn"`
}

// FileActivity aggregates file changes per path over the commits of a project.
// Paths changed fewer than minChanges times are left out. Results are ordered by
// change count, then contributor count, then path.
func (s *Store) FileActivity(ctx context.Context, projectID string, since *time.Time, minChanges int, limit int) ([]schema.FileActivity, error) {
	query := `SELECT fc.file_path AS file_path,
		COUNT(*) AS change_count,
		COUNT(DISTINCT LOWER(c.author_email)) AS contributor_count,
		MAX(c.author_date) AS last_changed,
		COALESCE(SUM(fc.lines_added + fc.lines_removed), 0) AS total_churn
		FROM file_changes fc JOIN commits c ON c.id = fc.commit_id
		WHERE c.project_id = ?`
	args := []any{projectID}
	if since != nil {
		query += " AND c.author_date >= ?"
		args = append(args, since.Unix())
	}
	query += " GROUP BY fc.file_path HAVING COUNT(*) >= ? ORDER BY change_count DESC, contributor_count DESC, fc.file_path"
	args = append(args, max(minChanges, 1))
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate file activity: %w", err)
	}
	activity := make([]schema.FileActivity, 0, len(rows))
	for _, r := range rows {
		activity = append(activity, schema.FileActivity{
			FilePath:         r.FilePath,
			ChangeCount:      int(r.ChangeCount),
			ContributorCount: int(r.ContributorCount),
			LastChanged:      fromUnix(r.LastChanged),
			TotalChurn:       int(r.TotalChurn),
		})
	}
	return activity, nil
}

// CountCommits returns how many commits of a project were authored at or after since.
func (s *Store) CountCommits(ctx context.Context, projectID string, since *time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM commits WHERE project_id = ?"
	args := []any{projectID}
	if since != nil {
		query += " AND author_date >= ?"
		args = append(args, since.Unix())
	}
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count commits: %w", err)
	}
	return n, nil
}
