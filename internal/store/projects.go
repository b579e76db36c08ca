package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/schema"
)

const projectColumns = `id, repo_path, remote_url, default_branch, created_at, updated_at`

// UpsertProject registers a project or refreshes its path, remote and default branch.
// The original creation time is kept.
func (s *Store) UpsertProject(ctx context.Context, p schema.Project) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	row := projectRow{
		ID:            p.ID,
		RepoPath:      p.RepoPath,
		RemoteURL:     p.RemoteURL,
		DefaultBranch: p.DefaultBranch,
		CreatedAt:     unix(p.CreatedAt),
		UpdatedAt:     unix(now),
	}
	query := "INSERT INTO projects (" + projectColumns + ") VALUES (" + named(projectColumns) + ")" +
		s.upsertClause([]string{"id"}, []string{"repo_path", "remote_url", "default_branch", "updated_at"})
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert project %s: %w", p.ID, err)
	}
	return nil
}

// GetProject returns a registered project or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, projectID string) (schema.Project, error) {
	var row projectRow
	query := s.db.Rebind("SELECT " + projectColumns + " FROM projects WHERE id = ?")
	if err := s.db.GetContext(ctx, &row, query, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Project{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}
		return schema.Project{}, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}
	return row.toProject(), nil
}

// ListProjects returns all registered projects ordered by id.
func (s *Store) ListProjects(ctx context.Context) ([]schema.Project, error) {
	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+projectColumns+" FROM projects ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := make([]schema.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.toProject())
	}
	return projects, nil
}
