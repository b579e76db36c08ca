package store

import (
	"context"
	"fmt"

	"github.com/huangsam/gitpulse/schema"
	"github.com/jmoiron/sqlx"
)

// managedTables are the tables owned by the store, in delete order.
var managedTables = []string{"commit_session_links", "file_changes", "commits", "branches", "work_sessions", "projects"}

// Status reports schema version, row counts and the newest stored commit.
func (s *Store) Status(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		TableSizes: make(map[string]int64, len(managedTables)),
	}
	if err := s.db.PingContext(ctx); err != nil {
		return status, fmt.Errorf("failed to reach %s database: %w", s.backend, err)
	}
	status.Connected = true

	version, dirty, err := SchemaVersion(s.backend, s.connStr)
	if err != nil {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}
	status.SchemaVersion = version
	status.Dirty = dirty

	for _, table := range managedTables {
		var n int64
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = n
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return status, err
	}
	status.Projects = projects

	var last int64
	if err := s.db.GetContext(ctx, &last, "SELECT COALESCE(MAX(author_date), 0) FROM commits"); err != nil {
		return status, fmt.Errorf("failed to read last commit time: %w", err)
	}
	status.LastCommitTime = last
	return status, nil
}

// ClearProject deletes every row owned by a project and returns the deleted row
// count per table.
func (s *Store) ClearProject(ctx context.Context, projectID string) (map[string]int64, error) {
	statements := []struct {
		table string
		query string
	}{
		{"commit_session_links", "DELETE FROM commit_session_links WHERE commit_id IN (SELECT id FROM commits WHERE project_id = ?)"},
		{"file_changes", "DELETE FROM file_changes WHERE commit_id IN (SELECT id FROM commits WHERE project_id = ?)"},
		{"commits", "DELETE FROM commits WHERE project_id = ?"},
		{"branches", "DELETE FROM branches WHERE project_id = ?"},
		{"work_sessions", "DELETE FROM work_sessions WHERE project_id = ?"},
		{"projects", "DELETE FROM projects WHERE id = ?"},
	}
	deleted := make(map[string]int64, len(statements))
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			res, err := tx.ExecContext(ctx, tx.Rebind(stmt.query), projectID)
			if err != nil {
				return fmt.Errorf("failed to clear %s: %w", stmt.table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			deleted[stmt.table] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
