package store

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/jmoiron/sqlx"
)

const sessionColumns = `id, project_id, title, started_at, ended_at, author_name, author_email`

// ListSessions returns the sessions of a project that are still open or ended at or
// after since, oldest first. A nil since returns every session.
func (s *Store) ListSessions(ctx context.Context, projectID string, since *time.Time) ([]schema.Session, error) {
	query := "SELECT " + sessionColumns + " FROM work_sessions WHERE project_id = ?"
	args := []any{projectID}
	if since != nil {
		query += " AND (ended_at IS NULL OR ended_at >= ?)"
		args = append(args, since.Unix())
	}
	query += " ORDER BY started_at, id"

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list sessions of %s: %w", projectID, err)
	}
	sessions := make([]schema.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toSession())
	}
	return sessions, nil
}

// SaveSessions imports externally produced sessions, replacing any with the same id.
func (s *Store) SaveSessions(ctx context.Context, sessions []schema.Session) (int, error) {
	query := "INSERT INTO work_sessions (" + sessionColumns + ") VALUES (" + named(sessionColumns) + ")" +
		s.upsertClause([]string{"id"}, []string{"project_id", "title", "started_at", "ended_at", "author_name", "author_email"})
	saved := 0
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, session := range sessions {
			if session.ID == "" {
				return fmt.Errorf("session without id")
			}
			if session.ProjectID == "" {
				return fmt.Errorf("session %s has no project id", session.ID)
			}
			if session.EndedAt != nil && session.EndedAt.Before(session.StartedAt) {
				return fmt.Errorf("session %s ends before it starts", session.ID)
			}
			if _, err := tx.NamedExecContext(ctx, query, toSessionRow(session)); err != nil {
				return fmt.Errorf("failed to save session %s: %w", session.ID, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}
