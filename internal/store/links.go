package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/schema"
	"github.com/jmoiron/sqlx"
)

const linkColumns = `commit_id, session_id, link_type, confidence_score, time_proximity_minutes,
	author_match, created_at, updated_at`

// UpsertLinkIfImproved inserts a link for a new (commit, session) pair. For a pair
// that is already linked, the stored link is replaced only when the new confidence
// is strictly greater, so automatic re-runs never lower a score.
func (s *Store) UpsertLinkIfImproved(ctx context.Context, link schema.CommitSessionLink) (schema.LinkOutcome, error) {
	now := s.now()
	link.CreatedAt = now
	link.UpdatedAt = now
	row := toLinkRow(link)

	prefix, suffix := s.insertIgnore()
	insert := prefix + " commit_session_links (" + linkColumns + ") VALUES (" + named(linkColumns) + ")" + suffix
	update := `UPDATE commit_session_links
		SET link_type = ?, confidence_score = ?, time_proximity_minutes = ?, author_match = ?, updated_at = ?
		WHERE commit_id = ? AND session_id = ? AND confidence_score < ?`

	outcome := schema.LinkUnchanged
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, insert, row)
		if err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		} else if n > 0 {
			outcome = schema.LinkCreated
			return nil
		}

		res, err = tx.ExecContext(ctx, tx.Rebind(update),
			row.LinkType, row.Confidence, row.TimeProximityMinutes, row.AuthorMatch, row.UpdatedAt,
			row.CommitID, row.SessionID, row.Confidence)
		if err != nil {
			return fmt.Errorf("failed to update link: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		} else if n > 0 {
			outcome = schema.LinkUpdated
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("link %s/%s: %w", link.CommitID, link.SessionID, err)
	}
	return outcome, nil
}

// GetLink returns the link of a (commit, session) pair or ErrNotFound.
func (s *Store) GetLink(ctx context.Context, commitID string, sessionID string) (schema.CommitSessionLink, error) {
	var row linkRow
	query := s.db.Rebind("SELECT " + linkColumns + " FROM commit_session_links WHERE commit_id = ? AND session_id = ?")
	if err := s.db.GetContext(ctx, &row, query, commitID, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.CommitSessionLink{}, fmt.Errorf("link %s/%s: %w", commitID, sessionID, ErrNotFound)
		}
		return schema.CommitSessionLink{}, fmt.Errorf("failed to get link: %w", err)
	}
	return row.toLink(), nil
}

// ListLinks returns every link of a project's commits, highest confidence first.
func (s *Store) ListLinks(ctx context.Context, projectID string) ([]schema.CommitSessionLink, error) {
	var rows []linkRow
	query := s.db.Rebind("SELECT " + qualify(linkColumns, "l") +
		" FROM commit_session_links l JOIN commits c ON c.id = l.commit_id" +
		" WHERE c.project_id = ? ORDER BY l.confidence_score DESC, l.commit_id, l.session_id")
	if err := s.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list links of %s: %w", projectID, err)
	}
	links := make([]schema.CommitSessionLink, 0, len(rows))
	for _, r := range rows {
		links = append(links, r.toLink())
	}
	return links, nil
}
