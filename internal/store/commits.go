package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/huangsam/gitpulse/schema"
	"github.com/jmoiron/sqlx"
)

// ErrAmbiguousSHA is returned when a sha prefix matches more than one commit.
var ErrAmbiguousSHA = errors.New("ambiguous commit sha prefix")

// CommitExists reports whether (projectID, sha) is already stored.
func (s *Store) CommitExists(ctx context.Context, projectID string, sha string) (bool, error) {
	var n int
	query := s.db.Rebind("SELECT COUNT(*) FROM commits WHERE project_id = ? AND commit_sha = ?")
	if err := s.db.GetContext(ctx, &n, query, projectID, sha); err != nil {
		return false, fmt.Errorf("failed to check commit %s: %w", schema.ShortSHA(sha), err)
	}
	return n > 0, nil
}

// SaveCommit stores a commit and its file changes in one transaction. A commit that
// is already stored for the project is left untouched and false is returned.
// On insert, the ids of c and changes are filled in.
func (s *Store) SaveCommit(ctx context.Context, c *schema.Commit, changes []schema.FileChange) (bool, error) {
	row := toCommitRow(c)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt == 0 {
		row.CreatedAt = unix(s.now())
	}

	prefix, suffix := s.insertIgnore()
	commitQuery := prefix + " commits (" + commitColumns + ") VALUES (" + named(commitColumns) + ")" + suffix
	changeQuery := prefix + " file_changes (" + fileChangeColumns + ") VALUES (" + named(fileChangeColumns) + ")" + suffix

	inserted := false
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, commitQuery, row)
		if err != nil {
			return fmt.Errorf("failed to insert commit %s: %w", schema.ShortSHA(c.SHA), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return nil
		}
		inserted = true
		for i := range changes {
			fcRow := toFileChangeRow(changes[i])
			if fcRow.ID == "" {
				fcRow.ID = uuid.NewString()
			}
			fcRow.CommitID = row.ID
			if _, err := tx.NamedExecContext(ctx, changeQuery, fcRow); err != nil {
				return fmt.Errorf("failed to insert file change %s: %w", fcRow.FilePath, err)
			}
			changes[i].ID = fcRow.ID
			changes[i].CommitID = row.ID
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if inserted {
		c.ID = row.ID
		c.CreatedAt = fromUnix(row.CreatedAt)
	}
	return inserted, nil
}

// GetCommit looks up a commit by full sha or by a prefix that matches exactly one commit.
func (s *Store) GetCommit(ctx context.Context, projectID string, sha string) (schema.Commit, error) {
	sha = strings.ToLower(strings.TrimSpace(sha))
	if sha == "" {
		return schema.Commit{}, fmt.Errorf("empty commit sha: %w", ErrNotFound)
	}
	var rows []commitRow
	query := s.db.Rebind("SELECT " + commitColumns + " FROM commits WHERE project_id = ? AND commit_sha LIKE ? ESCAPE '!' ORDER BY commit_sha LIMIT 2")
	if err := s.db.SelectContext(ctx, &rows, query, projectID, prefixPattern(sha)); err != nil {
		return schema.Commit{}, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	switch len(rows) {
	case 0:
		return schema.Commit{}, fmt.Errorf("commit %s: %w", sha, ErrNotFound)
	case 1:
		return rows[0].toCommit(), nil
	}
	for _, r := range rows {
		if r.SHA == sha {
			return r.toCommit(), nil
		}
	}
	return schema.Commit{}, fmt.Errorf("commit %s: %w", sha, ErrAmbiguousSHA)
}

// ListFileChanges returns the file changes of one commit ordered by path.
func (s *Store) ListFileChanges(ctx context.Context, commitID string) ([]schema.FileChange, error) {
	var rows []fileChangeRow
	query := s.db.Rebind("SELECT " + fileChangeColumns + " FROM file_changes WHERE commit_id = ? ORDER BY file_path")
	if err := s.db.SelectContext(ctx, &rows, query, commitID); err != nil {
		return nil, fmt.Errorf("failed to list file changes of %s: %w", commitID, err)
	}
	return toFileChanges(rows), nil
}

// ListProjectFileChanges returns every file change of a project, oldest commit first.
func (s *Store) ListProjectFileChanges(ctx context.Context, projectID string) ([]schema.FileChange, error) {
	var rows []fileChangeRow
	query := s.db.Rebind("SELECT " + qualify(fileChangeColumns, "fc") +
		" FROM file_changes fc JOIN commits c ON c.id = fc.commit_id" +
		" WHERE c.project_id = ? ORDER BY c.author_date, c.commit_sha, fc.file_path")
	if err := s.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list file changes of project %s: %w", projectID, err)
	}
	return toFileChanges(rows), nil
}

// QueryCommits returns the commits matching filter, newest first, and the total
// number of matches before paging. A non-positive limit returns every match.
func (s *Store) QueryCommits(ctx context.Context, filter schema.CommitFilter) ([]schema.Commit, int, error) {
	where, args, err := commitWhere(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM commits c WHERE "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count commits: %w", err)
	}

	query := "SELECT " + commitColumns + " FROM commits c WHERE " + where + " ORDER BY c.author_date DESC, c.commit_sha"
	pageArgs := args
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		pageArgs = append(append([]any{}, args...), filter.Limit, max(filter.Offset, 0))
	}
	var rows []commitRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to query commits: %w", err)
	}
	commits := make([]schema.Commit, 0, len(rows))
	for _, r := range rows {
		commits = append(commits, r.toCommit())
	}
	return commits, total, nil
}

type summaryRow struct {
	Merges     int64 `db:"merges"`
	Breaking   int64 `db:"breaking"`
	Authors    int64 `db:"authors"`
	Insertions int64 `db:"insertions"`
	Deletions  int64 `db:"deletions"`
}

type typeCountRow struct {
	Type  string `db:"commit_type"`
	Count int64  `db:"n"`
}

// SummarizeCommits aggregates over every commit matching filter. Paging is ignored.
func (s *Store) SummarizeCommits(ctx context.Context, filter schema.CommitFilter) (schema.QuerySummary, error) {
	where, args, err := commitWhere(filter)
	if err != nil {
		return schema.QuerySummary{}, err
	}

	var totals summaryRow
	totalsQuery := `SELECT
		COALESCE(SUM(CASE WHEN c.is_merge THEN 1 ELSE 0 END), 0) AS merges,
		COALESCE(SUM(CASE WHEN c.breaking_change THEN 1 ELSE 0 END), 0) AS breaking,
		COUNT(DISTINCT LOWER(c.author_email)) AS authors,
		COALESCE(SUM(c.insertions), 0) AS insertions,
		COALESCE(SUM(c.deletions), 0) AS deletions
		FROM commits c WHERE ` + where
	if err := s.db.GetContext(ctx, &totals, s.db.Rebind(totalsQuery), args...); err != nil {
		return schema.QuerySummary{}, fmt.Errorf("failed to summarize commits: %w", err)
	}

	var byType []typeCountRow
	typeQuery := "SELECT c.commit_type AS commit_type, COUNT(*) AS n FROM commits c WHERE " + where + " GROUP BY c.commit_type"
	if err := s.db.SelectContext(ctx, &byType, s.db.Rebind(typeQuery), args...); err != nil {
		return schema.QuerySummary{}, fmt.Errorf("failed to count commit types: %w", err)
	}

	summary := schema.QuerySummary{
		ByType:        make(map[schema.CommitType]int, len(byType)),
		MergeCount:    int(totals.Merges),
		BreakingCount: int(totals.Breaking),
		Authors:       int(totals.Authors),
		Insertions:    int(totals.Insertions),
		Deletions:     int(totals.Deletions),
	}
	for _, t := range byType {
		summary.ByType[schema.CommitType(t.Type)] = int(t.Count)
	}
	return summary, nil
}

// commitWhere builds the WHERE clause for a filter against the commits table aliased as c.
// Placeholders are '?' and must be rebound by the caller.
func commitWhere(f schema.CommitFilter) (string, []any, error) {
	clauses := []string{"c.project_id = ?"}
	args := []any{f.ProjectID}

	if f.Since != nil {
		clauses = append(clauses, "c.author_date >= ?")
		args = append(args, f.Since.Unix())
	}
	if f.Until != nil {
		clauses = append(clauses, "c.author_date <= ?")
		args = append(args, f.Until.Unix())
	}
	if f.Author != "" {
		pattern := containsPattern(strings.ToLower(f.Author))
		clauses = append(clauses, "(LOWER(c.author_name) LIKE ? ESCAPE '!' OR LOWER(c.author_email) LIKE ? ESCAPE '!')")
		args = append(args, pattern, pattern)
	}
	if f.Branch != "" {
		clauses = append(clauses, "c.branch_name = ?")
		args = append(args, f.Branch)
	}
	if len(f.Types) > 0 {
		types := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			types = append(types, string(t))
		}
		in, inArgs, err := sqlx.In("c.commit_type IN (?)", types)
		if err != nil {
			return "", nil, fmt.Errorf("failed to expand commit types: %w", err)
		}
		clauses = append(clauses, in)
		args = append(args, inArgs...)
	}
	if f.Merge != nil {
		clauses = append(clauses, "c.is_merge = ?")
		args = append(args, *f.Merge)
	}
	if f.BreakingOnly {
		clauses = append(clauses, "c.breaking_change = ?")
		args = append(args, true)
	}
	if f.MessageContains != "" {
		pattern := containsPattern(strings.ToLower(f.MessageContains))
		clauses = append(clauses, "(LOWER(c.message) LIKE ? ESCAPE '!' OR LOWER(c.body) LIKE ? ESCAPE '!')")
		args = append(args, pattern, pattern)
	}
	if f.PathPrefix != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM file_changes fc WHERE fc.commit_id = c.id AND fc.file_path LIKE ? ESCAPE '!')")
		args = append(args, prefixPattern(f.PathPrefix))
	}
	return strings.Join(clauses, " AND "), args, nil
}

func toFileChanges(rows []fileChangeRow) []schema.FileChange {
	changes := make([]schema.FileChange, 0, len(rows))
	for _, r := range rows {
		changes = append(changes, r.toFileChange())
	}
	return changes
}
