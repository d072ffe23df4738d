package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linkstash/internal/domain"
	"linkstash/internal/store"
)

var bookmarkSearchFields = []string{
	store.FieldTitle, store.FieldURL, store.FieldCategory, store.FieldDescription,
}

// InsertBookmarks writes records in a single transaction, assigning ids
// and creation timestamps.
func (s *Store) InsertBookmarks(ctx context.Context, accessKey string, records []domain.Bookmark) ([]domain.Bookmark, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bookmarks (id, access_key, url, title, category, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	stored := make([]domain.Bookmark, 0, len(records))
	for _, r := range records {
		r.ID = uuid.NewString()
		r.CreatedAt = now
		if _, err := stmt.ExecContext(ctx, r.ID, accessKey, r.URL, r.Title, r.Category, r.Description, r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert bookmark %s: %w", r.URL, err)
		}
		stored = append(stored, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return stored, nil
}

// ListBookmarks returns a page ordered by creation time descending,
// with the total count of matching records.
func (s *Store) ListBookmarks(ctx context.Context, accessKey string, opt store.ListOptions) ([]domain.Bookmark, int, error) {
	where := "access_key = $1"
	args := []interface{}{accessKey}

	clause, clauseArgs := searchClause(opt, bookmarkSearchFields, len(args)+1)
	where += clause
	args = append(args, clauseArgs...)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookmarks WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	query := "SELECT id, url, title, category, description, created_at FROM bookmarks WHERE " +
		where + " ORDER BY created_at DESC"
	if opt.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, opt.Limit, opt.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks, err := scanBookmarks(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

// BookmarksForExport returns every bookmark ordered by category
// ascending, then creation time descending.
func (s *Store) BookmarksForExport(ctx context.Context, accessKey string) ([]domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, category, description, created_at
		 FROM bookmarks WHERE access_key = $1
		 ORDER BY category ASC, created_at DESC`, accessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks for export: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// BookmarkURLs returns the raw URL of every bookmark in the namespace.
func (s *Store) BookmarkURLs(ctx context.Context, accessKey string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url FROM bookmarks WHERE access_key = $1", accessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmark urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// UpdateBookmark overwrites the mutable fields of a record.
func (s *Store) UpdateBookmark(ctx context.Context, accessKey string, record domain.Bookmark) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET url = $1, title = $2, category = $3, description = $4
		 WHERE id = $5 AND access_key = $6`,
		record.URL, record.Title, record.Category, record.Description, record.ID, accessKey)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBookmarks removes records by id.
func (s *Store) DeleteBookmarks(ctx context.Context, accessKey string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE access_key = $1 AND id = ANY($2::uuid[])",
		accessKey, anyIDs(ids))
	if err != nil {
		return fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	return nil
}

func scanBookmarks(rows *sql.Rows) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &b.Category, &b.Description, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return bookmarks, nil
}
