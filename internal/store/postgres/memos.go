package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linkstash/internal/domain"
	"linkstash/internal/store"
)

var memoSearchFields = []string{
	store.FieldTitle, store.FieldCategory, store.FieldContent,
}

// InsertMemo writes a single memo, assigning id and creation time.
func (s *Store) InsertMemo(ctx context.Context, accessKey string, record domain.Memo) (domain.Memo, error) {
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (id, access_key, title, content, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, accessKey, record.Title, record.Content, record.Category, record.CreatedAt)
	if err != nil {
		return domain.Memo{}, fmt.Errorf("failed to insert memo: %w", err)
	}
	return record, nil
}

// ListMemos returns a page ordered by creation time descending, with
// the total count of matching records.
func (s *Store) ListMemos(ctx context.Context, accessKey string, opt store.ListOptions) ([]domain.Memo, int, error) {
	where := "access_key = $1"
	args := []interface{}{accessKey}

	clause, clauseArgs := searchClause(opt, memoSearchFields, len(args)+1)
	where += clause
	args = append(args, clauseArgs...)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memos WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count memos: %w", err)
	}

	query := "SELECT id, title, content, category, created_at FROM memos WHERE " +
		where + " ORDER BY created_at DESC"
	if opt.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, opt.Limit, opt.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []domain.Memo
	for rows.Next() {
		var m domain.Memo
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Category, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return memos, total, nil
}

// UpdateMemo overwrites the mutable fields of a record.
func (s *Store) UpdateMemo(ctx context.Context, accessKey string, record domain.Memo) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE memos SET title = $1, content = $2, category = $3
		 WHERE id = $4 AND access_key = $5`,
		record.Title, record.Content, record.Category, record.ID, accessKey)
	if err != nil {
		return fmt.Errorf("failed to update memo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMemos removes records by id.
func (s *Store) DeleteMemos(ctx context.Context, accessKey string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM memos WHERE access_key = $1 AND id = ANY($2::uuid[])",
		accessKey, anyIDs(ids))
	if err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	return nil
}
