// Package postgres implements store.Store on PostgreSQL via lib/pq.
// Search and pagination are pushed into SQL (ILIKE, ORDER BY,
// LIMIT/OFFSET); batch deletes use id = ANY($n).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"linkstash/internal/store"
)

// Store is a Postgres-backed store.Store implementation.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool against databaseURL and bootstraps
// the schema.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id UUID PRIMARY KEY,
			access_key TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS memos (
			id UUID PRIMARY KEY,
			access_key TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_access_key ON bookmarks(access_key)`,
		`CREATE INDEX IF NOT EXISTS idx_memos_access_key ON memos(access_key)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", q, err)
		}
	}
	return nil
}

// searchClause builds an OR of ILIKE conditions over the requested
// fields. Returns an empty string when there is nothing to filter on.
func searchClause(opt store.ListOptions, allowed []string, argIndex int) (string, []interface{}) {
	if opt.Query == "" {
		return "", nil
	}

	fields := opt.Fields
	if len(fields) == 0 {
		fields = allowed
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}

	var conds []string
	for _, f := range fields {
		if !allowedSet[f] {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", f, argIndex))
	}
	if len(conds) == 0 {
		return "", nil
	}

	clause := " AND (" + conds[0]
	for _, c := range conds[1:] {
		clause += " OR " + c
	}
	clause += ")"

	return clause, []interface{}{"%" + opt.Query + "%"}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// anyIDs adapts a string id slice for id = ANY($n) parameters.
func anyIDs(ids []string) interface{} {
	return pq.Array(ids)
}
