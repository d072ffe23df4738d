// Package redis implements store.Store on a Redis backend. Records are
// stored as JSON values with one id set per namespace; searching and
// pagination happen application-side after loading the namespace, which
// is fine at personal-collection scale.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for bookmarks and memos.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
