// Package store defines the persistence boundary. All entities are
// partitioned by an access key (namespace); callers pass it explicitly
// on every operation, implementations never hold one.
package store

import (
	"context"

	"linkstash/internal/domain"
)

// ListOptions controls listing, searching and pagination.
type ListOptions struct {
	// Offset/Limit select a page. Limit <= 0 returns everything.
	Offset int
	Limit  int

	// Query is a case-insensitive substring filter. Empty disables
	// filtering. Fields restricts which record fields are searched;
	// empty means all searchable fields of the entity.
	Query  string
	Fields []string
}

// Searchable field names accepted in ListOptions.Fields.
const (
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldContent     = "content"
)

// Store is the persistence interface shared by the Redis, Postgres and
// in-memory backends. Listing is always ordered by creation time
// descending; BookmarksForExport orders by category ascending, then
// creation time descending, matching the export file layout.
type Store interface {
	// InsertBookmarks persists records, assigning IDs and creation
	// times, and returns them as stored.
	InsertBookmarks(ctx context.Context, accessKey string, records []domain.Bookmark) ([]domain.Bookmark, error)
	ListBookmarks(ctx context.Context, accessKey string, opt ListOptions) ([]domain.Bookmark, int, error)
	BookmarksForExport(ctx context.Context, accessKey string) ([]domain.Bookmark, error)
	// BookmarkURLs returns the raw (non-normalized) URLs of every
	// bookmark in the namespace.
	BookmarkURLs(ctx context.Context, accessKey string) ([]string, error)
	UpdateBookmark(ctx context.Context, accessKey string, record domain.Bookmark) error
	DeleteBookmarks(ctx context.Context, accessKey string, ids []string) error

	InsertMemo(ctx context.Context, accessKey string, record domain.Memo) (domain.Memo, error)
	ListMemos(ctx context.Context, accessKey string, opt ListOptions) ([]domain.Memo, int, error)
	UpdateMemo(ctx context.Context, accessKey string, record domain.Memo) error
	DeleteMemos(ctx context.Context, accessKey string, ids []string) error

	Ping(ctx context.Context) error
	Close() error
}
