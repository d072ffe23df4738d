package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"linkstash/internal/domain"
	"linkstash/internal/store"
)

// InsertBookmarks stores records in a single pipeline, assigning ids
// and creation timestamps.
func (s *Store) InsertBookmarks(ctx context.Context, accessKey string, records []domain.Bookmark) ([]domain.Bookmark, error) {
	now := time.Now().UTC()
	pipe := s.client.Pipeline()

	stored := make([]domain.Bookmark, 0, len(records))
	for _, r := range records {
		r.ID = uuid.NewString()
		r.CreatedAt = now

		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bookmark %s: %w", r.ID, err)
		}

		pipe.Set(ctx, BookmarkKey(accessKey, r.ID), data, 0)
		pipe.SAdd(ctx, BookmarkSetKey(accessKey), r.ID)
		stored = append(stored, r)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save bookmarks: %w", err)
	}

	return stored, nil
}

// ListBookmarks returns a page of bookmarks ordered by creation time
// descending, with the total count of matching records.
func (s *Store) ListBookmarks(ctx context.Context, accessKey string, opt store.ListOptions) ([]domain.Bookmark, int, error) {
	all, err := s.loadBookmarks(ctx, accessKey)
	if err != nil {
		return nil, 0, err
	}

	matched := all[:0]
	for _, b := range all {
		if store.MatchBookmark(b, opt) {
			matched = append(matched, b)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	lo, hi := store.PageBounds(len(matched), opt.Offset, opt.Limit)
	return matched[lo:hi], len(matched), nil
}

// BookmarksForExport returns every bookmark ordered by category
// ascending, then creation time descending.
func (s *Store) BookmarksForExport(ctx context.Context, accessKey string) ([]domain.Bookmark, error) {
	all, err := s.loadBookmarks(ctx, accessKey)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return all, nil
}

// BookmarkURLs returns the raw URL of every bookmark in the namespace.
func (s *Store) BookmarkURLs(ctx context.Context, accessKey string) ([]string, error) {
	all, err := s.loadBookmarks(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(all))
	for _, b := range all {
		urls = append(urls, b.URL)
	}
	return urls, nil
}

// UpdateBookmark overwrites a record. The id must already exist.
func (s *Store) UpdateBookmark(ctx context.Context, accessKey string, record domain.Bookmark) error {
	existing, err := s.getBookmark(ctx, accessKey, record.ID)
	if err != nil {
		return err
	}

	// CreatedAt is immutable.
	record.CreatedAt = existing.CreatedAt

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	if err := s.client.Set(ctx, BookmarkKey(accessKey, record.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	return nil
}

// DeleteBookmarks removes records by id in a single pipeline.
func (s *Store) DeleteBookmarks(ctx context.Context, accessKey string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, BookmarkKey(accessKey, id))
		pipe.SRem(ctx, BookmarkSetKey(accessKey), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	return nil
}

func (s *Store) getBookmark(ctx context.Context, accessKey, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(accessKey, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, domain.ErrNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return b, nil
}

// loadBookmarks fetches every bookmark in the namespace with one MGET.
func (s *Store) loadBookmarks(ctx context.Context, accessKey string) ([]domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, BookmarkSetKey(accessKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Bookmark{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, BookmarkKey(accessKey, id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Id set out of sync with the value key, skip.
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			continue
		}
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, nil
}
