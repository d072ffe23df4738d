// Package memory implements store.Store with in-process maps. It backs
// tests and the "memory" driver for running without Redis or Postgres;
// data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkstash/internal/domain"
	"linkstash/internal/store"
)

type namespace struct {
	bookmarks map[string]domain.Bookmark
	memos     map[string]domain.Memo
}

// Store is an in-memory store.Store implementation.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]*namespace
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		namespaces: make(map[string]*namespace),
	}
}

// ns returns the namespace, creating it. Callers must hold the write lock.
func (s *Store) ns(accessKey string) *namespace {
	n, ok := s.namespaces[accessKey]
	if !ok {
		n = &namespace{
			bookmarks: make(map[string]domain.Bookmark),
			memos:     make(map[string]domain.Memo),
		}
		s.namespaces[accessKey] = n
	}
	return n
}

// peek returns the namespace without creating it. Safe under the read lock.
func (s *Store) peek(accessKey string) *namespace {
	if n, ok := s.namespaces[accessKey]; ok {
		return n
	}
	return &namespace{}
}

// InsertBookmarks persists records, assigning ids and creation times.
func (s *Store) InsertBookmarks(_ context.Context, accessKey string, records []domain.Bookmark) ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(accessKey)
	now := time.Now().UTC()

	stored := make([]domain.Bookmark, 0, len(records))
	for i, r := range records {
		r.ID = uuid.NewString()
		// Distinct timestamps keep batch inserts in a stable order.
		r.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		n.bookmarks[r.ID] = r
		stored = append(stored, r)
	}
	return stored, nil
}

// ListBookmarks returns a page ordered by creation time descending.
func (s *Store) ListBookmarks(_ context.Context, accessKey string, opt store.ListOptions) ([]domain.Bookmark, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Bookmark
	for _, b := range s.peek(accessKey).bookmarks {
		if store.MatchBookmark(b, opt) {
			matched = append(matched, b)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	lo, hi := store.PageBounds(len(matched), opt.Offset, opt.Limit)
	return matched[lo:hi], len(matched), nil
}

// BookmarksForExport returns all bookmarks ordered by category
// ascending, then creation time descending.
func (s *Store) BookmarksForExport(_ context.Context, accessKey string) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.Bookmark
	for _, b := range s.peek(accessKey).bookmarks {
		all = append(all, b)
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
func (s *Store) BookmarkURLs(_ context.Context, accessKey string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var urls []string
	for _, b := range s.peek(accessKey).bookmarks {
		urls = append(urls, b.URL)
	}
	return urls, nil
}

// UpdateBookmark overwrites a record, keeping CreatedAt.
func (s *Store) UpdateBookmark(_ context.Context, accessKey string, record domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(accessKey)
	existing, ok := n.bookmarks[record.ID]
	if !ok {
		return domain.ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	n.bookmarks[record.ID] = record
	return nil
}

// DeleteBookmarks removes records by id. Unknown ids are ignored.
func (s *Store) DeleteBookmarks(_ context.Context, accessKey string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(accessKey)
	for _, id := range ids {
		delete(n.bookmarks, id)
	}
	return nil
}

// InsertMemo persists a memo, assigning id and creation time.
func (s *Store) InsertMemo(_ context.Context, accessKey string, record domain.Memo) (domain.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	s.ns(accessKey).memos[record.ID] = record
	return record, nil
}

// ListMemos returns a page ordered by creation time descending.
func (s *Store) ListMemos(_ context.Context, accessKey string, opt store.ListOptions) ([]domain.Memo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Memo
	for _, m := range s.peek(accessKey).memos {
		if store.MatchMemo(m, opt) {
			matched = append(matched, m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	lo, hi := store.PageBounds(len(matched), opt.Offset, opt.Limit)
	return matched[lo:hi], len(matched), nil
}

// UpdateMemo overwrites a record, keeping CreatedAt.
func (s *Store) UpdateMemo(_ context.Context, accessKey string, record domain.Memo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(accessKey)
	existing, ok := n.memos[record.ID]
	if !ok {
		return domain.ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	n.memos[record.ID] = record
	return nil
}

// DeleteMemos removes records by id. Unknown ids are ignored.
func (s *Store) DeleteMemos(_ context.Context, accessKey string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(accessKey)
	for _, id := range ids {
		delete(n.memos, id)
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }
