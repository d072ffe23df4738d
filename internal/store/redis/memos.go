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

// InsertMemo stores a single memo, assigning id and creation time.
func (s *Store) InsertMemo(ctx context.Context, accessKey string, record domain.Memo) (domain.Memo, error) {
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(record)
	if err != nil {
		return domain.Memo{}, fmt.Errorf("failed to marshal memo: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, MemoKey(accessKey, record.ID), data, 0)
	pipe.SAdd(ctx, MemoSetKey(accessKey), record.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Memo{}, fmt.Errorf("failed to save memo: %w", err)
	}

	return record, nil
}

// ListMemos returns a page of memos ordered by creation time descending,
// with the total count of matching records.
func (s *Store) ListMemos(ctx context.Context, accessKey string, opt store.ListOptions) ([]domain.Memo, int, error) {
	all, err := s.loadMemos(ctx, accessKey)
	if err != nil {
		return nil, 0, err
	}

	matched := all[:0]
	for _, m := range all {
		if store.MatchMemo(m, opt) {
			matched = append(matched, m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	lo, hi := store.PageBounds(len(matched), opt.Offset, opt.Limit)
	return matched[lo:hi], len(matched), nil
}

// UpdateMemo overwrites a record. The id must already exist.
func (s *Store) UpdateMemo(ctx context.Context, accessKey string, record domain.Memo) error {
	data, err := s.client.Get(ctx, MemoKey(accessKey, record.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to get memo: %w", err)
	}

	var existing domain.Memo
	if err := json.Unmarshal(data, &existing); err != nil {
		return fmt.Errorf("failed to unmarshal memo: %w", err)
	}
	record.CreatedAt = existing.CreatedAt

	out, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal memo: %w", err)
	}
	if err := s.client.Set(ctx, MemoKey(accessKey, record.ID), out, 0).Err(); err != nil {
		return fmt.Errorf("failed to update memo: %w", err)
	}
	return nil
}

// DeleteMemos removes records by id in a single pipeline.
func (s *Store) DeleteMemos(ctx context.Context, accessKey string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, MemoKey(accessKey, id))
		pipe.SRem(ctx, MemoSetKey(accessKey), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	return nil
}

func (s *Store) loadMemos(ctx context.Context, accessKey string) ([]domain.Memo, error) {
	ids, err := s.client.SMembers(ctx, MemoSetKey(accessKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get memo ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Memo{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, MemoKey(accessKey, id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load memos: %w", err)
	}

	memos := make([]domain.Memo, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var m domain.Memo
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		memos = append(memos, m)
	}

	return memos, nil
}
