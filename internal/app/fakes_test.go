package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"review_insights/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	raws     []domain.RawReviewRecord
	listErr  error
	lists    int
	upserted []domain.RawReviewRecord
	misses   []int
}

func (f *fakeRepo) UpsertRawReviews(ctx context.Context, rs []domain.RawReviewRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, rs...)
	return nil
}

func (f *fakeRepo) ListRawReviews(ctx context.Context, productID string, limit int) ([]domain.RawReviewRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.raws, f.listErr
}

func (f *fakeRepo) LogMiss(ctx context.Context, productID string, status int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.misses = append(f.misses, status)
	return nil
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	store   map[string][]byte
	sets    int
	delPref []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.sets++
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.delPref = append(c.delPref, prefix)
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

type fakeFeed struct {
	items []map[string]any
	err   error
}

func (f *fakeFeed) GetReviews(ctx context.Context, productID string, limit int) ([]map[string]any, error) {
	return f.items, f.err
}
