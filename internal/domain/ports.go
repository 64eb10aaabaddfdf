package domain

import "context"

type ReviewRepository interface {
	UpsertRawReviews(ctx context.Context, rs []RawReviewRecord) error
	ListRawReviews(ctx context.Context, productID string, limit int) ([]RawReviewRecord, error)
	LogMiss(ctx context.Context, productID string, status int, reason string) error
}

// ReviewFeed is the scraping collaborator.
type ReviewFeed interface {
	GetReviews(ctx context.Context, productID string, limit int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}
