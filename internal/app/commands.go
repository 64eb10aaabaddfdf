package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

type IngestionService struct {
	feed  domain.ReviewFeed
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewIngestionService(f domain.ReviewFeed, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{feed: f, repo: r, cache: cache}
}

// IngestProduct pulls up to limit raw reviews from the feed and stores them unmodified;
// normalization happens when insights are computed. It returns the number of records stored.
func (s *IngestionService) IngestProduct(ctx context.Context, productID string, limit int) (int, error) {
	raw, err := s.feed.GetReviews(ctx, productID, limit)
	if err != nil {
		switch {
		// 404: unknown product -> record miss, drop cached insights, stop gracefully.
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, productID, 404, "not found")
			s.invalidate(ctx, productID)
			return 0, nil
		// 401/403: feed refused us for this product
		case errors.Is(err, domain.ErrUnauthorized):
			_ = s.repo.LogMiss(ctx, productID, 403, "unauthorized")
			s.invalidate(ctx, productID)
			return 0, nil
		}
		return 0, err
	}

	records := mapRawReviews(productID, raw)
	if len(records) > 0 {
		if err := s.repo.UpsertRawReviews(ctx, records); err != nil {
			return 0, fmt.Errorf("upsert reviews failed for %s: %w", productID, err)
		}
	}
	// even with zero reviews, invalidate so stale payloads are not served
	s.invalidate(ctx, productID)
	return len(records), nil
}

// invalidate drops every cached insight variant (window/aspect) of the product.
func (s *IngestionService) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelPrefix(ctx, insightsPrefix(productID)); err != nil {
		log.Warn().Err(err).Str("product", productID).Msg("insight cache invalidation failed")
	}
}
