package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"review_insights/internal/aspect"
	"review_insights/internal/domain"
)

type QueryService struct {
	repo      domain.ReviewRepository
	cache     domain.Cache
	cacheTTL  time.Duration
	assembler *Assembler
	maxReview int
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration, a *Assembler, maxReviews int) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, assembler: a, maxReview: maxReviews}
}

func insightsPrefix(productID string) string { return fmt.Sprintf("insights:%s:", productID) }

func insightsKey(productID string, opts Options) string {
	return fmt.Sprintf("%s%s:%s", insightsPrefix(productID), opts.Window, opts.Aspect)
}

// Insights serves a cached payload when present. Placeholder payloads for products without
// usable reviews are returned with domain.ErrInsufficientData and never cached.
func (s *QueryService) Insights(ctx context.Context, productID string, opts Options) (domain.InsightPayload, error) {
	if opts.Window == 0 {
		opts.Window = DefaultWindow
	}
	opts.Aspect = aspect.Canonical(opts.Aspect)
	key := insightsKey(productID, opts)
	var out domain.InsightPayload
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	raws, err := s.repo.ListRawReviews(ctx, productID, s.maxReview)
	if err != nil {
		return domain.InsightPayload{}, err
	}
	out, err = s.assembler.Assemble(ctx, productID, raws, opts)
	if err != nil {
		return out, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// ReviewView is one scored review with its aspect mentions, for review tables.
type ReviewView struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Rating    int          `json:"rating"`
	Timestamp time.Time    `json:"timestamp"`
	Lang      string       `json:"lang"`
	Score     float64      `json:"score"`
	Label     domain.Label `json:"label"`
	Aspects   []AspectView `json:"aspects"`
}

type AspectView struct {
	Aspect string       `json:"aspect"`
	Window string       `json:"window"`
	Score  float64      `json:"score"`
	Label  domain.Label `json:"label"`
}

type ReviewsPage struct {
	Items    []ReviewView `json:"items"`
	Rejected int          `json:"rejected"`
}

// Reviews lists the newest scored reviews of a product, newest first.
func (s *QueryService) Reviews(ctx context.Context, productID string, limit int) (ReviewsPage, error) {
	raws, err := s.repo.ListRawReviews(ctx, productID, s.maxReview)
	if err != nil {
		return ReviewsPage{}, err
	}
	an, err := s.assembler.Analyze(ctx, productID, raws)
	if err != nil {
		return ReviewsPage{}, err
	}
	if len(an.Reviews) == 0 {
		return ReviewsPage{Items: []ReviewView{}, Rejected: an.RejectedCount()},
			fmt.Errorf("product %s: %w", productID, domain.ErrInsufficientData)
	}

	byReview := map[string][]AspectView{}
	for _, m := range an.Mentions {
		byReview[m.ReviewID] = append(byReview[m.ReviewID], AspectView{Aspect: m.Aspect, Window: m.Window, Score: m.Score, Label: m.Label})
	}
	items := make([]ReviewView, 0, len(an.Reviews))
	for _, r := range an.Reviews {
		aspects := byReview[r.ID]
		if aspects == nil {
			aspects = []AspectView{}
		}
		items = append(items, ReviewView{
			ID: r.ID, Text: r.Text, Rating: r.Rating, Timestamp: r.Timestamp, Lang: r.Lang,
			Score: r.Score, Label: r.Label, Aspects: aspects,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return ReviewsPage{Items: items, Rejected: an.RejectedCount()}, nil
}

// IsNoData reports whether err means the product has nothing to show yet.
func IsNoData(err error) bool { return errors.Is(err, domain.ErrInsufficientData) }
