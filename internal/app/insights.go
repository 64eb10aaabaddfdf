package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/aspect"
	"review_insights/internal/domain"
	"review_insights/internal/sentiment"
	"review_insights/internal/trend"
)

// DefaultWindow is the trend bucket width when none is configured.
const DefaultWindow = 7 * 24 * time.Hour

// Options select the trend window and an optional aspect-scoped trend.
type Options struct {
	Window time.Duration
	Aspect string
}

// Assembler runs normalize → score → extract → aggregate for one product.
// It holds only read-only configuration, so one instance serves concurrent calls.
type Assembler struct {
	normalizer *Normalizer
	model      *sentiment.Model
	catalog    *aspect.Catalog
	workers    int
}

func NewAssembler(n *Normalizer, m *sentiment.Model, c *aspect.Catalog, workers int) *Assembler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Assembler{normalizer: n, model: m, catalog: c, workers: workers}
}

// Analysis is the per-review output of the pipeline, in input order.
type Analysis struct {
	Reviews  []domain.ScoredReview
	Mentions []domain.AspectMention
	Rejected map[string]int // by reason
}

func (a Analysis) RejectedCount() int {
	n := 0
	for _, c := range a.Rejected {
		n += c
	}
	return n
}

type reviewResult struct {
	scored   domain.ScoredReview
	mentions []domain.AspectMention
	err      error
}

// Analyze normalizes, scores and extracts aspects for every record in parallel.
// Malformed records are counted and dropped.
func (a *Assembler) Analyze(ctx context.Context, productID string, raws []domain.RawReviewRecord) (Analysis, error) {
	extractor := aspect.NewExtractor(a.model, a.catalog.For(productID))
	results := make([]reviewResult, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.process(raws[i], extractor)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	out := Analysis{Rejected: map[string]int{}}
	for i, r := range results {
		if r.err != nil {
			reason := "unknown"
			var re *domain.RecordError
			if errors.As(r.err, &re) {
				reason = re.Reason
			}
			out.Rejected[reason]++
			observability.ObserveRejected(reason)
			log.Debug().Str("product", productID).Int("index", i).Err(r.err).Msg("review rejected")
			continue
		}
		out.Reviews = append(out.Reviews, r.scored)
		out.Mentions = append(out.Mentions, r.mentions...)
	}
	return out, nil
}

func (a *Assembler) process(raw domain.RawReviewRecord, e *aspect.Extractor) reviewResult {
	rv, err := a.normalizer.Normalize(raw)
	if err != nil {
		return reviewResult{err: err}
	}
	res := a.model.Score(rv.Text)
	return reviewResult{
		scored:   domain.ScoredReview{Review: rv, Score: res.Score, Label: res.Label},
		mentions: e.Extract(rv),
	}
}

// Assemble builds the insight payload for productID. When no record survives
// normalization it returns a placeholder payload and domain.ErrInsufficientData.
func (a *Assembler) Assemble(ctx context.Context, productID string, raws []domain.RawReviewRecord, opts Options) (domain.InsightPayload, error) {
	start := time.Now()
	p, err := a.assemble(ctx, productID, raws, opts)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		observability.ObservePipeline("insufficient_data", time.Since(start))
	case err != nil:
		observability.ObservePipeline("error", time.Since(start))
	default:
		observability.ObservePipeline("ok", time.Since(start))
	}
	return p, err
}

func (a *Assembler) assemble(ctx context.Context, productID string, raws []domain.RawReviewRecord, opts Options) (domain.InsightPayload, error) {
	if opts.Window == 0 {
		opts.Window = DefaultWindow
	}
	if opts.Window < 0 {
		return domain.InsightPayload{}, fmt.Errorf("%w: window must be positive, got %s", domain.ErrConfiguration, opts.Window)
	}
	opts.Aspect = aspect.Canonical(opts.Aspect)

	an, err := a.Analyze(ctx, productID, raws)
	if err != nil {
		return domain.InsightPayload{}, err
	}
	if len(an.Reviews) == 0 {
		return domain.Placeholder(productID, an.RejectedCount()),
			fmt.Errorf("product %s: %w", productID, domain.ErrInsufficientData)
	}

	buckets, err := trend.Aggregate(an.Reviews, an.Mentions, opts.Window, opts.Aspect, a.model.Label)
	if err != nil {
		return domain.InsightPayload{}, err
	}
	p := domain.InsightPayload{
		ProductID:     productID,
		Status:        domain.StatusOK,
		ReviewCount:   len(an.Reviews),
		RejectedCount: an.RejectedCount(),
		Trend:         buckets,
	}
	p.Overall, p.AverageRating, p.Ratings = a.overall(an.Reviews)
	p.Aspects = a.aspects(an.Mentions)
	return p, nil
}

// overall is the plain mean of review scores, not a vote over labels.
func (a *Assembler) overall(reviews []domain.ScoredReview) (domain.OverallSentiment, float64, map[string]domain.RatingSentiment) {
	var (
		sum, ratingSum float64
		counts         domain.LabelCounts
		byStar         = map[int]*domain.RatingSentiment{}
	)
	for _, r := range reviews {
		sum += r.Score
		ratingSum += float64(r.Rating)
		counts.Add(r.Label)
		b, ok := byStar[r.Rating]
		if !ok {
			b = &domain.RatingSentiment{}
			byStar[r.Rating] = b
		}
		b.Count++
		b.MeanScore += r.Score
	}
	ratings := make(map[string]domain.RatingSentiment, len(byStar))
	for star, b := range byStar {
		b.MeanScore /= float64(b.Count)
		ratings[strconv.Itoa(star)] = *b
	}
	n := float64(len(reviews))
	return domain.OverallSentiment{Score: sum / n, Label: a.model.Label(sum / n), LabelCounts: counts},
		ratingSum / n, ratings
}

// aspects averages every mention of each aspect across all reviews.
func (a *Assembler) aspects(ms []domain.AspectMention) map[string]domain.AspectSummary {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, m := range ms {
		sums[m.Aspect] += m.Score
		counts[m.Aspect]++
	}
	out := make(map[string]domain.AspectSummary, len(sums))
	for term, s := range sums {
		mean := s / float64(counts[term])
		out[term] = domain.AspectSummary{Score: mean, Label: a.model.Label(mean), Count: counts[term]}
	}
	return out
}
