// Package trend buckets scored reviews into a gap-free time series.
package trend

import (
	"fmt"
	"time"

	"review_insights/internal/domain"
)

const day = 24 * time.Hour

// MaxBuckets bounds one series. A window too fine for the review history is rejected.
const MaxBuckets = 10000

// Aggregate buckets reviews into contiguous windows covering the earliest to the latest
// review timestamp. With an aspect filter each review contributes the mean score of its
// mentions of that aspect, and reviews without one are skipped. Empty windows still get a
// bucket so charts never show gaps. Labels come from labeler.
func Aggregate(
	reviews []domain.ScoredReview,
	mentions []domain.AspectMention,
	window time.Duration,
	aspect string,
	labeler func(float64) domain.Label,
) ([]domain.TrendBucket, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: trend window must be positive, got %s", domain.ErrConfiguration, window)
	}
	if len(reviews) == 0 {
		return []domain.TrendBucket{}, nil
	}

	first, last := reviews[0].Timestamp, reviews[0].Timestamp
	for _, r := range reviews[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	origin := Origin(first, window)
	span := last.Sub(origin) / window
	if span >= MaxBuckets {
		return nil, fmt.Errorf("%w: a %s window over %s of reviews exceeds %d buckets",
			domain.ErrConfiguration, window, last.Sub(first), MaxBuckets)
	}
	n := int(span) + 1

	buckets := make([]domain.TrendBucket, n)
	sums := make([]float64, n)
	for i := range buckets {
		start := origin.Add(time.Duration(i) * window)
		buckets[i] = domain.TrendBucket{Start: start, End: start.Add(window), Aspect: aspect}
	}

	var aspectScores map[string]float64
	if aspect != "" {
		aspectScores = perReview(mentions, aspect)
	}
	for _, r := range reviews {
		score := r.Score
		label := r.Label
		if aspectScores != nil {
			s, ok := aspectScores[r.ID]
			if !ok {
				continue
			}
			score, label = s, labeler(s)
		}
		i := int(r.Timestamp.Sub(origin) / window)
		buckets[i].Count++
		buckets[i].LabelCounts.Add(label)
		sums[i] += score
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].MeanScore = sums[i] / float64(buckets[i].Count)
		}
	}
	return buckets, nil
}

// Origin is the start of the first bucket: t truncated to UTC midnight for windows of a
// day or longer, otherwise truncated to the window itself.
func Origin(t time.Time, window time.Duration) time.Time {
	t = t.UTC()
	if window >= day {
		return t.Truncate(day)
	}
	return t.Truncate(window)
}

// perReview averages each review's mentions of aspect, in mention order.
func perReview(mentions []domain.AspectMention, aspect string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, m := range mentions {
		if m.Aspect != aspect {
			continue
		}
		sums[m.ReviewID] += m.Score
		counts[m.ReviewID]++
	}
	for id, c := range counts {
		sums[id] /= float64(c)
	}
	return sums
}
