package trend_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/domain"
	"review_insights/internal/sentiment"
	"review_insights/internal/trend"
)

const week = 7 * 24 * time.Hour

var (
	day1   = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	labels = sentiment.DefaultThresholds.Label
)

func scored(id string, dayN int, score float64) domain.ScoredReview {
	return domain.ScoredReview{
		Review: domain.Review{ID: id, Timestamp: day1.AddDate(0, 0, dayN-1).Add(9 * time.Hour)},
		Score:  score,
		Label:  labels(score),
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	reviews := []domain.ScoredReview{
		scored("a", 1, 0.8),
		scored("b", 3, -0.6),
		scored("c", 10, 0.1),
	}
	got, err := trend.Aggregate(reviews, nil, week, "", labels)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, day1, got[0].Start)
	assert.Equal(t, day1.AddDate(0, 0, 7), got[0].End)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 0.1, got[0].MeanScore, 1e-9)
	assert.Equal(t, domain.LabelCounts{Positive: 1, Negative: 1}, got[0].LabelCounts)

	assert.Equal(t, day1.AddDate(0, 0, 7), got[1].Start)
	assert.Equal(t, day1.AddDate(0, 0, 14), got[1].End)
	assert.Equal(t, 1, got[1].Count)
	assert.InDelta(t, 0.1, got[1].MeanScore, 1e-9)
}

func TestAggregate_EmptyInput(t *testing.T) {
	got, err := trend.Aggregate(nil, nil, week, "", labels)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_InvalidWindow(t *testing.T) {
	_, err := trend.Aggregate([]domain.ScoredReview{scored("a", 1, 0)}, nil, 0, "", labels)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestAggregate_TooManyBuckets(t *testing.T) {
	reviews := []domain.ScoredReview{
		scored("a", 1, 0.5),
		scored("b", 366, -0.5),
	}
	for _, w := range []time.Duration{time.Nanosecond, time.Second, time.Minute} {
		_, err := trend.Aggregate(reviews, nil, w, "", labels)
		assert.True(t, errors.Is(err, domain.ErrConfiguration), "window %s", w)
	}

	got, err := trend.Aggregate(reviews, nil, time.Hour, "", labels)
	require.NoError(t, err)
	assert.Len(t, got, 365*24+1)
	assert.LessOrEqual(t, len(got), trend.MaxBuckets)
}

func TestAggregate_GapFreeAndOrdered(t *testing.T) {
	reviews := []domain.ScoredReview{
		scored("late", 40, -0.2),
		scored("early", 2, 0.5),
		scored("mid", 20, 0.3),
	}
	got, err := trend.Aggregate(reviews, nil, week, "", labels)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	total := 0
	for i, b := range got {
		total += b.Count
		assert.Equal(t, week, b.End.Sub(b.Start))
		if i > 0 {
			assert.Equal(t, got[i-1].End, b.Start, "bucket %d is not contiguous", i)
		}
		if b.Count == 0 {
			assert.Equal(t, 0.0, b.MeanScore)
		}
	}
	assert.Equal(t, len(reviews), total)
	assert.False(t, got[0].Start.After(reviews[1].Timestamp))
	assert.True(t, got[len(got)-1].End.After(reviews[0].Timestamp))
}

func TestAggregate_AspectFilter(t *testing.T) {
	reviews := []domain.ScoredReview{
		scored("a", 1, 0.8),
		scored("b", 9, -0.6),
		scored("c", 17, 0.1),
	}
	mentions := []domain.AspectMention{
		{ReviewID: "a", Aspect: "battery", Score: -0.4},
		{ReviewID: "a", Aspect: "battery", Score: -0.2},
		{ReviewID: "a", Aspect: "screen", Score: 0.9},
		{ReviewID: "c", Aspect: "battery", Score: 0.6},
	}
	got, err := trend.Aggregate(reviews, mentions, week, "battery", labels)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "battery", got[0].Aspect)
	assert.Equal(t, 1, got[0].Count)
	assert.InDelta(t, -0.3, got[0].MeanScore, 1e-9)
	assert.Equal(t, domain.LabelCounts{Negative: 1}, got[0].LabelCounts)

	assert.Equal(t, 0, got[1].Count, "review b has no battery mention")
	assert.Equal(t, 0.0, got[1].MeanScore)

	assert.Equal(t, 1, got[2].Count)
	assert.InDelta(t, 0.6, got[2].MeanScore, 1e-9)
}

func TestOrigin(t *testing.T) {
	ts := time.Date(2024, 3, 5, 17, 42, 0, 0, time.FixedZone("X", 3*3600))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), trend.Origin(ts, week))
	assert.Equal(t, time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC), trend.Origin(ts, time.Hour))
}
