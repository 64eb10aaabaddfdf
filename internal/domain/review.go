package domain

import "time"

// RawReviewRecord is a review as produced by the scraping feed. Never mutated.
type RawReviewRecord struct {
	ProductID  string `json:"product_id"`
	ReviewerID string `json:"reviewer_id"`
	Text       string `json:"text"`
	Rating     int    `json:"rating"`
	Timestamp  string `json:"timestamp"` // ISO-8601 or scraped date string
	Locale     string `json:"locale"`
}

// Review is the canonical, validated form of a RawReviewRecord.
type Review struct {
	ID         string
	ProductID  string
	ReviewerID string
	Text       string
	Rating     int
	Timestamp  time.Time // UTC
	Lang       string
}

type Label string

const (
	Negative Label = "negative"
	Neutral  Label = "neutral"
	Positive Label = "positive"
)

type ScoredReview struct {
	Review
	Score float64
	Label Label
}

// AspectMention ties an aspect term to the clause of one review it was found in.
type AspectMention struct {
	ReviewID string
	Aspect   string
	Window   string
	Sentence int
	Score    float64
	Label    Label
}

type LabelCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c *LabelCounts) Add(l Label) {
	switch l {
	case Positive:
		c.Positive++
	case Negative:
		c.Negative++
	default:
		c.Neutral++
	}
}

type TrendBucket struct {
	Start       time.Time   `json:"window_start"`
	End         time.Time   `json:"window_end"`
	Aspect      string      `json:"aspect,omitempty"`
	Count       int         `json:"count"`
	MeanScore   float64     `json:"mean_score"`
	LabelCounts LabelCounts `json:"label_counts"`
}
