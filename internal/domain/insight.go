package domain

const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

// InsightPayload is the response contract for one product query.
type InsightPayload struct {
	ProductID     string                     `json:"product_id"`
	Status        string                     `json:"status"`
	ReviewCount   int                        `json:"review_count"`
	RejectedCount int                        `json:"rejected_count"`
	AverageRating float64                    `json:"average_rating"`
	Overall       OverallSentiment           `json:"overall"`
	Aspects       map[string]AspectSummary   `json:"aspects"`
	Ratings       map[string]RatingSentiment `json:"ratings"`
	Trend         []TrendBucket              `json:"trend"`
}

type OverallSentiment struct {
	Score       float64     `json:"score"`
	Label       Label       `json:"label"`
	LabelCounts LabelCounts `json:"label_counts"`
}

type AspectSummary struct {
	Score float64 `json:"score"`
	Label Label   `json:"label"`
	Count int     `json:"count"`
}

// RatingSentiment is the sentiment of all reviews sharing one star rating.
type RatingSentiment struct {
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"`
}

// Placeholder is returned to dashboards when a product has no usable reviews.
func Placeholder(productID string, rejected int) InsightPayload {
	return InsightPayload{
		ProductID:     productID,
		Status:        StatusInsufficientData,
		RejectedCount: rejected,
		Overall:       OverallSentiment{Label: Neutral},
		Aspects:       map[string]AspectSummary{},
		Ratings:       map[string]RatingSentiment{},
		Trend:         []TrendBucket{},
	}
}
