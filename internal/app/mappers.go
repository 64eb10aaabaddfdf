package app

import (
	"strconv"
	"strings"
	"time"

	"review_insights/internal/domain"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"product":   {"product_id", "productId", "asin", "product.id"},
	"reviewer":  {"reviewer_id", "reviewerId", "author_id", "user_id", "user.id", "reviewer.id", "author", "reviewer.name"},
	"text":      {"text", "body", "review_text", "review", "content", "comment", "message"},
	"rating":    {"rating", "stars", "star_rating", "rating.value", "score"},
	"timestamp": {"timestamp", "submitted_at", "date", "review_date", "created_at", "time"},
	"locale":    {"locale", "source_locale", "lang", "language", "marketplace"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "". Numbers are formatted without exponent.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// ratingFlexible accepts 4, 4.0, "4", "4.0 out of 5 stars". Fractions truncate.
// Unparseable ratings map to 0, which normalization rejects.
func ratingFlexible(m map[string]any) int {
	for _, p := range reviewAliases["rating"] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return int(v)
		case string:
			fields := strings.Fields(strings.ReplaceAll(v, ",", "."))
			if len(fields) == 0 {
				continue
			}
			if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
				return int(f)
			}
		}
	}
	return 0
}

// timestampFlexible passes strings through; numbers are unix seconds.
func timestampFlexible(m map[string]any) string {
	for _, p := range reviewAliases["timestamp"] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
		}
	}
	return ""
}

/********** raw review mapper **********/

func mapRawReviews(productID string, in []map[string]any) []domain.RawReviewRecord {
	out := make([]domain.RawReviewRecord, 0, len(in))
	for _, r := range in {
		pid := firstNonEmptyAlias(r, "product")
		if pid == "" {
			pid = productID
		}
		out = append(out, domain.RawReviewRecord{
			ProductID:  pid,
			ReviewerID: firstNonEmptyAlias(r, "reviewer"),
			Text:       firstNonEmptyAlias(r, "text"),
			Rating:     ratingFlexible(r),
			Timestamp:  timestampFlexible(r),
			Locale:     firstNonEmptyAlias(r, "locale"),
		})
	}
	return out
}
