package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/domain"
)

func decode(t *testing.T, s string) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestMapRawReviews_Aliases(t *testing.T) {
	in := decode(t, `[
		{"product_id":"P1","reviewer_id":"u1","text":"Great","rating":5,"timestamp":"2024-03-01T10:00:00Z","locale":"en-US"},
		{"asin":"P1","author":"bob","body":"Meh","stars":"3.0 out of 5 stars","date":"March 2, 2024","marketplace":"fr"},
		{"user":{"id":"u3"},"content":"Fine","rating":{"value":4.6},"created_at":1709251200}
	]`)

	got := mapRawReviews("P1", in)
	require.Len(t, got, 3)
	assert.Equal(t, domain.RawReviewRecord{
		ProductID: "P1", ReviewerID: "u1", Text: "Great", Rating: 5, Timestamp: "2024-03-01T10:00:00Z", Locale: "en-US",
	}, got[0])
	assert.Equal(t, domain.RawReviewRecord{
		ProductID: "P1", ReviewerID: "bob", Text: "Meh", Rating: 3, Timestamp: "March 2, 2024", Locale: "fr",
	}, got[1])
	assert.Equal(t, domain.RawReviewRecord{
		ProductID: "P1", ReviewerID: "u3", Text: "Fine", Rating: 4, Timestamp: "2024-03-01T00:00:00Z",
	}, got[2])
}

func TestMapRawReviews_Unparseable(t *testing.T) {
	got := mapRawReviews("P9", decode(t, `[{"review":"no rating here","rating":"five"}]`))
	require.Len(t, got, 1)
	assert.Equal(t, "P9", got[0].ProductID, "falls back to the requested product")
	assert.Equal(t, 0, got[0].Rating)
	assert.Empty(t, got[0].Timestamp)

	_, err := NewNormalizer(fixedNow).Normalize(got[0])
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestLookupStr_Numbers(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": 12345678.0}, "c": true}
	assert.Equal(t, "12345678", lookupStr(m, "a.b"))
	assert.Equal(t, "", lookupStr(m, "c"))
	assert.Equal(t, "", lookupStr(m, "a.b.c"))
	assert.Nil(t, lookupAny(m, "missing"))
}
