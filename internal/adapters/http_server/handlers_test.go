package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "review_insights/internal/adapters/http_server"
	"review_insights/internal/app"
	"review_insights/internal/domain"
)

type fakeQueries struct {
	gotID   string
	gotOpts app.Options
	gotLim  int
	payload domain.InsightPayload
	page    app.ReviewsPage
	err     error
}

func (f *fakeQueries) Insights(ctx context.Context, productID string, opts app.Options) (domain.InsightPayload, error) {
	f.gotID, f.gotOpts = productID, opts
	return f.payload, f.err
}

func (f *fakeQueries) Reviews(ctx context.Context, productID string, limit int) (app.ReviewsPage, error) {
	f.gotID, f.gotLim = productID, limit
	return f.page, f.err
}

func newServer(q *fakeQueries) http.Handler {
	s := httpserver.New(time.Second)
	s.MountHandlers(&httpserver.Handlers{Q: q, Window: 7 * 24 * time.Hour})
	return s.Mux()
}

func do(t *testing.T, h http.Handler, target string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(&fakeQueries{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestInsights_OK(t *testing.T) {
	q := &fakeQueries{payload: domain.InsightPayload{ProductID: "B0D1", Status: domain.StatusOK, ReviewCount: 3}}
	h := newServer(q)

	rec := do(t, h, "/v1/products/B0D1/insights?window=2w&aspect=battery")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "B0D1", q.gotID)
	assert.Equal(t, app.Options{Window: 14 * 24 * time.Hour, Aspect: "battery"}, q.gotOpts)

	var got domain.InsightPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.ReviewCount)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rec = do(t, h, "/v1/products/B0D1/insights?window=2w&aspect=battery", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestInsights_DefaultWindow(t *testing.T) {
	q := &fakeQueries{}
	do(t, newServer(q), "/v1/products/B0D1/insights")
	assert.Equal(t, 7*24*time.Hour, q.gotOpts.Window)
	assert.Empty(t, q.gotOpts.Aspect)
}

func TestInsights_InsufficientDataIsPlaceholder(t *testing.T) {
	q := &fakeQueries{
		payload: domain.Placeholder("B0D1", 4),
		err:     fmt.Errorf("product B0D1: %w", domain.ErrInsufficientData),
	}
	rec := do(t, newServer(q), "/v1/products/B0D1/insights")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusInsufficientData, got["status"])
	assert.Equal(t, 4.0, got["rejected_count"])
	assert.Equal(t, []any{}, got["trend"])
}

func TestInsights_BadWindow(t *testing.T) {
	for _, w := range []string{"-3d", "1ns", "1s", "999999999999d", "soon"} {
		q := &fakeQueries{}
		rec := do(t, newServer(q), "/v1/products/B0D1/insights?window="+w)
		assert.Equal(t, http.StatusBadRequest, rec.Code, w)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"), w)
		assert.Empty(t, q.gotID, "query service must not be called for %s", w)
	}
}

func TestInsights_TooManyBucketsIsBadRequest(t *testing.T) {
	q := &fakeQueries{err: fmt.Errorf("%w: a 1h0m0s window exceeds 10000 buckets", domain.ErrConfiguration)}
	rec := do(t, newServer(q), "/v1/products/B0D1/insights?window=1h")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsights_InternalError(t *testing.T) {
	rec := do(t, newServer(&fakeQueries{err: errors.New("db down")}), "/v1/products/B0D1/insights")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var p map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotContains(t, p["detail"], "db down")
}

func TestReviews(t *testing.T) {
	q := &fakeQueries{page: app.ReviewsPage{Items: []app.ReviewView{{ID: "r1", Rating: 5, Label: domain.Positive, Aspects: []app.AspectView{}}}}}
	h := newServer(q)

	rec := do(t, h, "/v1/products/B0D1/reviews?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, q.gotLim)
	var got app.ReviewsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "r1", got.Items[0].ID)

	do(t, h, "/v1/products/B0D1/reviews")
	assert.Equal(t, 50, q.gotLim)

	for _, bad := range []string{"0", "201", "ten"} {
		rec := do(t, h, "/v1/products/B0D1/reviews?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestReviews_NoData(t *testing.T) {
	q := &fakeQueries{
		page: app.ReviewsPage{Items: []app.ReviewView{}, Rejected: 2},
		err:  domain.ErrInsufficientData,
	}
	rec := do(t, newServer(q), "/v1/products/B0D1/reviews")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"rejected":2}`, rec.Body.String())
}
