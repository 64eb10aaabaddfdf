// Package feed pulls raw review records from the upstream scraper service.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: feed API key is required", domain.ErrConfiguration)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API (tries the current endpoint first, falls back to legacy) ----

// GetReviews returns up to limit raw review objects for productID, as the feed sent them.
func (c *Client) GetReviews(ctx context.Context, productID string, limit int) ([]map[string]any, error) {
	id := url.PathEscape(productID)
	candidates := []string{
		fmt.Sprintf("%s/products/%s/reviews?limit=%d", c.base, id, limit), // preferred
		fmt.Sprintf("%s/reviews/%s?limit=%d", c.base, id, limit),          // legacy
	}
	var body json.RawMessage
	if err := c.getFirst(ctx, candidates, &body); err != nil {
		return nil, err
	}
	return decodeReviews(body)
}

// decodeReviews accepts a bare array or an envelope {"reviews": [...]}.
func decodeReviews(body json.RawMessage) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return []map[string]any{}, nil
	}
	var list []map[string]any
	if body[0] == '[' {
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("feed: decode reviews: %w", err)
		}
		return list, nil
	}
	var env struct {
		Reviews []map[string]any `json:"reviews"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("feed: decode reviews: %w", err)
	}
	switch {
	case env.Reviews != nil:
		return env.Reviews, nil
	case env.Data != nil:
		return env.Data, nil
	}
	return []map[string]any{}, nil
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("feed: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("feed: %w", domain.ErrUnauthorized)
)

func (c *Client) getFirst(ctx context.Context, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.get(ctx, u, out); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err // non-404: stop early
		}
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("feed: no candidate URL succeeded")
}

// get performs one rate-limited GET and decodes JSON into out. Failures are
// returned as-is; the ingestor decides whether to try again on its next run.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-insights/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("feed", "reviews", 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("feed: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("feed", "reviews", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("feed: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
