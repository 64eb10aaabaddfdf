// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insights/internal/app"
	"review_insights/internal/domain"
)

// Queries is the read side the handlers need; *app.QueryService satisfies it.
type Queries interface {
	Insights(ctx context.Context, productID string, opts app.Options) (domain.InsightPayload, error)
	Reviews(ctx context.Context, productID string, limit int) (app.ReviewsPage, error)
}

type Handlers struct {
	Q Queries
	// Window is used when the request has no ?window=.
	Window time.Duration
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/products/{id}/insights", h.getInsights)
	s.mux.Get("/v1/products/{id}/reviews", h.listReviews)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag, or 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any, name string) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msgf("failed to write %s body", name)
	}
}

func productID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	return id, id != "" && len(id) <= 64
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "product id must be 1-64 characters")
		return
	}

	opts := app.Options{Window: h.Window, Aspect: r.URL.Query().Get("aspect")}
	if ws := r.URL.Query().Get("window"); ws != "" {
		d, err := app.ParseWindow(ws)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid window", "window must be a duration of at least 1h such as 7d, 2w or 36h")
			return
		}
		opts.Window = d
	}

	resp, err := h.Q.Insights(r.Context(), id, opts)
	switch {
	case err == nil, app.IsNoData(err):
		// no usable reviews yet: dashboards render the placeholder
		writeJSON(w, r, resp, "getInsights")
	case errors.Is(err, domain.ErrConfiguration):
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		log.Error().Err(err).Str("product", id).Msg("insights failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not compute insights")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "product id must be 1-64 characters")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Q.Reviews(r.Context(), id, limit)
	if err != nil && !app.IsNoData(err) {
		log.Error().Err(err).Str("product", id).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not list reviews")
		return
	}
	writeJSON(w, r, out, "listReviews")
}
