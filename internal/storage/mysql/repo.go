package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"review_insights/internal/domain"
)

const (
	// rows per INSERT statement; 7 params each stays far below the placeholder limit
	upsertBatch = 500
	// ListRawReviews cap when the caller passes no limit
	defaultListLimit = 10000
)

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ReviewKey identifies a raw record within its product, so re-ingesting the same
// feed page updates rows instead of duplicating them.
func ReviewKey(r domain.RawReviewRecord) string {
	sig := strings.Join([]string{r.ProductID, r.ReviewerID, r.Timestamp, r.Text}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertRawReviews(ctx context.Context, rs []domain.RawReviewRecord) error {
	for start := 0; start < len(rs); start += upsertBatch {
		end := min(start+upsertBatch, len(rs))
		if err := r.upsertBatch(ctx, rs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) upsertBatch(ctx context.Context, rs []domain.RawReviewRecord) error {
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*7)
	for _, rv := range rs {
		// (product_id, review_key, reviewer_id, rating, `text`, submitted_at, locale)
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args,
			rv.ProductID,
			ReviewKey(rv),
			nullIfEmpty(rv.ReviewerID),
			rv.Rating,
			rv.Text,
			nullIfEmpty(rv.Timestamp),
			nullIfEmpty(rv.Locale),
		)
	}
	sqlStr := insertRawReviewsPrefix + strings.Join(values, ",") + insertRawReviewsOnDup
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert %d raw reviews: %w", len(rs), err)
	}
	return nil
}

// ListRawReviews returns stored records in ingestion order, as they came from the feed.
func (r *Repo) ListRawReviews(ctx context.Context, productID string, limit int) ([]domain.RawReviewRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, listRawReviewsSQL, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RawReviewRecord{}
	for rows.Next() {
		var rv domain.RawReviewRecord
		var reviewer, submitted, locale sql.NullString
		if err := rows.Scan(&rv.ProductID, &reviewer, &rv.Rating, &rv.Text, &submitted, &locale); err != nil {
			return nil, err
		}
		rv.ReviewerID = reviewer.String
		rv.Timestamp = submitted.String
		rv.Locale = locale.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) LogMiss(ctx context.Context, productID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, productID, status, reason)
	return err
}
