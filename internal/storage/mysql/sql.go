package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const insertRawReviewsPrefix = "INSERT INTO raw_reviews\n  (product_id, review_key, reviewer_id, rating, `text`, submitted_at, locale)\nVALUES "

// Re-ingesting a review refreshes mutable fields; the key columns stay put.
const insertRawReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  reviewer_id  = COALESCE(VALUES(reviewer_id), raw_reviews.reviewer_id),\n" +
	"  rating       = VALUES(rating),\n" +
	"  submitted_at = COALESCE(VALUES(submitted_at), raw_reviews.submitted_at),\n" +
	"  locale       = COALESCE(VALUES(locale), raw_reviews.locale),\n" +
	"  updated_at   = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO ingest_misses (product_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Ingestion order; served by idx_raw_reviews_product.
const listRawReviewsSQL = "SELECT product_id, reviewer_id, rating, `text`, submitted_at, locale\n" +
	"FROM raw_reviews\n" +
	"WHERE product_id = ?\n" +
	"ORDER BY id ASC\n" +
	"LIMIT ?"
