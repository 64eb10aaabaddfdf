package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrInsufficientData = errors.New("insufficient data")
	ErrConfiguration    = errors.New("configuration error")
)

// Reject reasons, also used as metric labels.
const (
	ReasonEmptyText       = "empty_text"
	ReasonRating          = "rating"
	ReasonTimestamp       = "timestamp"
	ReasonFutureTimestamp = "future_timestamp"
)

// RecordError describes why a single raw record was dropped.
type RecordError struct {
	Reason string
	Detail string
}

func (e *RecordError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedRecord, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }
