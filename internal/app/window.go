package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"review_insights/internal/domain"
)

// MinWindow is the finest trend bucket a caller may ask for.
const MinWindow = time.Hour

// ParseDuration accepts Go durations ("36h") and day/week counts ("7d", "2w").
// Durations must be positive.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var d time.Duration
	if n := len(s); n > 1 && (s[n-1] == 'd' || s[n-1] == 'w') {
		count, err := strconv.ParseInt(s[:n-1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid duration %q", domain.ErrConfiguration, s)
		}
		unit := 24 * time.Hour
		if s[n-1] == 'w' {
			unit *= 7
		}
		if count > int64(math.MaxInt64/unit) || count < int64(math.MinInt64/unit) {
			return 0, fmt.Errorf("%w: duration %q out of range", domain.ErrConfiguration, s)
		}
		d = time.Duration(count) * unit
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, fmt.Errorf("%w: invalid duration %q", domain.ErrConfiguration, s)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %q", domain.ErrConfiguration, s)
	}
	return d, nil
}

// ParseWindow is ParseDuration restricted to trend windows of at least MinWindow.
func ParseWindow(s string) (time.Duration, error) {
	d, err := ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < MinWindow {
		return 0, fmt.Errorf("%w: window must be at least %s, got %q", domain.ErrConfiguration, MinWindow, s)
	}
	return d, nil
}
