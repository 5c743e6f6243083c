package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// ValidateEpochTimestamp parses raw as epoch seconds and checks it against now.
// Missing, zero, non-numeric or out-of-range input fails with ErrInvalidTimestamp. When
// mustBeFuture is set the value must be strictly after now. The value may not be
// more than maxPastDays before now; maxPastDays <= 0 means one day.
func ValidateEpochTimestamp(raw string, field string, mustBeFuture bool, maxPastDays int, now time.Time) (int64, error) {
	raw = strings.TrimSpace(raw)

	f, err := strconv.ParseFloat(raw, 64)
	if raw == "" || err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a valid timestamp", field),
			Kind:    ErrInvalidTimestamp,
		}
	}

	// Compare at millisecond precision; only the returned value is truncated.
	current := float64(now.UnixMilli()) / 1000

	if mustBeFuture && f <= current {
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be in the future", field),
			Kind:    ErrTimestampNotFuture,
		}
	}

	if maxPastDays <= 0 {
		maxPastDays = 1
	}
	if f < current-float64(maxPastDays*secondsPerDay) {
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s cannot be more than %d day(s) in the past", field, maxPastDays),
			Kind:    ErrTimestampTooOld,
		}
	}

	return int64(f), nil
}
