package gateway

import (
	"errors"
	"time"
)

var (
	ErrMissingPeriod = errors.New("start and end are required")
	ErrPeriodInPast  = errors.New("booking cannot start or end in the past")
	ErrPeriodOrder   = errors.New("start must be before end")
)

// ValidateBookingPeriod rejects obviously malformed booking periods before
// the request reaches the core server. The server re-checks everything; the
// gateway only sheds bad traffic early.
func ValidateBookingPeriod(start, end time.Time, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrMissingPeriod
	}
	if start.Before(now) || end.Before(now) {
		return ErrPeriodInPast
	}
	if !start.Before(end) {
		return ErrPeriodOrder
	}
	return nil
}
