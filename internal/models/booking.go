package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"

	// StatusPast is derived at read time and never stored.
	StatusPast BookingStatus = "PAST"
)

type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	ItemID    int64         `json:"item_id"`
	BookerID  int64         `json:"booker_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// EffectiveStatus reports the client-facing status of a booking: once the
// rental period has ended the booking is PAST regardless of the stored status.
func EffectiveStatus(b *Booking, now time.Time) BookingStatus {
	if b.End.Before(now) {
		return StatusPast
	}
	return b.Status
}

// BookingRequest carries the validated parameters of a booking creation.
type BookingRequest struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   int64     `json:"item_id"`
	BookerID int64     `json:"booker_id"`
}

// BookingView is a booking enriched with the referenced item and booker.
// Status carries the effective (possibly PAST) status.
type BookingView struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Status   BookingStatus `json:"status"`
	ItemID   int64         `json:"item_id"`
	BookerID int64         `json:"booker_id"`
	Item     *Item         `json:"item,omitempty"`
	Booker   *User         `json:"booker,omitempty"`
}

// BookingFilter selects bookings in list queries. Concrete statuses match the
// stored status, temporal filters compare start/end against "now".
type BookingFilter string

const (
	FilterAll      BookingFilter = "ALL"
	FilterCurrent  BookingFilter = "CURRENT"
	FilterPast     BookingFilter = "PAST"
	FilterFuture   BookingFilter = "FUTURE"
	FilterWaiting  BookingFilter = "WAITING"
	FilterRejected BookingFilter = "REJECTED"
	FilterApproved BookingFilter = "APPROVED"
	FilterCanceled BookingFilter = "CANCELED"
)

// ParseBookingFilter maps a state query parameter to a filter.
// An empty value means ALL; unknown values are reported to the caller.
func ParseBookingFilter(raw string) (BookingFilter, bool) {
	if raw == "" {
		return FilterAll, true
	}
	switch BookingFilter(raw) {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture,
		FilterWaiting, FilterRejected, FilterApproved, FilterCanceled:
		return BookingFilter(raw), true
	}
	return "", false
}
