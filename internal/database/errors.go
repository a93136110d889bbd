package database

import "errors"

var (
	// ErrNotFound marks lookups of missing users, items, bookings,
	// comments and requests.
	ErrNotFound = errors.New("record not found")

	// ErrNotAvailable is returned when a booking targets an item whose
	// owner has switched it off.
	ErrNotAvailable = errors.New("item is not available for booking")

	// ErrAlreadyApproved guards the booking state machine: an APPROVED
	// booking never transitions again.
	ErrAlreadyApproved = errors.New("booking is already approved")

	// ErrInvalidPeriod marks a malformed booking period.
	ErrInvalidPeriod = errors.New("invalid booking period")

	// ErrInvalidInput marks malformed request fields outside the booking
	// period checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the acting user is not allowed to
	// perform the operation.
	ErrForbidden = errors.New("operation is not allowed for this user")

	// ErrDuplicateEmail is returned on user creation or update with an
	// email that is already taken.
	ErrDuplicateEmail = errors.New("email is already in use")

	// ErrNotRented rejects a comment from a user who never completed a
	// rental of the item.
	ErrNotRented = errors.New("the item must be rented before commenting")

	// ErrRentalNotFinished rejects a comment while the approved rental
	// period is still running.
	ErrRentalNotFinished = errors.New("the rental period has not ended yet")
)
