package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date")

	// ErrInsufficientData signals an empty result set for a report request.
	// It is not a failure: the HTTP layer maps it to 200 with a message body.
	ErrInsufficientData = errors.New("insufficient data")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrSoldOut is returned when an order requests more seats than remain.
	ErrSoldOut = errors.New("event sold out")

	// ErrScheduleConflict is returned when an auditorium booking overlaps an existing one.
	ErrScheduleConflict = errors.New("schedule conflict")
)
