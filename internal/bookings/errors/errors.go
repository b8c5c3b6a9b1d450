package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDuplicateTransaction = errors.New("a booking with this transaction ID already exists")

	ErrDuplicateBookingID = errors.New("a booking with this booking ID already exists")
)
