package booking

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrRoomUnavailable      = errors.New("room unavailable for the requested range")
	ErrRoomClosed           = errors.New("room is closed for bookings")
	ErrInvalidTransition    = errors.New("invalid booking transition")
	ErrPaymentMismatch      = errors.New("payment amount does not match expected amount")
	ErrCompensationRequired = errors.New("cancelling a paid booking requires a compensating adjustment")
	ErrAccountUnavailable   = errors.New("ledger account unavailable")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("booking not found")
)
