package repository

import "errors"

var (
	// ErrOverlap means another active booking already reserves the room for
	// an intersecting date range.
	ErrOverlap = errors.New("room already reserved for an overlapping range")

	// ErrStatusConflict means the booking row no longer holds the status the
	// caller validated against.
	ErrStatusConflict = errors.New("booking status changed concurrently")

	// ErrRoomClosed means the room was manually taken off the market.
	ErrRoomClosed = errors.New("room is closed for bookings")
)
