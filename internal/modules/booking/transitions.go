package booking

import "koskita/internal/domain"

// transitions is the closed edge set of the booking lifecycle. Anything not
// listed here is rejected before any mutation happens.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingUnpaid: {
		domain.BookingDepositPaid,
		domain.BookingConfirmed,
		domain.BookingCancelled,
		domain.BookingExpired,
	},
	domain.BookingDepositPaid: {
		domain.BookingConfirmed,
		domain.BookingCheckedIn,
		domain.BookingCancelled,
		domain.BookingExpired,
	},
	domain.BookingConfirmed: {
		domain.BookingCheckedIn,
		domain.BookingCancelled,
	},
	domain.BookingCheckedIn: {
		domain.BookingCompleted,
		domain.BookingCancelled,
	},
	domain.BookingCompleted: {},
	domain.BookingCancelled: {},
	domain.BookingExpired:   {},
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to domain.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
