package reconcile

import "errors"

// ErrDrift reports that bookings/payments and ledger entries disagree.
var ErrDrift = errors.New("ledger drift detected")
