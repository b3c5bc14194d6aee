package ledger

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidEntry       = errors.New("entry needs a positive amount and an IN or OUT direction")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateAccount   = errors.New("account name already taken")
	ErrAccountUnavailable = errors.New("account missing or archived")
	ErrSystemAccount      = errors.New("system accounts cannot be modified")
	ErrImmutableEntry     = errors.New("payment and payout entries are immutable")
)
