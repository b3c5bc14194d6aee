package payment

import "errors"

var (
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrAmountMismatch    = errors.New("amount mismatch")
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
	ErrOverpayment       = errors.New("payment would exceed booking total")
	ErrNotFound          = errors.New("not found")
)
