package pricing

import "errors"

var (
	ErrInvalidPricingConfig = errors.New("invalid pricing config")
	ErrInvalidLeaseType     = errors.New("unknown lease type")
	ErrInvalidDateRange     = errors.New("check-out must be after check-in")
)
