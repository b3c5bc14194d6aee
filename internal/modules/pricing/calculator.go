package pricing

import (
	"math"
	"time"

	"koskita/internal/domain"
)

var periodDays = map[domain.LeaseType]int{
	domain.LeaseDaily:     1,
	domain.LeaseWeekly:    7,
	domain.LeaseMonthly:   30,
	domain.LeaseQuarterly: 90,
	domain.LeaseYearly:    365,
}

// PeriodDays returns the billing period length in days for a lease type.
func PeriodDays(lease domain.LeaseType) (int, bool) {
	d, ok := periodDays[lease]
	return d, ok
}

type Quote struct {
	LeaseType      domain.LeaseType `json:"lease_type"`
	PricePerUnit   int64            `json:"price_per_unit"`
	Units          int              `json:"units"`
	CheckInDate    time.Time        `json:"check_in_date"`
	CheckOutDate   time.Time        `json:"check_out_date"`
	TotalAmount    int64            `json:"total_amount"`
	DiscountAmount int64            `json:"discount_amount"`
	FinalAmount    int64            `json:"final_amount"`
	DepositAmount  *int64           `json:"deposit_amount,omitempty"`
}

// Calculate prices a stay. Pure: no clock, no I/O. checkOut may be nil, in
// which case the stay covers exactly one lease period from checkIn.
// A discount outside (0, total) is ignored, not an error.
func Calculate(room *domain.Room, lease domain.LeaseType, checkIn time.Time, checkOut *time.Time, discount int64) (*Quote, error) {
	pd, ok := periodDays[lease]
	if !ok {
		return nil, ErrInvalidLeaseType
	}
	if room.PriceMonthly <= 0 {
		return nil, ErrInvalidPricingConfig
	}

	pricePerUnit := unitPrice(room, lease)

	units := 1
	var out time.Time
	if checkOut != nil {
		if !checkOut.After(checkIn) {
			return nil, ErrInvalidDateRange
		}
		days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
		units = (days + pd - 1) / pd
		if units < 1 {
			units = 1
		}
		out = *checkOut
	} else {
		out = checkIn.AddDate(0, 0, pd)
	}

	total := pricePerUnit * int64(units)

	if discount <= 0 || discount >= total {
		discount = 0
	}

	q := &Quote{
		LeaseType:      lease,
		PricePerUnit:   pricePerUnit,
		Units:          units,
		CheckInDate:    checkIn,
		CheckOutDate:   out,
		TotalAmount:    total,
		DiscountAmount: discount,
		FinalAmount:    total - discount,
	}

	switch room.DepositPolicy {
	case domain.DepositFixed:
		dep := room.DepositValue
		if dep > total {
			dep = total
		}
		if dep > 0 {
			q.DepositAmount = &dep
		}
	case domain.DepositPercentage:
		dep := roundHalfUp(total*room.DepositValue, 100)
		if dep > 0 {
			q.DepositAmount = &dep
		}
	}

	return q, nil
}

// unitPrice resolves the per-unit price: the explicitly configured price for
// the lease type wins, otherwise it is derived from the monthly price.
func unitPrice(room *domain.Room, lease domain.LeaseType) int64 {
	switch lease {
	case domain.LeaseDaily:
		if room.PriceDaily > 0 {
			return room.PriceDaily
		}
		return roundHalfUp(room.PriceMonthly, 30)
	case domain.LeaseWeekly:
		if room.PriceWeekly > 0 {
			return room.PriceWeekly
		}
		return roundHalfUp(room.PriceMonthly*7, 30)
	case domain.LeaseQuarterly:
		if room.PriceQuarterly > 0 {
			return room.PriceQuarterly
		}
		return room.PriceMonthly * 3
	case domain.LeaseYearly:
		if room.PriceYearly > 0 {
			return room.PriceYearly
		}
		return room.PriceMonthly * 12
	default:
		return room.PriceMonthly
	}
}

// roundHalfUp divides a by b rounding to the nearest rupiah. All derived
// prices and percentage deposits go through here so rounding stays uniform.
func roundHalfUp(a, b int64) int64 {
	return int64(math.Round(float64(a) / float64(b)))
}
