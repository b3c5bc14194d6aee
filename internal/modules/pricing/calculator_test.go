package pricing

import (
	"testing"
	"time"

	"koskita/internal/domain"

	"github.com/stretchr/testify/assert"
)

func monthlyRoom(price int64) *domain.Room {
	return &domain.Room{PriceMonthly: price, DepositPolicy: domain.DepositNone}
}

func TestCalculate_MonthlyNoDeposit(t *testing.T) {
	checkIn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	q, err := Calculate(monthlyRoom(1_500_000), domain.LeaseMonthly, checkIn, nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(1_500_000), q.TotalAmount)
	assert.Equal(t, int64(1_500_000), q.FinalAmount)
	assert.Nil(t, q.DepositAmount)
	assert.Equal(t, 1, q.Units)
	assert.Equal(t, checkIn.AddDate(0, 0, 30), q.CheckOutDate)
}

func TestCalculate_PercentageDeposit(t *testing.T) {
	room := monthlyRoom(1_000_000)
	room.DepositPolicy = domain.DepositPercentage
	room.DepositValue = 20

	q, err := Calculate(room, domain.LeaseMonthly, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil, 0)

	assert.NoError(t, err)
	assert.NotNil(t, q.DepositAmount)
	assert.Equal(t, int64(200_000), *q.DepositAmount)
}

func TestCalculate_FixedDepositCappedAtTotal(t *testing.T) {
	room := monthlyRoom(500_000)
	room.DepositPolicy = domain.DepositFixed
	room.DepositValue = 2_000_000

	q, err := Calculate(room, domain.LeaseMonthly, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(500_000), *q.DepositAmount)
}

func TestCalculate_YearlyDerivedFromMonthly(t *testing.T) {
	q, err := Calculate(monthlyRoom(1_000_000), domain.LeaseYearly, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(12_000_000), q.TotalAmount)
}

func TestCalculate_ExplicitYearlyPriceWins(t *testing.T) {
	room := monthlyRoom(1_000_000)
	room.PriceYearly = 10_000_000

	q, err := Calculate(room, domain.LeaseYearly, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(10_000_000), q.TotalAmount)
}

func TestCalculate_DailyDerivedRounded(t *testing.T) {
	// 1,000,000 / 30 = 33,333.33 -> 33,333
	q, err := Calculate(monthlyRoom(1_000_000), domain.LeaseDaily, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(33_333), q.PricePerUnit)
}

func TestCalculate_ExplicitRangeCeilsUnits(t *testing.T) {
	checkIn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 45) // 45 days -> 2 monthly units

	q, err := Calculate(monthlyRoom(1_000_000), domain.LeaseMonthly, checkIn, &checkOut, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, q.Units)
	assert.Equal(t, int64(2_000_000), q.TotalAmount)
}

func TestCalculate_DiscountLaw(t *testing.T) {
	checkIn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	q, err := Calculate(monthlyRoom(1_000_000), domain.LeaseMonthly, checkIn, nil, 150_000)
	assert.NoError(t, err)
	assert.Equal(t, q.TotalAmount, q.FinalAmount+q.DiscountAmount)
	assert.Equal(t, int64(150_000), q.DiscountAmount)

	// discount >= total is ignored
	q, err = Calculate(monthlyRoom(1_000_000), domain.LeaseMonthly, checkIn, nil, 1_000_000)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), q.DiscountAmount)
	assert.Equal(t, q.TotalAmount, q.FinalAmount)

	// negative discount is ignored
	q, err = Calculate(monthlyRoom(1_000_000), domain.LeaseMonthly, checkIn, nil, -5)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), q.DiscountAmount)
}

func TestCalculate_MissingMonthlyPrice(t *testing.T) {
	_, err := Calculate(&domain.Room{}, domain.LeaseMonthly, time.Now(), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidPricingConfig)
}

func TestCalculate_UnknownLeaseType(t *testing.T) {
	_, err := Calculate(monthlyRoom(1_000_000), domain.LeaseType("hourly"), time.Now(), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidLeaseType)
}

func TestCalculate_InvalidRange(t *testing.T) {
	checkIn := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, -1)

	_, err := Calculate(monthlyRoom(1_000_000), domain.LeaseMonthly, checkIn, &checkOut, 0)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
