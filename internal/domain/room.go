package domain

import "time"

type DepositPolicy string

const (
	DepositNone       DepositPolicy = "none"
	DepositFixed      DepositPolicy = "fixed"
	DepositPercentage DepositPolicy = "percentage"
)

// Room prices are stored in whole rupiah per lease unit. PriceMonthly is the
// only required price; missing units are derived from it at quote time.
type Room struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	PropertyID int64  `json:"property_id" gorm:"index;not null" validate:"required"`
	RoomNumber string `json:"room_number" gorm:"not null" validate:"required"`
	Floor      int    `json:"floor"`
	RoomType   string `json:"room_type"`

	PriceDaily     int64 `json:"price_daily"`
	PriceWeekly    int64 `json:"price_weekly"`
	PriceMonthly   int64 `json:"price_monthly" validate:"required,gt=0"`
	PriceQuarterly int64 `json:"price_quarterly"`
	PriceYearly    int64 `json:"price_yearly"`

	DepositPolicy DepositPolicy `json:"deposit_policy" gorm:"type:varchar(16);default:'none'"`
	// Fixed amount in rupiah or a percentage, depending on DepositPolicy.
	DepositValue int64 `json:"deposit_value"`

	// Manual listing switch; a closed room takes no new bookings at all.
	IsActive bool `json:"is_active" gorm:"default:true"`

	// Occupancy flag maintained by the booking lifecycle.
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Room) TableName() string { return "rooms" }
