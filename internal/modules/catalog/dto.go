package catalog

import "koskita/internal/domain"

type CreatePropertyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address"`
	City    string `json:"city"`
	// Superadmin may create on behalf of an owner; ignored for adminkos.
	OwnerID *int64 `json:"owner_id,omitempty"`
}

type UpdatePropertyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type CreateRoomRequest struct {
	PropertyID int64  `json:"property_id" validate:"required"`
	RoomNumber string `json:"room_number" validate:"required"`
	Floor      int    `json:"floor"`
	RoomType   string `json:"room_type"`

	PriceDaily     int64 `json:"price_daily"`
	PriceWeekly    int64 `json:"price_weekly"`
	PriceMonthly   int64 `json:"price_monthly" validate:"required,gt=0"`
	PriceQuarterly int64 `json:"price_quarterly"`
	PriceYearly    int64 `json:"price_yearly"`

	DepositPolicy domain.DepositPolicy `json:"deposit_policy" validate:"omitempty,oneof=none fixed percentage"`
	DepositValue  int64                `json:"deposit_value"`
}

type SetRoomActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UpdateRoomRequest struct {
	RoomNumber string `json:"room_number" validate:"required"`
	Floor      int    `json:"floor"`
	RoomType   string `json:"room_type"`

	PriceDaily     int64 `json:"price_daily"`
	PriceWeekly    int64 `json:"price_weekly"`
	PriceMonthly   int64 `json:"price_monthly" validate:"required,gt=0"`
	PriceQuarterly int64 `json:"price_quarterly"`
	PriceYearly    int64 `json:"price_yearly"`

	DepositPolicy domain.DepositPolicy `json:"deposit_policy" validate:"omitempty,oneof=none fixed percentage"`
	DepositValue  int64                `json:"deposit_value"`
}
