package booking

import "koskita/internal/domain"

type CreateBookingRequest struct {
	RoomID         int64            `json:"room_id" binding:"required"`
	CustomerID     int64            `json:"customer_id" binding:"required"`
	LeaseType      domain.LeaseType `json:"lease_type" binding:"required"`
	CheckInDate    string           `json:"check_in_date" binding:"required"`
	CheckOutDate   string           `json:"check_out_date"`
	DiscountAmount int64            `json:"discount_amount"`
	Notes          string           `json:"notes"`
}

type QuoteRequest struct {
	RoomID         int64            `json:"room_id" binding:"required"`
	LeaseType      domain.LeaseType `json:"lease_type" binding:"required"`
	CheckInDate    string           `json:"check_in_date" binding:"required"`
	CheckOutDate   string           `json:"check_out_date"`
	DiscountAmount int64            `json:"discount_amount"`
}

type RenewBookingRequest struct {
	LeaseType      domain.LeaseType `json:"lease_type"`
	CheckInDate    string           `json:"check_in_date"`
	DiscountAmount int64            `json:"discount_amount"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
	// Required when settled cash exists on the booking: the account and note
	// for the compensating OUT adjustment.
	CompensationAccountID *int64 `json:"compensation_account_id"`
	CompensationNote      string `json:"compensation_note"`
}
