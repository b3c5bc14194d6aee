package domain

import "time"

type LeaseType string

const (
	LeaseDaily     LeaseType = "daily"
	LeaseWeekly    LeaseType = "weekly"
	LeaseMonthly   LeaseType = "monthly"
	LeaseQuarterly LeaseType = "quarterly"
	LeaseYearly    LeaseType = "yearly"
)

type BookingStatus string

const (
	BookingUnpaid      BookingStatus = "unpaid"
	BookingDepositPaid BookingStatus = "deposit_paid"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingCheckedIn   BookingStatus = "checked_in"
	BookingCompleted   BookingStatus = "completed"
	BookingCancelled   BookingStatus = "cancelled"
	BookingExpired     BookingStatus = "expired"
)

// IsTerminal reports whether no further transition can leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingExpired
}

// ActiveBookingStatuses are the statuses that reserve a room for the booking's
// date range and therefore participate in the overlap check. Unpaid bookings
// hold the room for their payment window until the expiry sweep releases them.
var ActiveBookingStatuses = []BookingStatus{
	BookingUnpaid,
	BookingDepositPaid,
	BookingConfirmed,
	BookingCheckedIn,
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"uniqueIndex;not null"`
	RoomID     int64     `json:"room_id" gorm:"index;not null" validate:"required"`
	PropertyID int64     `json:"property_id" gorm:"index;not null"`
	CustomerID int64     `json:"customer_id" gorm:"index;not null" validate:"required"`
	LeaseType  LeaseType `json:"lease_type" gorm:"type:varchar(16);not null"`

	CheckInDate  time.Time `json:"check_in_date" gorm:"not null"`
	CheckOutDate time.Time `json:"check_out_date" gorm:"not null"`

	PricePerUnit   int64  `json:"price_per_unit"`
	Units          int    `json:"units"`
	TotalAmount    int64  `json:"total_amount" validate:"gte=0"`
	DepositAmount  *int64 `json:"deposit_amount,omitempty"`
	DiscountAmount int64  `json:"discount_amount"`

	Status        BookingStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null"`

	// Payment window for unpaid/deposit-paid bookings; past due they expire.
	ExpiresAt *time.Time `json:"expires_at,omitempty" gorm:"index"`

	ActualCheckInAt  *time.Time `json:"actual_check_in_at,omitempty"`
	ActualCheckOutAt *time.Time `json:"actual_check_out_at,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty" gorm:"type:text"`

	// Set on renewals; the parent booking is excluded from the overlap check.
	ParentBookingID *int64 `json:"parent_booking_id,omitempty" gorm:"index"`

	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room     *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Customer *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Booking) TableName() string { return "bookings" }

// FinalAmount is the payable total after discount.
func (b *Booking) FinalAmount() int64 {
	return b.TotalAmount - b.DiscountAmount
}
