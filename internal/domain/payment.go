package domain

import "time"

type GatewayStatus string

const (
	GatewayStatusPending  GatewayStatus = "pending"
	GatewayStatusSuccess  GatewayStatus = "success"
	GatewayStatusFailed   GatewayStatus = "failed"
	GatewayStatusExpired  GatewayStatus = "expired"
	GatewayStatusRefunded GatewayStatus = "refunded"
)

type PaymentPurpose string

const (
	PurposeDeposit   PaymentPurpose = "deposit"
	PurposeFull      PaymentPurpose = "full"
	PurposeRemainder PaymentPurpose = "remainder"
)

// Payment is one gateway charge attempt for a booking. OrderID doubles as the
// gateway idempotency key; duplicate settlement callbacks for the same order
// must be no-ops once applied.
type Payment struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	BookingID int64          `json:"booking_id" gorm:"index;not null"`
	OrderID   string         `json:"order_id" gorm:"uniqueIndex;not null"`
	Purpose   PaymentPurpose `json:"purpose" gorm:"type:varchar(16);not null"`
	Amount    int64          `json:"amount" gorm:"not null"`
	Method    string         `json:"method"`
	Status    GatewayStatus  `json:"status" gorm:"type:varchar(16);default:'pending';index"`

	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty" gorm:"type:text"`

	RawCallback   string `json:"-" gorm:"type:text"`
	FailureReason string `json:"failure_reason,omitempty" gorm:"type:text"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

func (Payment) TableName() string { return "payments" }
