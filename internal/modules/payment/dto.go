package payment

import "koskita/internal/domain"

type CreateTransactionRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
	// deposit | full | remainder; empty picks the natural next step for the
	// booking's state.
	Purpose domain.PaymentPurpose `json:"purpose" binding:"omitempty,oneof=deposit full remainder"`
}

type CreateTransactionResponse struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
}

// NotificationPayload is the gateway's async settlement callback body.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}
