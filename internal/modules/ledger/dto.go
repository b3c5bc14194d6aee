package ledger

import "koskita/internal/domain"

type CreateAccountRequest struct {
	Name    string             `json:"name" binding:"required,min=2,max=64"`
	Type    domain.AccountType `json:"type" binding:"required,oneof=cash bank income expense"`
	OwnerID *int64             `json:"owner_id,omitempty"`
}

type PostEntryRequest struct {
	// "2006-01-02", defaults to today when empty.
	EntryDate  string                `json:"entry_date"`
	Direction  domain.EntryDirection `json:"direction" binding:"required,oneof=IN OUT"`
	Amount     int64                 `json:"amount" binding:"required,gt=0"`
	AccountID  int64                 `json:"account_id" binding:"required"`
	PropertyID *int64                `json:"property_id,omitempty"`
	Note       string                `json:"note"`
}

type UpdateEntryRequest struct {
	EntryDate *string `json:"entry_date,omitempty"`
	Amount    *int64  `json:"amount,omitempty"`
	AccountID *int64  `json:"account_id,omitempty"`
	Note      *string `json:"note,omitempty"`
}

type RecordPayoutRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	AccountID  int64  `json:"account_id" binding:"required"`
	PropertyID *int64 `json:"property_id,omitempty"`
	Recipient  string `json:"recipient" binding:"required"`
	Note       string `json:"note"`
}

type EntryFilterQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	AccountID  *int64 `form:"account_id"`
	RefType    string `form:"ref_type"`
	PropertyID *int64 `form:"property_id"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
