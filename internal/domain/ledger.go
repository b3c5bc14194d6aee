package domain

import "time"

type AccountType string

const (
	AccountCash    AccountType = "cash"
	AccountBank    AccountType = "bank"
	AccountIncome  AccountType = "income"
	AccountExpense AccountType = "expense"
)

// System accounts created by bootstrap; protected from edit/archive/delete.
const (
	SystemAccountCash          = "Cash"
	SystemAccountBankTransfer  = "Bank Transfer"
	SystemAccountDepositIncome = "Deposit Income"
)

type LedgerAccount struct {
	ID   int64       `json:"id" gorm:"primaryKey"`
	Name string      `json:"name" gorm:"not null;uniqueIndex" validate:"required"`
	Type AccountType `json:"type" gorm:"type:varchar(16);not null"`

	IsSystem   bool `json:"is_system" gorm:"default:false"`
	IsArchived bool `json:"is_archived" gorm:"default:false"`

	// Nil for platform-wide system accounts.
	OwnerID *int64 `json:"owner_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LedgerAccount) TableName() string { return "ledger_accounts" }

type EntryDirection string

const (
	DirectionIn  EntryDirection = "IN"
	DirectionOut EntryDirection = "OUT"
)

type EntryRefType string

const (
	RefPayment    EntryRefType = "PAYMENT"
	RefPayout     EntryRefType = "PAYOUT"
	RefManual     EntryRefType = "MANUAL"
	RefAdjustment EntryRefType = "ADJUSTMENT"
)

// LedgerEntry is an append-only financial fact. PAYMENT/PAYOUT entries are
// immutable; corrections are new offsetting entries. A partial unique index
// on (ref_type, ref_id), created by database.Migrate for PAYMENT rows only,
// backstops the one-entry-per-payment idempotency check. Other ref types may
// reference the same id more than once.
type LedgerEntry struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	EntryDate time.Time      `json:"entry_date" gorm:"index;not null"`
	Direction EntryDirection `json:"direction" gorm:"type:varchar(3);not null"`
	Amount    int64          `json:"amount" gorm:"not null" validate:"gt=0"`
	AccountID int64          `json:"account_id" gorm:"index;not null"`

	RefType EntryRefType `json:"ref_type" gorm:"type:varchar(16);not null;index:idx_ledger_entries_ref"`
	RefID   *int64       `json:"ref_id,omitempty" gorm:"index:idx_ledger_entries_ref"`

	PropertyID *int64 `json:"property_id,omitempty" gorm:"index"`
	Note       string `json:"note,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Account *LedgerAccount `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
