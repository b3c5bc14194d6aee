package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"koskita/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	payments paymentLister
	ledger   ledgerStore
	bookings bookingReader
	loggerf  func(format string, args ...interface{})
}

func NewService(payments paymentLister, ledger ledgerStore, bookings bookingReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments: payments,
		ledger:   ledger,
		bookings: bookings,
		loggerf:  loggerf,
	}
}

type Issue struct {
	Kind      string `json:"kind"`
	BookingID int64  `json:"booking_id"`
	PaymentID int64  `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Detail    string `json:"detail"`
}

type Report struct {
	IsHealthy       bool      `json:"is_healthy"`
	CheckedAt       time.Time `json:"checked_at"`
	PaymentsChecked int       `json:"payments_checked"`
	Issues          []Issue   `json:"issues"`
}

// Check verifies that every settled payment has exactly one matching PAYMENT
// ledger entry. It only reports; nothing is corrected here.
func (s *Service) Check(ctx context.Context) (*Report, error) {
	payments, err := s.payments.ListSuccessful(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		CheckedAt:       time.Now().UTC(),
		PaymentsChecked: len(payments),
		Issues:          []Issue{},
	}
	for _, p := range payments {
		entry, err := s.ledger.GetEntryByRef(ctx, domain.RefPayment, p.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				report.Issues = append(report.Issues, Issue{
					Kind:      "missing_entry",
					BookingID: p.BookingID,
					PaymentID: p.ID,
					OrderID:   p.OrderID,
					Detail:    fmt.Sprintf("settled payment of %d has no ledger entry", p.Amount),
				})
				continue
			}
			return nil, err
		}
		if entry.Amount != p.Amount {
			report.Issues = append(report.Issues, Issue{
				Kind:      "amount_mismatch",
				BookingID: p.BookingID,
				PaymentID: p.ID,
				OrderID:   p.OrderID,
				Detail:    fmt.Sprintf("ledger entry amount %d does not match payment amount %d", entry.Amount, p.Amount),
			})
		}
		if entry.Direction != domain.DirectionIn {
			report.Issues = append(report.Issues, Issue{
				Kind:      "wrong_direction",
				BookingID: p.BookingID,
				PaymentID: p.ID,
				OrderID:   p.OrderID,
				Detail:    "payment entry must be direction IN",
			})
		}
	}
	report.IsHealthy = len(report.Issues) == 0
	return report, nil
}

// Verify runs Check and turns an unhealthy report into an error. Used by the
// periodic sweep so drift shows up in the logs.
func (s *Service) Verify(ctx context.Context) error {
	report, err := s.Check(ctx)
	if err != nil {
		return err
	}
	if !report.IsHealthy {
		return fmt.Errorf("%w: %d issue(s) across %d payments", ErrDrift, len(report.Issues), report.PaymentsChecked)
	}
	return nil
}

type InitializeResult struct {
	AccountsCreated   int `json:"accounts_created"`
	EntriesBackfilled int `json:"entries_backfilled"`
}

// Initialize is the one-time, idempotent repair action: it bootstraps the
// system accounts and backfills missing PAYMENT entries for settled payments.
// Running it twice never creates duplicates.
func (s *Service) Initialize(ctx context.Context) (*InitializeResult, error) {
	result := &InitializeResult{}

	created, err := s.ensureSystemAccounts(ctx)
	if err != nil {
		return nil, err
	}
	result.AccountsCreated = created

	payments, err := s.payments.ListSuccessful(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		account, err := s.settlementAccount(ctx, &p)
		if err != nil {
			return nil, err
		}

		entryDate := time.Now().UTC()
		if p.PaidAt != nil {
			entryDate = *p.PaidAt
		}
		var propertyID *int64
		note := fmt.Sprintf("reconciliation backfill for payment %s", p.OrderID)
		if b, err := s.bookings.GetByID(ctx, p.BookingID); err == nil {
			propertyID = &b.PropertyID
			note = fmt.Sprintf("reconciliation backfill for payment %s, booking %s", p.OrderID, b.Code)
		}

		paymentID := p.ID
		posted, err := s.ledger.PostEntry(ctx, &domain.LedgerEntry{
			EntryDate:  entryDate,
			Direction:  domain.DirectionIn,
			Amount:     p.Amount,
			AccountID:  account.ID,
			RefType:    domain.RefPayment,
			RefID:      &paymentID,
			PropertyID: propertyID,
			Note:       note,
		})
		if err != nil {
			return nil, err
		}
		if posted {
			s.loggerf("level=info msg=backfilled ledger entry payment_id=%d order_id=%s amount=%d", p.ID, p.OrderID, p.Amount)
			result.EntriesBackfilled++
		}
	}
	return result, nil
}

var systemAccounts = []domain.LedgerAccount{
	{Name: domain.SystemAccountCash, Type: domain.AccountCash, IsSystem: true},
	{Name: domain.SystemAccountBankTransfer, Type: domain.AccountBank, IsSystem: true},
	{Name: domain.SystemAccountDepositIncome, Type: domain.AccountIncome, IsSystem: true},
}

func (s *Service) ensureSystemAccounts(ctx context.Context) (int, error) {
	created := 0
	for _, tmpl := range systemAccounts {
		_, err := s.ledger.GetAccountByName(ctx, tmpl.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		a := tmpl
		if err := s.ledger.CreateAccount(ctx, &a); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Service) settlementAccount(ctx context.Context, p *domain.Payment) (*domain.LedgerAccount, error) {
	name := domain.SystemAccountBankTransfer
	switch {
	case p.Purpose == domain.PurposeDeposit:
		name = domain.SystemAccountDepositIncome
	case p.Method == "cash":
		name = domain.SystemAccountCash
	}
	return s.ledger.GetAccountByName(ctx, name)
}
