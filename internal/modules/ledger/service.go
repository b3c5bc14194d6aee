package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"koskita/internal/domain"
	"koskita/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	store LedgerStore
}

func NewService(store LedgerStore) *Service {
	return &Service{store: store}
}

const dateLayout = "2006-01-02"

func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.LedgerAccount, error) {
	_, err := s.store.GetAccountByName(ctx, req.Name)
	if err == nil {
		return nil, ErrDuplicateAccount
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &domain.LedgerAccount{
		Name:    req.Name,
		Type:    req.Type,
		OwnerID: req.OwnerID,
	}
	if err := s.store.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAccounts(ctx context.Context, includeArchived bool) ([]domain.LedgerAccount, error) {
	return s.store.ListAccounts(ctx, includeArchived)
}

// SetArchived flips the archived flag. Archived accounts keep their history
// but reject new entries; system accounts cannot be archived at all.
func (s *Service) SetArchived(ctx context.Context, id int64, archived bool) (*domain.LedgerAccount, error) {
	a, err := s.store.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.IsSystem {
		return nil, ErrSystemAccount
	}
	if err := s.store.SetAccountArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	a.IsArchived = archived
	return a, nil
}

// PostManualEntry records an operator-entered cash fact (rent collected by
// hand, an expense, a correction).
func (s *Service) PostManualEntry(ctx context.Context, req PostEntryRequest) (*domain.LedgerEntry, error) {
	if err := validateEntry(req.Amount, req.Direction); err != nil {
		return nil, err
	}
	account, err := s.activeAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		return nil, ErrValidation
	}

	e := &domain.LedgerEntry{
		EntryDate:  entryDate,
		Direction:  req.Direction,
		Amount:     req.Amount,
		AccountID:  account.ID,
		RefType:    domain.RefManual,
		PropertyID: req.PropertyID,
		Note:       req.Note,
	}
	if _, err := s.store.PostEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// RecordPayout books money leaving the till to a property owner.
func (s *Service) RecordPayout(ctx context.Context, req RecordPayoutRequest) (*domain.LedgerEntry, error) {
	if err := validateEntry(req.Amount, domain.DirectionOut); err != nil {
		return nil, err
	}
	account, err := s.activeAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	note := req.Note
	if note == "" {
		note = fmt.Sprintf("payout to %s", req.Recipient)
	} else {
		note = fmt.Sprintf("payout to %s: %s", req.Recipient, req.Note)
	}
	e := &domain.LedgerEntry{
		EntryDate:  time.Now().UTC(),
		Direction:  domain.DirectionOut,
		Amount:     req.Amount,
		AccountID:  account.ID,
		RefType:    domain.RefPayout,
		PropertyID: req.PropertyID,
		Note:       note,
	}
	if _, err := s.store.PostEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry edits a manual or adjustment entry. Entries tied to payments
// and payouts are immutable; corrections there are new offsetting entries.
func (s *Service) UpdateEntry(ctx context.Context, id int64, req UpdateEntryRequest) (*domain.LedgerEntry, error) {
	e, err := s.mutableEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.EntryDate != nil {
		d, err := parseEntryDate(*req.EntryDate)
		if err != nil {
			return nil, ErrValidation
		}
		updates["entry_date"] = d
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, ErrInvalidEntry
		}
		updates["amount"] = *req.Amount
	}
	if req.AccountID != nil {
		account, err := s.activeAccount(ctx, *req.AccountID)
		if err != nil {
			return nil, err
		}
		updates["account_id"] = account.ID
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if len(updates) == 0 {
		return e, nil
	}

	if err := s.store.UpdateEntry(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.store.GetEntryByID(ctx, id)
}

func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := s.mutableEntry(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteEntry(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, q EntryFilterQuery) ([]domain.LedgerEntry, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.store.ListEntries(ctx, f)
}

func (s *Service) Summarize(ctx context.Context, q EntryFilterQuery) (*repository.CashflowSummary, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	return s.store.Summarize(ctx, f)
}

func (s *Service) BreakdownByAccount(ctx context.Context, q EntryFilterQuery) ([]repository.BreakdownRow, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	return s.store.BreakdownByAccount(ctx, f)
}

func (s *Service) BreakdownByRefType(ctx context.Context, q EntryFilterQuery) ([]repository.BreakdownRow, error) {
	f, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	return s.store.BreakdownByRefType(ctx, f)
}

// validateEntry guards the engine itself, not just the HTTP binding: entries
// can be posted by non-HTTP callers too.
func validateEntry(amount int64, direction domain.EntryDirection) error {
	if amount <= 0 {
		return ErrInvalidEntry
	}
	if direction != domain.DirectionIn && direction != domain.DirectionOut {
		return ErrInvalidEntry
	}
	return nil
}

func (s *Service) activeAccount(ctx context.Context, id int64) (*domain.LedgerAccount, error) {
	account, err := s.store.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountUnavailable
		}
		return nil, err
	}
	if account.IsArchived {
		return nil, ErrAccountUnavailable
	}
	return account, nil
}

func (s *Service) mutableEntry(ctx context.Context, id int64) (*domain.LedgerEntry, error) {
	e, err := s.store.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.RefType != domain.RefManual && e.RefType != domain.RefAdjustment {
		return nil, ErrImmutableEntry
	}
	return e, nil
}

func parseEntryDate(v string) (time.Time, error) {
	if v == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// buildFilter converts query params to the repository filter. The "to" date
// is inclusive for callers, the repository bound is exclusive, hence the one
// day shift.
func buildFilter(q EntryFilterQuery) (repository.EntryFilter, error) {
	f := repository.EntryFilter{
		AccountID:  q.AccountID,
		PropertyID: q.PropertyID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.From != "" {
		t, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return f, ErrValidation
		}
		from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		f.From = &from
	}
	if q.To != "" {
		t, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return f, ErrValidation
		}
		to := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		f.To = &to
	}
	if q.RefType != "" {
		rt := domain.EntryRefType(q.RefType)
		switch rt {
		case domain.RefPayment, domain.RefPayout, domain.RefManual, domain.RefAdjustment:
			f.RefType = &rt
		default:
			return f, ErrValidation
		}
	}
	return f, nil
}
