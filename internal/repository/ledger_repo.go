package repository

import (
	"context"
	"time"

	"koskita/internal/domain"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateAccount(ctx context.Context, a *domain.LedgerAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *LedgerRepository) GetAccountByID(ctx context.Context, id int64) (*domain.LedgerAccount, error) {
	var a domain.LedgerAccount
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *LedgerRepository) GetAccountByName(ctx context.Context, name string) (*domain.LedgerAccount, error) {
	var a domain.LedgerAccount
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *LedgerRepository) ListAccounts(ctx context.Context, includeArchived bool) ([]domain.LedgerAccount, error) {
	q := r.db.WithContext(ctx).Order("name")
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var out []domain.LedgerAccount
	err := q.Find(&out).Error
	return out, err
}

func (r *LedgerRepository) SetAccountArchived(ctx context.Context, id int64, archived bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.LedgerAccount{}).
		Where("id = ?", id).
		Update("is_archived", archived).Error
}

// PostEntry appends an entry. For PAYMENT refs an existing entry for the same
// (ref_type, ref_id) wins and the call reports created=false; the composite
// unique index backstops the check under concurrency.
func (r *LedgerRepository) PostEntry(ctx context.Context, e *domain.LedgerEntry) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if e.RefType == domain.RefPayment && e.RefID != nil {
			var cnt int64
			if err := tx.Model(&domain.LedgerEntry{}).
				Where("ref_type = ? AND ref_id = ?", e.RefType, *e.RefID).
				Count(&cnt).Error; err != nil {
				return err
			}
			if cnt > 0 {
				created = false
				return nil
			}
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *LedgerRepository) GetEntryByID(ctx context.Context, id int64) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LedgerRepository) GetEntryByRef(ctx context.Context, refType domain.EntryRefType, refID int64) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("ref_type = ? AND ref_id = ?", refType, refID).
		First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LedgerRepository) UpdateEntry(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *LedgerRepository) DeleteEntry(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.LedgerEntry{}, id).Error
}

type EntryFilter struct {
	From       *time.Time
	To         *time.Time
	AccountID  *int64
	RefType    *domain.EntryRefType
	PropertyID *int64
	Limit      int
	Offset     int
}

func (r *LedgerRepository) ListEntries(ctx context.Context, f EntryFilter) ([]domain.LedgerEntry, error) {
	q := r.entryQuery(ctx, f).Order("entry_date DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []domain.LedgerEntry
	err := q.Preload("Account").Find(&out).Error
	return out, err
}

type CashflowSummary struct {
	TotalIn  int64 `json:"total_in"`
	TotalOut int64 `json:"total_out"`
	Net      int64 `json:"net"`
}

func (r *LedgerRepository) Summarize(ctx context.Context, f EntryFilter) (*CashflowSummary, error) {
	type row struct {
		Direction string
		Total     int64
	}
	var rows []row
	err := r.entryQuery(ctx, f).
		Select("direction, COALESCE(SUM(amount), 0) AS total").
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	s := &CashflowSummary{}
	for _, rw := range rows {
		switch domain.EntryDirection(rw.Direction) {
		case domain.DirectionIn:
			s.TotalIn = rw.Total
		case domain.DirectionOut:
			s.TotalOut = rw.Total
		}
	}
	s.Net = s.TotalIn - s.TotalOut
	return s, nil
}

type BreakdownRow struct {
	Key      string `json:"key"`
	TotalIn  int64  `json:"total_in"`
	TotalOut int64  `json:"total_out"`
	Net      int64  `json:"net"`
}

// BreakdownByAccount aggregates entries per account name.
func (r *LedgerRepository) BreakdownByAccount(ctx context.Context, f EntryFilter) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	err := r.entryQuery(ctx, f).
		Select(`ledger_accounts.name AS key,
COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE 0 END), 0) AS total_in,
COALESCE(SUM(CASE WHEN direction = 'OUT' THEN amount ELSE 0 END), 0) AS total_out,
COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0) AS net`).
		Joins("JOIN ledger_accounts ON ledger_accounts.id = ledger_entries.account_id").
		Group("ledger_accounts.name").
		Order("ledger_accounts.name").
		Scan(&rows).Error
	return rows, err
}

// BreakdownByRefType aggregates entries per reference type.
func (r *LedgerRepository) BreakdownByRefType(ctx context.Context, f EntryFilter) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	err := r.entryQuery(ctx, f).
		Select(`ref_type AS key,
COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE 0 END), 0) AS total_in,
COALESCE(SUM(CASE WHEN direction = 'OUT' THEN amount ELSE 0 END), 0) AS total_out,
COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0) AS net`).
		Group("ref_type").
		Order("ref_type").
		Scan(&rows).Error
	return rows, err
}

func (r *LedgerRepository) entryQuery(ctx context.Context, f EntryFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.LedgerEntry{})
	if f.From != nil {
		q = q.Where("entry_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("entry_date < ?", *f.To)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.RefType != nil {
		q = q.Where("ref_type = ?", *f.RefType)
	}
	if f.PropertyID != nil {
		q = q.Where("ledger_entries.property_id = ?", *f.PropertyID)
	}
	return q
}
