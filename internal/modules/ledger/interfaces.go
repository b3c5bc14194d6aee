package ledger

import (
	"context"

	"koskita/internal/domain"
	"koskita/internal/repository"
)

// LedgerStore is the persistence surface the service needs. Implemented by
// repository.LedgerRepository.
type LedgerStore interface {
	CreateAccount(ctx context.Context, a *domain.LedgerAccount) error
	GetAccountByID(ctx context.Context, id int64) (*domain.LedgerAccount, error)
	GetAccountByName(ctx context.Context, name string) (*domain.LedgerAccount, error)
	ListAccounts(ctx context.Context, includeArchived bool) ([]domain.LedgerAccount, error)
	SetAccountArchived(ctx context.Context, id int64, archived bool) error

	PostEntry(ctx context.Context, e *domain.LedgerEntry) (bool, error)
	GetEntryByID(ctx context.Context, id int64) (*domain.LedgerEntry, error)
	GetEntryByRef(ctx context.Context, refType domain.EntryRefType, refID int64) (*domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteEntry(ctx context.Context, id int64) error

	ListEntries(ctx context.Context, f repository.EntryFilter) ([]domain.LedgerEntry, error)
	Summarize(ctx context.Context, f repository.EntryFilter) (*repository.CashflowSummary, error)
	BreakdownByAccount(ctx context.Context, f repository.EntryFilter) ([]repository.BreakdownRow, error)
	BreakdownByRefType(ctx context.Context, f repository.EntryFilter) ([]repository.BreakdownRow, error)
}
