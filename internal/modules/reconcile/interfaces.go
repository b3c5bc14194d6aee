package reconcile

import (
	"context"

	"koskita/internal/domain"
)

type paymentLister interface {
	ListSuccessful(ctx context.Context) ([]domain.Payment, error)
}

type ledgerStore interface {
	GetEntryByRef(ctx context.Context, refType domain.EntryRefType, refID int64) (*domain.LedgerEntry, error)
	PostEntry(ctx context.Context, e *domain.LedgerEntry) (bool, error)
	GetAccountByName(ctx context.Context, name string) (*domain.LedgerAccount, error)
	CreateAccount(ctx context.Context, a *domain.LedgerAccount) error
}

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
