package payment

import (
	"context"
	"time"

	"koskita/internal/domain"
)

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	SumSuccessful(ctx context.Context, bookingID int64) (int64, error)
	MarkSuccessIdempotent(ctx context.Context, orderID, method, rawBody string, paidAt time.Time) (bool, *domain.Payment, error)
	MarkClosed(ctx context.Context, orderID string, status domain.GatewayStatus, reason, rawBody string) error
}

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// settlementApplier flips the booking state and posts the ledger entry for a
// payment that settled. Implemented by booking.Service.
type settlementApplier interface {
	ApplyPaymentSuccess(ctx context.Context, p *domain.Payment) error
}

// entryReader looks up the ledger entry a settled payment should have. The
// entry commits in the same transaction as the booking transition, so its
// absence means the transition never landed. Implemented by
// repository.LedgerRepository.
type entryReader interface {
	GetEntryByRef(ctx context.Context, refType domain.EntryRefType, refID int64) (*domain.LedgerEntry, error)
}
