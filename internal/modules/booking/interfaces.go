package booking

import (
	"context"
	"time"

	"koskita/internal/domain"
)

// BookingStore is the persistence boundary for bookings. Mutating methods own
// their transactions; Transition couples the status flip, the optional ledger
// entry and the room flag into one atomic unit.
type BookingStore interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking, excludeBookingID *int64) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error)
	Transition(ctx context.Context, bookingID int64, from []domain.BookingStatus, updates map[string]interface{}, entry *domain.LedgerEntry, roomAvailable *bool) error
	ExpireDue(ctx context.Context, now time.Time) ([]int64, error)
}

type RoomStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetOwnerID(ctx context.Context, roomID int64) (int64, error)
}

type PaymentReader interface {
	SumSuccessful(ctx context.Context, bookingID int64) (int64, error)
}

// AccountResolver locates ledger accounts for booking-driven postings.
type AccountResolver interface {
	GetAccountByID(ctx context.Context, id int64) (*domain.LedgerAccount, error)
	GetAccountByName(ctx context.Context, name string) (*domain.LedgerAccount, error)
}
