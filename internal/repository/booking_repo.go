package repository

import (
	"context"
	"errors"
	"time"

	"koskita/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateIfAvailable inserts the booking only if no other active booking on the
// same room intersects [check_in, check_out). The room row is locked for the
// duration of the check so concurrent attempts serialize; on Postgres the
// idx_no_overbooking exclusion constraint is kept as a second line of defense.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking, excludeBookingID *int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, b.RoomID).Error; err != nil {
			return err
		}
		if !room.IsActive {
			return ErrRoomClosed
		}

		q := tx.Model(&domain.Booking{}).
			Where("room_id = ?", b.RoomID).
			Where("status IN ?", statusStrings(domain.ActiveBookingStatuses)).
			Where("check_in_date < ? AND check_out_date > ?", b.CheckOutDate, b.CheckInDate)
		if excludeBookingID != nil {
			q = q.Where("id <> ?", *excludeBookingID)
		}

		var cnt int64
		if err := q.Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}

		return tx.Create(b).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_overbooking" {
			return ErrOverlap
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("code = ?", code).Count(&cnt).Error
	return cnt > 0, err
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// Transition applies a status change atomically: the booking row is locked,
// the current status must be in from, the updates are applied, and when entry
// is non-nil the ledger entry is written in the same transaction. A PAYMENT
// entry that already exists for its (ref_type, ref_id) is skipped, never
// duplicated. roomAvailable, when non-nil, flips the room flag in the same
// transaction so reservation release is atomic with the status change.
func (r *BookingRepository) Transition(
	ctx context.Context,
	bookingID int64,
	from []domain.BookingStatus,
	updates map[string]interface{},
	entry *domain.LedgerEntry,
	roomAvailable *bool,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, bookingID).Error; err != nil {
			return err
		}

		if !statusIn(b.Status, from) {
			return ErrStatusConflict
		}

		if err := tx.Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(updates).Error; err != nil {
			return err
		}

		if entry != nil {
			if entry.RefType == domain.RefPayment && entry.RefID != nil {
				var cnt int64
				if err := tx.Model(&domain.LedgerEntry{}).
					Where("ref_type = ? AND ref_id = ?", entry.RefType, *entry.RefID).
					Count(&cnt).Error; err != nil {
					return err
				}
				if cnt > 0 {
					return nil
				}
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		if roomAvailable != nil {
			if err := tx.Model(&domain.Room{}).
				Where("id = ?", b.RoomID).
				Update("is_available", *roomAvailable).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// ExpireDue flips every overdue unpaid/deposit-paid booking to expired and
// releases its room, all in one transaction. Returns the expired booking ids.
func (r *BookingRepository) ExpireDue(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []domain.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status IN ?", []string{string(domain.BookingUnpaid), string(domain.BookingDepositPaid)}).
			Where("expires_at IS NOT NULL AND expires_at < ?", now).
			Find(&due).Error; err != nil {
			return err
		}
		for _, b := range due {
			if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
				"status": domain.BookingExpired,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&domain.Room{}).Where("id = ?", b.RoomID).Update("is_available", true).Error; err != nil {
				return err
			}
			ids = append(ids, b.ID)
		}
		return nil
	})
	return ids, err
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func statusIn(s domain.BookingStatus, set []domain.BookingStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
