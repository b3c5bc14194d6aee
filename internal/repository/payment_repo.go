package repository

import (
	"context"
	"time"

	"koskita/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&out).Error
	return out, err
}

// SumSuccessful totals the settled payments for a booking.
func (r *PaymentRepository) SumSuccessful(ctx context.Context, bookingID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("booking_id = ? AND status = ?", bookingID, domain.GatewayStatusSuccess).
		Scan(&sum).Error
	return sum, err
}

// MarkSuccessIdempotent settles a payment exactly once. A repeat delivery for
// an already-settled order reports applied=false without touching the row.
func (r *PaymentRepository) MarkSuccessIdempotent(ctx context.Context, orderID, method, rawBody string, paidAt time.Time) (bool, *domain.Payment, error) {
	var applied bool
	var p domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.GatewayStatusSuccess {
			applied = false
			return nil
		}
		updates := map[string]interface{}{
			"status":       domain.GatewayStatusSuccess,
			"raw_callback": rawBody,
			"paid_at":      paidAt,
		}
		if method != "" {
			updates["method"] = method
		}
		if err := tx.Model(&domain.Payment{}).Where("order_id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}
		p.Status = domain.GatewayStatusSuccess
		p.PaidAt = &paidAt
		applied = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return applied, &p, nil
}

// MarkClosed records a failed/expired/refunded outcome unless the payment is
// already settled.
func (r *PaymentRepository) MarkClosed(ctx context.Context, orderID string, status domain.GatewayStatus, reason, rawBody string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("order_id = ? AND status <> ?", orderID, domain.GatewayStatusSuccess).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
			"raw_callback":   rawBody,
		}).Error
}

// ListSuccessful returns all settled payments, oldest first. Used by the
// reconciliation checker.
func (r *PaymentRepository) ListSuccessful(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.GatewayStatusSuccess).
		Order("id").
		Find(&out).Error
	return out, err
}
