package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"koskita/internal/domain"
	"koskita/internal/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"
)

func setupTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:reconcile_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Property{}, &domain.Room{},
		&domain.Booking{}, &domain.Payment{},
		&domain.LedgerAccount{}, &domain.LedgerEntry{},
	); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	payments := repository.NewPaymentRepository(db)
	ledger := repository.NewLedgerRepository(db)
	bookings := repository.NewBookingRepository(db)
	return NewService(payments, ledger, bookings, nil), db
}

func seedSettledPayment(t *testing.T, db *gorm.DB) *domain.Payment {
	t.Helper()

	b := &domain.Booking{
		Code:          "KOS-20260901-ABCDEF",
		RoomID:        1,
		PropertyID:    3,
		CustomerID:    42,
		LeaseType:     domain.LeaseMonthly,
		CheckInDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		PricePerUnit:  1_000_000,
		Units:         1,
		TotalAmount:   1_000_000,
		Status:        domain.BookingDepositPaid,
		PaymentStatus: domain.PaymentPartial,
	}
	assert.NoError(t, db.Create(b).Error)

	paidAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := &domain.Payment{
		BookingID: b.ID,
		OrderID:   "KOS-20260901-ABCDEF-AAAA1111",
		Purpose:   domain.PurposeDeposit,
		Amount:    200_000,
		Status:    domain.GatewayStatusSuccess,
		PaidAt:    &paidAt,
	}
	assert.NoError(t, db.Create(p).Error)
	return p
}

func TestCheckAndInitialize_BackfillsMissingEntry(t *testing.T) {
	svc, db := setupTest(t)
	ctx := context.Background()

	p := seedSettledPayment(t, db)

	// Drifted state: a settled payment with no ledger entry.
	report, err := svc.Check(ctx)
	assert.NoError(t, err)
	assert.False(t, report.IsHealthy)
	assert.Len(t, report.Issues, 1)
	assert.Equal(t, "missing_entry", report.Issues[0].Kind)
	assert.Equal(t, p.BookingID, report.Issues[0].BookingID)

	result, err := svc.Initialize(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.AccountsCreated)
	assert.Equal(t, 1, result.EntriesBackfilled)

	report, err = svc.Check(ctx)
	assert.NoError(t, err)
	assert.True(t, report.IsHealthy)
	assert.Empty(t, report.Issues)

	entry := &domain.LedgerEntry{}
	assert.NoError(t, db.Where("ref_type = ? AND ref_id = ?", domain.RefPayment, p.ID).First(entry).Error)
	assert.Equal(t, int64(200_000), entry.Amount)
	assert.Equal(t, domain.DirectionIn, entry.Direction)

	// Deposit payments land on the deposit income account.
	account := &domain.LedgerAccount{}
	assert.NoError(t, db.First(account, entry.AccountID).Error)
	assert.Equal(t, domain.SystemAccountDepositIncome, account.Name)
}

func TestInitialize_SecondRunCreatesNoDuplicates(t *testing.T) {
	svc, db := setupTest(t)
	ctx := context.Background()

	seedSettledPayment(t, db)

	_, err := svc.Initialize(ctx)
	assert.NoError(t, err)

	result, err := svc.Initialize(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.AccountsCreated)
	assert.Equal(t, 0, result.EntriesBackfilled)

	var entries int64
	assert.NoError(t, db.Model(&domain.LedgerEntry{}).Count(&entries).Error)
	assert.Equal(t, int64(1), entries)

	var accounts int64
	assert.NoError(t, db.Model(&domain.LedgerAccount{}).Count(&accounts).Error)
	assert.Equal(t, int64(3), accounts)
}

func TestCheck_AmountMismatchReported(t *testing.T) {
	svc, db := setupTest(t)
	ctx := context.Background()

	p := seedSettledPayment(t, db)

	account := &domain.LedgerAccount{Name: domain.SystemAccountDepositIncome, Type: domain.AccountIncome, IsSystem: true}
	assert.NoError(t, db.Create(account).Error)
	refID := p.ID
	assert.NoError(t, db.Create(&domain.LedgerEntry{
		EntryDate: time.Now().UTC(),
		Direction: domain.DirectionIn,
		Amount:    150_000, // wrong
		AccountID: account.ID,
		RefType:   domain.RefPayment,
		RefID:     &refID,
	}).Error)

	report, err := svc.Check(ctx)
	assert.NoError(t, err)
	assert.False(t, report.IsHealthy)
	assert.Len(t, report.Issues, 1)
	assert.Equal(t, "amount_mismatch", report.Issues[0].Kind)

	assert.ErrorIs(t, svc.Verify(ctx), ErrDrift)
}

func TestVerify_HealthyLedger(t *testing.T) {
	svc, _ := setupTest(t)
	assert.NoError(t, svc.Verify(context.Background()))
}
