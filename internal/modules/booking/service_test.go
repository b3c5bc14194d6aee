package booking

import (
	"context"
	"testing"
	"time"

	"koskita/internal/domain"
	"koskita/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock stores

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) CreateIfAvailable(ctx context.Context, b *domain.Booking, excludeBookingID *int64) error {
	args := m.Called(ctx, b, excludeBookingID)
	if b != nil && args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Transition(ctx context.Context, bookingID int64, from []domain.BookingStatus, updates map[string]interface{}, entry *domain.LedgerEntry, roomAvailable *bool) error {
	args := m.Called(ctx, bookingID, from, updates, entry, roomAvailable)
	return args.Error(0)
}

func (m *MockBookingStore) ExpireDue(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomStore) GetOwnerID(ctx context.Context, roomID int64) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) SumSuccessful(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) GetAccountByID(ctx context.Context, id int64) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountResolver) GetAccountByName(ctx context.Context, name string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func newTestService() (*Service, *MockBookingStore, *MockRoomStore, *MockPaymentReader, *MockAccountResolver) {
	bookings := new(MockBookingStore)
	rooms := new(MockRoomStore)
	payments := new(MockPaymentReader)
	accounts := new(MockAccountResolver)
	return NewService(bookings, rooms, payments, accounts, 24*time.Hour), bookings, rooms, payments, accounts
}

var receptionist = Actor{UserID: 7, Role: domain.RoleReceptionist}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestService_Create_MonthlyNoDeposit(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID: 10, PropertyID: 3, PriceMonthly: 1_500_000, DepositPolicy: domain.DepositNone,
	}, nil)
	bookings.On("CodeExists", mock.Anything, mock.Anything).Return(false, nil)
	bookings.On("CreateIfAvailable", mock.Anything, mock.Anything, (*int64)(nil)).Return(nil)

	b, err := svc.Create(context.Background(), receptionist, CreateBookingRequest{
		RoomID:      10,
		CustomerID:  42,
		LeaseType:   domain.LeaseMonthly,
		CheckInDate: futureDate(3),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1_500_000), b.TotalAmount)
	assert.Nil(t, b.DepositAmount)
	assert.Equal(t, domain.BookingUnpaid, b.Status)
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
	assert.NotEmpty(t, b.Code)
	assert.NotNil(t, b.ExpiresAt)
	assert.Equal(t, b.CheckInDate.AddDate(0, 0, 30), b.CheckOutDate)
}

func TestService_Create_RoomUnavailable(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID: 10, PropertyID: 3, PriceMonthly: 1_000_000,
	}, nil)
	bookings.On("CodeExists", mock.Anything, mock.Anything).Return(false, nil)
	bookings.On("CreateIfAvailable", mock.Anything, mock.Anything, (*int64)(nil)).Return(repository.ErrOverlap)

	_, err := svc.Create(context.Background(), receptionist, CreateBookingRequest{
		RoomID:      10,
		CustomerID:  42,
		LeaseType:   domain.LeaseMonthly,
		CheckInDate: futureDate(3),
	})

	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestService_Create_ClosedRoom(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID: 10, PropertyID: 3, PriceMonthly: 1_000_000,
	}, nil)
	bookings.On("CodeExists", mock.Anything, mock.Anything).Return(false, nil)
	bookings.On("CreateIfAvailable", mock.Anything, mock.Anything, (*int64)(nil)).Return(repository.ErrRoomClosed)

	_, err := svc.Create(context.Background(), receptionist, CreateBookingRequest{
		RoomID:      10,
		CustomerID:  42,
		LeaseType:   domain.LeaseMonthly,
		CheckInDate: futureDate(3),
	})

	assert.ErrorIs(t, err, ErrRoomClosed)
}

func TestService_Create_CustomerCannotBookForOthers(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), Actor{UserID: 42, Role: domain.RoleCustomer}, CreateBookingRequest{
		RoomID:      10,
		CustomerID:  43,
		LeaseType:   domain.LeaseMonthly,
		CheckInDate: futureDate(3),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Create_PastCheckIn(t *testing.T) {
	svc, _, rooms, _, _ := newTestService()
	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{ID: 10, PriceMonthly: 1_000_000}, nil)

	_, err := svc.Create(context.Background(), receptionist, CreateBookingRequest{
		RoomID:      10,
		CustomerID:  42,
		LeaseType:   domain.LeaseMonthly,
		CheckInDate: "2020-01-01",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func depositBooking() *domain.Booking {
	dep := int64(200_000)
	return &domain.Booking{
		ID:            55,
		Code:          "KOS-20250101-AAAAAA",
		RoomID:        10,
		PropertyID:    3,
		CustomerID:    42,
		TotalAmount:   1_000_000,
		DepositAmount: &dep,
		Status:        domain.BookingUnpaid,
		PaymentStatus: domain.PaymentUnpaid,
	}
}

func TestService_ApplyPaymentSuccess_DepositMovesToDepositPaid(t *testing.T) {
	svc, bookings, _, payments, accounts := newTestService()

	b := depositBooking()
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(200_000), nil)
	accounts.On("GetAccountByName", mock.Anything, domain.SystemAccountDepositIncome).
		Return(&domain.LedgerAccount{ID: 2, Name: domain.SystemAccountDepositIncome}, nil)

	var gotEntry *domain.LedgerEntry
	var gotUpdates map[string]interface{}
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingUnpaid}, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotUpdates = args.Get(3).(map[string]interface{})
			gotEntry = args.Get(4).(*domain.LedgerEntry)
		}).
		Return(nil)

	paidAt := time.Now().UTC()
	err := svc.ApplyPaymentSuccess(context.Background(), &domain.Payment{
		ID:        700,
		BookingID: 55,
		OrderID:   "ORD-1",
		Purpose:   domain.PurposeDeposit,
		Amount:    200_000,
		Status:    domain.GatewayStatusSuccess,
		PaidAt:    &paidAt,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingDepositPaid, gotUpdates["status"])
	assert.Equal(t, domain.PaymentPartial, gotUpdates["payment_status"])
	assert.NotNil(t, gotEntry)
	assert.Equal(t, domain.DirectionIn, gotEntry.Direction)
	assert.Equal(t, int64(200_000), gotEntry.Amount)
	assert.Equal(t, domain.RefPayment, gotEntry.RefType)
	assert.Equal(t, int64(700), *gotEntry.RefID)
}

func TestService_ApplyPaymentSuccess_FullPaymentConfirms(t *testing.T) {
	svc, bookings, _, payments, accounts := newTestService()

	b := depositBooking()
	b.DepositAmount = nil
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(1_000_000), nil)
	accounts.On("GetAccountByName", mock.Anything, domain.SystemAccountBankTransfer).
		Return(&domain.LedgerAccount{ID: 1, Name: domain.SystemAccountBankTransfer}, nil)

	var gotUpdates map[string]interface{}
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingUnpaid}, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotUpdates = args.Get(3).(map[string]interface{}) }).
		Return(nil)

	err := svc.ApplyPaymentSuccess(context.Background(), &domain.Payment{
		ID:        701,
		BookingID: 55,
		OrderID:   "ORD-2",
		Purpose:   domain.PurposeFull,
		Amount:    1_000_000,
		Status:    domain.GatewayStatusSuccess,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, gotUpdates["status"])
	assert.Equal(t, domain.PaymentPaid, gotUpdates["payment_status"])
	assert.Nil(t, gotUpdates["expires_at"])
}

func TestService_ApplyPaymentSuccess_RemainderConfirms(t *testing.T) {
	svc, bookings, _, payments, accounts := newTestService()

	b := depositBooking()
	b.Status = domain.BookingDepositPaid
	b.PaymentStatus = domain.PaymentPartial
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(1_000_000), nil)
	accounts.On("GetAccountByName", mock.Anything, domain.SystemAccountBankTransfer).
		Return(&domain.LedgerAccount{ID: 1, Name: domain.SystemAccountBankTransfer}, nil)
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingDepositPaid}, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	err := svc.ApplyPaymentSuccess(context.Background(), &domain.Payment{
		ID:        702,
		BookingID: 55,
		OrderID:   "ORD-3",
		Purpose:   domain.PurposeRemainder,
		Amount:    800_000,
		Status:    domain.GatewayStatusSuccess,
	})

	assert.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestService_ApplyPaymentSuccess_WrongDepositAmount(t *testing.T) {
	svc, bookings, _, payments, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(55)).Return(depositBooking(), nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(150_000), nil)

	err := svc.ApplyPaymentSuccess(context.Background(), &domain.Payment{
		ID:        703,
		BookingID: 55,
		Amount:    150_000,
		Status:    domain.GatewayStatusSuccess,
	})

	assert.ErrorIs(t, err, ErrPaymentMismatch)
	bookings.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ApplyPaymentSuccess_TerminalBooking(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingCancelled
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)

	err := svc.ApplyPaymentSuccess(context.Background(), &domain.Payment{ID: 704, BookingID: 55, Amount: 200_000})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_CheckIn_FromConfirmed(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingConfirmed}, mock.Anything, (*domain.LedgerEntry)(nil), mock.Anything).
		Return(nil)

	_, err := svc.CheckIn(context.Background(), receptionist, 55)

	assert.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingCheckedIn
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)

	_, err := svc.CheckIn(context.Background(), receptionist, 55)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	bookings.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CheckIn_DepositPaidRequiresSettledRemainder(t *testing.T) {
	svc, bookings, _, payments, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingDepositPaid
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(200_000), nil)

	_, err := svc.CheckIn(context.Background(), receptionist, 55)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Cancel_PaidWithoutCompensation(t *testing.T) {
	svc, bookings, _, payments, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingDepositPaid
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(200_000), nil)

	_, err := svc.Cancel(context.Background(), receptionist, 55, CancelBookingRequest{Reason: "moved out"})

	assert.ErrorIs(t, err, ErrCompensationRequired)
}

func TestService_Cancel_PaidPostsAdjustment(t *testing.T) {
	svc, bookings, _, payments, accounts := newTestService()

	b := depositBooking()
	b.Status = domain.BookingDepositPaid
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(200_000), nil)
	accounts.On("GetAccountByID", mock.Anything, int64(4)).Return(&domain.LedgerAccount{ID: 4, Name: "Refunds"}, nil)

	var gotEntry *domain.LedgerEntry
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingDepositPaid}, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotEntry = args.Get(4).(*domain.LedgerEntry) }).
		Return(nil)

	acct := int64(4)
	_, err := svc.Cancel(context.Background(), receptionist, 55, CancelBookingRequest{
		Reason:                "moved out",
		CompensationAccountID: &acct,
	})

	assert.NoError(t, err)
	assert.NotNil(t, gotEntry)
	assert.Equal(t, domain.DirectionOut, gotEntry.Direction)
	assert.Equal(t, int64(200_000), gotEntry.Amount)
	assert.Equal(t, domain.RefAdjustment, gotEntry.RefType)
}

func TestService_Cancel_UnpaidNeedsNoCompensation(t *testing.T) {
	svc, bookings, _, payments, _ := newTestService()

	b := depositBooking()
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	payments.On("SumSuccessful", mock.Anything, int64(55)).Return(int64(0), nil)
	bookings.On("Transition", mock.Anything, int64(55), []domain.BookingStatus{domain.BookingUnpaid}, mock.Anything, (*domain.LedgerEntry)(nil), mock.Anything).
		Return(nil)

	_, err := svc.Cancel(context.Background(), receptionist, 55, CancelBookingRequest{Reason: "changed plans"})

	assert.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestService_Renew_ExcludesParentFromOverlapCheck(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingCheckedIn
	b.LeaseType = domain.LeaseMonthly
	b.CheckOutDate = time.Now().UTC().AddDate(0, 0, 10)
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID: 10, PropertyID: 3, PriceMonthly: 1_000_000,
	}, nil)
	bookings.On("CodeExists", mock.Anything, mock.Anything).Return(false, nil)

	var gotExclude *int64
	bookings.On("CreateIfAvailable", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotExclude = args.Get(2).(*int64) }).
		Return(nil)

	renewal, err := svc.Renew(context.Background(), receptionist, 55, RenewBookingRequest{})

	assert.NoError(t, err)
	assert.NotNil(t, gotExclude)
	assert.Equal(t, int64(55), *gotExclude)
	assert.Equal(t, int64(55), *renewal.ParentBookingID)
	assert.Equal(t, int64(42), renewal.CustomerID)
	assert.Equal(t, domain.BookingUnpaid, renewal.Status)
}

func TestService_Renew_OnlyFromCheckedInOrCompleted(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)

	_, err := svc.Renew(context.Background(), receptionist, 55, RenewBookingRequest{})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_AdminKosNeedsOwnership(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	b := depositBooking()
	b.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, int64(55)).Return(b, nil)
	rooms.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(777), nil)

	_, err := svc.CheckIn(context.Background(), Actor{UserID: 1, Role: domain.RoleAdminKos}, 55)

	assert.ErrorIs(t, err, ErrForbidden)
}
