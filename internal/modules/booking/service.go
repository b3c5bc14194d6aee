package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"koskita/internal/domain"
	"koskita/internal/modules/pricing"
	"koskita/internal/repository"

	"gorm.io/gorm"
)

// Actor is the authenticated caller as supplied by the identity middleware.
type Actor struct {
	UserID int64
	Role   domain.Role
}

type Service struct {
	bookings BookingStore
	rooms    RoomStore
	payments PaymentReader
	accounts AccountResolver

	// How long an unpaid/deposit-paid booking may wait for payment.
	paymentWindow time.Duration
}

func NewService(bookings BookingStore, rooms RoomStore, payments PaymentReader, accounts AccountResolver, paymentWindow time.Duration) *Service {
	return &Service{
		bookings:      bookings,
		rooms:         rooms,
		payments:      payments,
		accounts:      accounts,
		paymentWindow: paymentWindow,
	}
}

const dateLayout = "2006-01-02"

// Quote prices a stay without creating anything.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*pricing.Quote, error) {
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	checkIn, checkOut, err := parseRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	return pricing.Calculate(room, req.LeaseType, checkIn, checkOut, req.DiscountAmount)
}

// Create prices the stay, checks availability and opens the booking in the
// unpaid state with a running payment window.
func (s *Service) Create(ctx context.Context, actor Actor, req CreateBookingRequest) (*domain.Booking, error) {
	if actor.Role == domain.RoleCustomer && req.CustomerID != actor.UserID {
		return nil, ErrForbidden
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actor.Role == domain.RoleAdminKos {
		ownerID, err := s.rooms.GetOwnerID(ctx, req.RoomID)
		if err != nil {
			return nil, err
		}
		if ownerID != actor.UserID {
			return nil, ErrForbidden
		}
	}

	checkIn, checkOut, err := parseRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	today := truncateToDay(time.Now().UTC())
	if checkIn.Before(today) {
		return nil, ErrValidation
	}

	quote, err := pricing.Calculate(room, req.LeaseType, checkIn, checkOut, req.DiscountAmount)
	if err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx, checkIn)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.paymentWindow)
	b := &domain.Booking{
		Code:           code,
		RoomID:         room.ID,
		PropertyID:     room.PropertyID,
		CustomerID:     req.CustomerID,
		LeaseType:      req.LeaseType,
		CheckInDate:    quote.CheckInDate,
		CheckOutDate:   quote.CheckOutDate,
		PricePerUnit:   quote.PricePerUnit,
		Units:          quote.Units,
		TotalAmount:    quote.TotalAmount,
		DepositAmount:  quote.DepositAmount,
		DiscountAmount: quote.DiscountAmount,
		Status:         domain.BookingUnpaid,
		PaymentStatus:  domain.PaymentUnpaid,
		ExpiresAt:      &expiresAt,
		Notes:          req.Notes,
	}

	if err := s.bookings.CreateIfAvailable(ctx, b, nil); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrRoomUnavailable
		}
		if errors.Is(err, repository.ErrRoomClosed) {
			return nil, ErrRoomClosed
		}
		return nil, err
	}
	return b, nil
}

// ApplyPaymentSuccess transitions the booking for a payment that just settled
// and posts the matching IN ledger entry in the same transaction as the
// status flip. The payment must already be recorded as successful.
func (s *Service) ApplyPaymentSuccess(ctx context.Context, p *domain.Payment) error {
	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.Status != domain.BookingUnpaid && b.Status != domain.BookingDepositPaid {
		return ErrInvalidTransition
	}

	settled, err := s.payments.SumSuccessful(ctx, b.ID)
	if err != nil {
		return err
	}
	prior := settled - p.Amount
	final := b.FinalAmount()

	var target domain.BookingStatus
	var payState domain.PaymentStatus
	switch {
	case b.Status == domain.BookingUnpaid && prior == 0 &&
		b.DepositAmount != nil && p.Amount == *b.DepositAmount && p.Amount < final:
		target = domain.BookingDepositPaid
		payState = domain.PaymentPartial
	case b.Status == domain.BookingUnpaid && prior == 0 && p.Amount == final:
		target = domain.BookingConfirmed
		payState = domain.PaymentPaid
	case b.Status == domain.BookingDepositPaid && prior+p.Amount == final:
		target = domain.BookingConfirmed
		payState = domain.PaymentPaid
	default:
		return ErrPaymentMismatch
	}
	if !CanTransition(b.Status, target) {
		return ErrInvalidTransition
	}

	account, err := s.settlementAccount(ctx, p)
	if err != nil {
		return err
	}

	entryDate := time.Now().UTC()
	if p.PaidAt != nil {
		entryDate = *p.PaidAt
	}
	entry := &domain.LedgerEntry{
		EntryDate:  entryDate,
		Direction:  domain.DirectionIn,
		Amount:     p.Amount,
		AccountID:  account.ID,
		RefType:    domain.RefPayment,
		RefID:      &p.ID,
		PropertyID: &b.PropertyID,
		Note:       fmt.Sprintf("payment %s for booking %s", p.OrderID, b.Code),
	}

	updates := map[string]interface{}{
		"status":         target,
		"payment_status": payState,
	}
	if target == domain.BookingConfirmed {
		updates["expires_at"] = nil
	} else {
		// New window for the remainder.
		updates["expires_at"] = time.Now().UTC().Add(s.paymentWindow)
	}

	reserved := false
	if err := s.bookings.Transition(ctx, b.ID, []domain.BookingStatus{b.Status}, updates, entry, &reserved); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrInvalidTransition
		}
		return err
	}
	return nil
}

// CheckIn moves a confirmed booking (or a deposit-paid one whose remainder
// has been settled out of band) into checked-in.
func (s *Service) CheckIn(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.getForManage(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, domain.BookingCheckedIn) {
		return nil, ErrInvalidTransition
	}
	if b.Status == domain.BookingDepositPaid {
		settled, err := s.payments.SumSuccessful(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if settled < b.FinalAmount() {
			return nil, ErrInvalidTransition
		}
	}

	now := time.Now().UTC()
	occupied := false
	err = s.bookings.Transition(ctx, b.ID, []domain.BookingStatus{b.Status}, map[string]interface{}{
		"status":             domain.BookingCheckedIn,
		"actual_check_in_at": now,
		"expires_at":         nil,
	}, nil, &occupied)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// CheckOut completes a checked-in booking and releases the room.
func (s *Service) CheckOut(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.getForManage(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, domain.BookingCompleted) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	released := true
	err = s.bookings.Transition(ctx, b.ID, []domain.BookingStatus{b.Status}, map[string]interface{}{
		"status":              domain.BookingCompleted,
		"actual_check_out_at": now,
	}, nil, &released)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// Cancel aborts a non-terminal booking. When settled cash exists the caller
// must name the account for the compensating OUT adjustment; recorded money
// is never dropped silently.
func (s *Service) Cancel(ctx context.Context, actor Actor, bookingID int64, req CancelBookingRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, b, true); err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() || !CanTransition(b.Status, domain.BookingCancelled) {
		return nil, ErrInvalidTransition
	}

	settled, err := s.payments.SumSuccessful(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	var entry *domain.LedgerEntry
	payState := b.PaymentStatus
	if settled > 0 {
		if req.CompensationAccountID == nil {
			return nil, ErrCompensationRequired
		}
		account, err := s.accounts.GetAccountByID(ctx, *req.CompensationAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountUnavailable
			}
			return nil, err
		}
		if account.IsArchived {
			return nil, ErrAccountUnavailable
		}
		note := req.CompensationNote
		if note == "" {
			note = fmt.Sprintf("cancellation adjustment for booking %s", b.Code)
		}
		entry = &domain.LedgerEntry{
			EntryDate:  time.Now().UTC(),
			Direction:  domain.DirectionOut,
			Amount:     settled,
			AccountID:  account.ID,
			RefType:    domain.RefAdjustment,
			RefID:      &b.ID,
			PropertyID: &b.PropertyID,
			Note:       note,
		}
		payState = domain.PaymentRefunded
	}

	released := true
	err = s.bookings.Transition(ctx, b.ID, []domain.BookingStatus{b.Status}, map[string]interface{}{
		"status":              domain.BookingCancelled,
		"payment_status":      payState,
		"cancellation_reason": req.Reason,
		"expires_at":          nil,
	}, entry, &released)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// Renew opens a follow-on booking for the same customer and room starting
// where the current one ends. The parent booking is excluded from the overlap
// check so back-to-back ranges do not collide with it.
func (s *Service) Renew(ctx context.Context, actor Actor, bookingID int64, req RenewBookingRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, b, true); err != nil {
		return nil, err
	}
	if b.Status != domain.BookingCheckedIn && b.Status != domain.BookingCompleted {
		return nil, ErrInvalidTransition
	}

	room, err := s.rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}

	lease := b.LeaseType
	if req.LeaseType != "" {
		lease = req.LeaseType
	}
	start := b.CheckOutDate
	if req.CheckInDate != "" {
		start, err = parseDate(req.CheckInDate)
		if err != nil {
			return nil, ErrValidation
		}
	}

	quote, err := pricing.Calculate(room, lease, start, nil, req.DiscountAmount)
	if err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx, start)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.paymentWindow)
	renewal := &domain.Booking{
		Code:            code,
		RoomID:          b.RoomID,
		PropertyID:      b.PropertyID,
		CustomerID:      b.CustomerID,
		LeaseType:       lease,
		CheckInDate:     quote.CheckInDate,
		CheckOutDate:    quote.CheckOutDate,
		PricePerUnit:    quote.PricePerUnit,
		Units:           quote.Units,
		TotalAmount:     quote.TotalAmount,
		DepositAmount:   quote.DepositAmount,
		DiscountAmount:  quote.DiscountAmount,
		Status:          domain.BookingUnpaid,
		PaymentStatus:   domain.PaymentUnpaid,
		ExpiresAt:       &expiresAt,
		ParentBookingID: &b.ID,
	}

	if err := s.bookings.CreateIfAvailable(ctx, renewal, &b.ID); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrRoomUnavailable
		}
		if errors.Is(err, repository.ErrRoomClosed) {
			return nil, ErrRoomClosed
		}
		return nil, err
	}
	return renewal, nil
}

// ExpireDue sweeps overdue unpaid/deposit-paid bookings into expired.
func (s *Service) ExpireDue(ctx context.Context) ([]int64, error) {
	return s.bookings.ExpireDue(ctx, time.Now().UTC())
}

func (s *Service) GetByID(ctx context.Context, actor Actor, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, b, true); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByProperty(ctx, propertyID, limit, offset)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) getForManage(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, b, false); err != nil {
		return nil, err
	}
	return b, nil
}

// authorizeManage enforces role/ownership: superadmin and receptionist act on
// any booking, adminkos only on bookings of properties they own, customers
// only on their own bookings and only where allowCustomer is set.
func (s *Service) authorizeManage(ctx context.Context, actor Actor, b *domain.Booking, allowCustomer bool) error {
	switch actor.Role {
	case domain.RoleSuperadmin, domain.RoleReceptionist:
		return nil
	case domain.RoleAdminKos:
		ownerID, err := s.rooms.GetOwnerID(ctx, b.RoomID)
		if err != nil {
			return err
		}
		if ownerID != actor.UserID {
			return ErrForbidden
		}
		return nil
	case domain.RoleCustomer:
		if allowCustomer && b.CustomerID == actor.UserID {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

func (s *Service) settlementAccount(ctx context.Context, p *domain.Payment) (*domain.LedgerAccount, error) {
	name := domain.SystemAccountBankTransfer
	switch {
	case p.Purpose == domain.PurposeDeposit:
		name = domain.SystemAccountDepositIncome
	case p.Method == "cash":
		name = domain.SystemAccountCash
	}
	account, err := s.accounts.GetAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountUnavailable
		}
		return nil, err
	}
	return account, nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (s *Service) generateCode(ctx context.Context, day time.Time) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		suffix := make([]byte, 6)
		for i := range suffix {
			suffix[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := fmt.Sprintf("KOS-%s-%s", day.Format("20060102"), suffix)
		exists, err := s.bookings.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("booking code space exhausted")
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseRange(checkIn, checkOut string) (time.Time, *time.Time, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return time.Time{}, nil, ErrValidation
	}
	if checkOut == "" {
		return in, nil, nil
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return time.Time{}, nil, ErrValidation
	}
	return in, &out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
