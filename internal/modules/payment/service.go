package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"koskita/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	payments paymentRepo
	bookings bookingReader
	settle   settlementApplier
	entries  entryReader
	snap     SnapClient
	loggerf  func(format string, args ...interface{})

	serverKey string
}

func NewService(payments paymentRepo, bookings bookingReader, settle settlementApplier, entries entryReader, snap SnapClient, serverKey string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments:  payments,
		bookings:  bookings,
		settle:    settle,
		entries:   entries,
		snap:      snap,
		loggerf:   loggerf,
		serverKey: serverKey,
	}
}

// CreateTransaction opens a hosted-checkout intent for the next amount the
// booking owes: the deposit while unpaid, the remainder once the deposit is
// in, or the full amount for bookings without a deposit.
func (s *Service) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingUnpaid && b.Status != domain.BookingDepositPaid {
		return nil, ErrBookingNotPayable
	}

	settled, err := s.payments.SumSuccessful(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	final := b.FinalAmount()

	purpose := req.Purpose
	if purpose == "" {
		switch {
		case b.Status == domain.BookingDepositPaid:
			purpose = domain.PurposeRemainder
		case b.DepositAmount != nil:
			purpose = domain.PurposeDeposit
		default:
			purpose = domain.PurposeFull
		}
	}

	var amount int64
	switch purpose {
	case domain.PurposeDeposit:
		if b.DepositAmount == nil || b.Status != domain.BookingUnpaid {
			return nil, ErrBookingNotPayable
		}
		amount = *b.DepositAmount
	case domain.PurposeFull:
		if b.Status != domain.BookingUnpaid {
			return nil, ErrBookingNotPayable
		}
		amount = final
	case domain.PurposeRemainder:
		amount = final - settled
	}
	if amount <= 0 {
		return nil, ErrBookingNotPayable
	}
	if settled+amount > final {
		return nil, ErrOverpayment
	}

	orderID := fmt.Sprintf("%s-%s", b.Code, strings.ToUpper(uuid.NewString()[:8]))
	tx, err := s.snap.CreateTransaction(ctx, orderID, amount, fmt.Sprintf("Kos booking %s (%s)", b.Code, purpose))
	if err != nil {
		return nil, fmt.Errorf("create gateway transaction: %w", err)
	}

	p := &domain.Payment{
		BookingID:   b.ID,
		OrderID:     orderID,
		Purpose:     purpose,
		Amount:      amount,
		Status:      domain.GatewayStatusPending,
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	return &CreateTransactionResponse{
		OrderID:     orderID,
		Amount:      amount,
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
		Status:      string(domain.GatewayStatusPending),
	}, nil
}

// HandleNotification applies one gateway settlement callback. Duplicate
// deliveries for an already-settled order are no-ops; callbacks for orders we
// never issued are logged and discarded.
func (s *Service) HandleNotification(ctx context.Context, n NotificationPayload, rawBody string) error {
	valid := strings.EqualFold(n.SignatureKey, s.signature(n.OrderID, n.StatusCode, n.GrossAmount))
	s.loggerf("level=info msg=gateway notification order_id=%s status=%s signature_valid=%t", n.OrderID, n.TransactionStatus, valid)
	if !valid {
		return ErrInvalidSignature
	}

	p, err := s.payments.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loggerf("level=warn msg=notification for unknown order discarded order_id=%s", n.OrderID)
			return nil
		}
		return err
	}

	gross, err := parseGrossAmount(n.GrossAmount)
	if err != nil {
		return ErrAmountMismatch
	}
	if gross != p.Amount {
		reason := fmt.Sprintf("amount mismatch callback=%d expected=%d", gross, p.Amount)
		_ = s.payments.MarkClosed(ctx, n.OrderID, domain.GatewayStatusFailed, reason, rawBody)
		return ErrAmountMismatch
	}

	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "challenge" {
			s.loggerf("level=info msg=capture challenged, awaiting review order_id=%s", n.OrderID)
			return nil
		}
		return s.applySettlement(ctx, n, rawBody)
	case "settlement":
		return s.applySettlement(ctx, n, rawBody)
	case "pending":
		return nil
	case "deny", "cancel", "failure":
		return s.payments.MarkClosed(ctx, n.OrderID, domain.GatewayStatusFailed, n.TransactionStatus, rawBody)
	case "expire":
		return s.payments.MarkClosed(ctx, n.OrderID, domain.GatewayStatusExpired, n.TransactionStatus, rawBody)
	default:
		s.loggerf("level=warn msg=unhandled transaction status order_id=%s status=%s", n.OrderID, n.TransactionStatus)
		return nil
	}
}

func (s *Service) applySettlement(ctx context.Context, n NotificationPayload, rawBody string) error {
	paidAt := time.Now().UTC()
	if t, err := time.Parse("2006-01-02 15:04:05", n.TransactionTime); err == nil {
		paidAt = t.UTC()
	}

	applied, p, err := s.payments.MarkSuccessIdempotent(ctx, n.OrderID, n.PaymentType, rawBody, paidAt)
	if err != nil {
		return err
	}
	if !applied {
		// An earlier delivery settled the payment row. The booking transition
		// and its ledger entry commit together, so a present entry means that
		// delivery finished and this one is a pure duplicate.
		if _, err := s.entries.GetEntryByRef(ctx, domain.RefPayment, p.ID); err == nil {
			s.loggerf("level=info msg=idempotent callback, payment already settled order_id=%s", n.OrderID)
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// No entry: the earlier delivery died between settling the payment and
		// moving the booking. Re-apply unless the booking moved on some other
		// way, in which case reconciliation has to sort it out.
		b, err := s.bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingUnpaid && b.Status != domain.BookingDepositPaid {
			s.loggerf("level=warn msg=settled payment without ledger entry on moved booking, leaving for reconciliation order_id=%s booking_id=%d status=%s", n.OrderID, p.BookingID, b.Status)
			return nil
		}
		s.loggerf("level=warn msg=recovering interrupted settlement order_id=%s booking_id=%d", n.OrderID, p.BookingID)
	}

	if err := s.settle.ApplyPaymentSuccess(ctx, p); err != nil {
		s.loggerf("level=error msg=settlement applied but booking transition failed order_id=%s booking_id=%d err=%v", n.OrderID, p.BookingID, err)
		return err
	}
	return nil
}

func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *Service) signature(orderID, statusCode, grossAmount string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	return hex.EncodeToString(h[:])
}

// parseGrossAmount converts the gateway's "200000.00" to whole rupiah.
func parseGrossAmount(v string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}
