package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "stayd/internal/bookings/errors"
	bookingsrepo "stayd/internal/bookings/repository"
	"stayd/internal/bookings/validator"
	catalogrepo "stayd/internal/catalog/repository"
	"stayd/internal/notifications"
	"stayd/internal/payments/gateway"
	paymentsrepo "stayd/internal/payments/repository"
	"stayd/pkg/config"
	apperrors "stayd/pkg/errors"
	"stayd/pkg/model"
	"stayd/pkg/sanitizer"
)

const (
	gatewayStatusSuccess        = "success"
	transactionStatusSuccessful = "successful"
)

type PaymentService interface {
	Initiate(ctx context.Context, p *model.PaymentInitiation) (string, error)
	Verify(ctx context.Context, v *model.PaymentVerification) (*model.Booking, bool, error)
}

type paymentService struct {
	payments  paymentsrepo.PaymentRepository
	bookings  bookingsrepo.BookingRepository
	catalog   catalogrepo.CatalogRepository
	gateway   gateway.Client
	validator *validator.BookingValidator
	notifier  notifications.Notifier
	cfg       *config.Config
}

func NewPaymentService(
	payments paymentsrepo.PaymentRepository,
	bookings bookingsrepo.BookingRepository,
	catalog catalogrepo.CatalogRepository,
	gatewayClient gateway.Client,
	bookingValidator *validator.BookingValidator,
	notifier notifications.Notifier,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		payments:  payments,
		bookings:  bookings,
		catalog:   catalog,
		gateway:   gatewayClient,
		validator: bookingValidator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Initiate validates the payload, records a pending Payment, and asks the
// gateway for a hosted payment link. Validation failures happen before any
// write, so a rejected initiation leaves no Payment behind.
func (s *paymentService) Initiate(ctx context.Context, p *model.PaymentInitiation) (string, error) {
	if err := s.validator.ValidateInitiation(p); err != nil {
		s.cfg.Log.Warn("Payment initiation validation failed", "booking_id", p.BookingID, "error", err)
		return "", apperrors.Validation("Payment initiation validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.catalog.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return "", apperrors.NotFoundWithID("User", p.UserID)
		}
		if errors.Is(err, catalogrepo.ErrInvalidID) {
			return "", apperrors.InvalidInput("Invalid user ID format")
		}
		return "", apperrors.Internal("Failed to retrieve user", err)
	}

	payment := &model.Payment{
		UserID:           user.ID,
		BookingID:        p.BookingID,
		Amount:           p.Amount,
		PaymentStatus:    model.PaymentPending,
		PaymentReference: model.PaymentReferenceFor(p.BookingID),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return "", apperrors.Internal("Failed to record payment", err)
	}

	req, err := s.buildGatewayRequest(p, payment.PaymentReference)
	if err != nil {
		return "", err
	}

	resp, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		s.cfg.Log.Error("Payment initiation failed at gateway", "booking_id", p.BookingID, "error", err)
		return "", err
	}
	if resp.Status != gatewayStatusSuccess || resp.Data.Link == "" {
		appErr := apperrors.Gateway("Payment gateway rejected the initiation", nil)
		appErr.Details = map[string]any{"status": resp.Status, "message": resp.Message}
		return "", appErr
	}

	s.cfg.Log.Info("Payment initiated",
		"booking_id", p.BookingID,
		"payment_reference", payment.PaymentReference,
		"amount", p.Amount,
	)
	return resp.Data.Link, nil
}

// Verify reconciles a gateway transaction into a completed booking. The
// booking is rebuilt entirely from the gateway's verified metadata; nothing
// from the caller beyond the transaction id and user is trusted. The second
// return value reports whether the transaction had already been reconciled.
func (s *paymentService) Verify(ctx context.Context, v *model.PaymentVerification) (*model.Booking, bool, error) {
	if v.TransactionID == "" {
		return nil, false, apperrors.InvalidInput("Transaction ID cannot be empty")
	}
	if v.UserID == "" {
		return nil, false, apperrors.InvalidInput("User ID cannot be empty")
	}
	if _, err := primitive.ObjectIDFromHex(v.UserID); err != nil {
		return nil, false, apperrors.InvalidInput("Invalid user ID format")
	}

	resp, err := s.gateway.VerifyTransaction(ctx, v.TransactionID)
	if err != nil {
		s.cfg.Log.Error("Transaction verification failed at gateway", "transaction_id", v.TransactionID, "error", err)
		return nil, false, err
	}
	if resp.Status != gatewayStatusSuccess || resp.Data.Status != transactionStatusSuccessful {
		return nil, false, apperrors.PaymentFailed("Payment was not successful", map[string]any{
			"status":             resp.Data.Status,
			"tx_ref":             resp.Data.TxRef,
			"transaction_status": resp.Status,
		})
	}

	transactionID := strconv.FormatInt(resp.Data.ID, 10)

	existing, err := s.bookings.FindByTransactionID(ctx, transactionID)
	if err == nil {
		s.cfg.Log.Info("Transaction already reconciled", "transaction_id", transactionID, "booking_id", existing.BookingID)
		return existing, true, nil
	}
	if !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, false, apperrors.Internal("Failed to check transaction", err)
	}

	booking, err := s.bookingFromVerification(v.UserID, transactionID, &resp.Data)
	if err != nil {
		return nil, false, err
	}

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The creation workflow already persisted this booking as pending
		// under the same booking_id, so reconciliation is an in-place
		// completion. Inserting is the fallback for references that were
		// never created locally.
		matched, err := s.bookings.Reconcile(sessCtx, booking)
		if err != nil {
			return err
		}
		if !matched {
			if err := s.bookings.Create(sessCtx, booking); err != nil {
				return err
			}
		}
		if err := s.payments.MarkCompleted(sessCtx, resp.Data.TxRef); err != nil {
			if errors.Is(err, paymentsrepo.ErrNotFound) {
				s.cfg.Log.Warn("No payment record for reconciled transaction", "tx_ref", resp.Data.TxRef)
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		// A concurrent verification for the same transaction committed
		// first. The unique indexes make this path equivalent to the gate
		// above.
		if errors.Is(err, bookingserrors.ErrDuplicateTransaction) || errors.Is(err, bookingserrors.ErrDuplicateBookingID) {
			existing, findErr := s.bookings.FindByTransactionID(ctx, transactionID)
			if findErr != nil {
				return nil, false, apperrors.Internal("Failed to load reconciled booking", findErr)
			}
			return existing, true, nil
		}
		s.cfg.Log.Error("Failed to reconcile payment", "transaction_id", transactionID, "error", err)
		if apperrors.IsAppError(err) {
			return nil, false, err
		}
		return nil, false, apperrors.Internal("Failed to reconcile payment", err)
	}

	user, userErr := s.catalog.FindUserByID(ctx, v.UserID)
	if userErr != nil {
		s.cfg.Log.Warn("Failed to resolve user for confirmation", "user_id", v.UserID, "error", userErr)
	}
	if notifyErr := s.notifier.NotifyBookingConfirmed(ctx, booking, user); notifyErr != nil {
		s.cfg.Log.Warn("Failed to send booking confirmation",
			"booking_id", booking.BookingID,
			"error", notifyErr,
		)
	}

	s.cfg.Log.Info("Payment reconciled",
		"booking_id", booking.BookingID,
		"transaction_id", transactionID,
		"amount", booking.Amount,
	)
	return booking, false, nil
}

// --- Helpers ---

func (s *paymentService) buildGatewayRequest(p *model.PaymentInitiation, txRef string) (*gateway.CreatePaymentRequest, error) {
	rooms, err := json.Marshal(p.Rooms)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode room selection", err)
	}

	currency := p.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	return &gateway.CreatePaymentRequest{
		TxRef:       txRef,
		Amount:      strconv.FormatFloat(p.Amount, 'f', 2, 64),
		Currency:    currency,
		RedirectURL: s.cfg.PaymentRedirectURL,
		Customer: gateway.Customer{
			Name:        sanitizer.NormalizeName(p.GuestName),
			Email:       sanitizer.NormalizeEmail(p.Email),
			PhoneNumber: sanitizer.NormalizePhone(p.Phone),
		},
		Meta: gateway.Meta{
			BookingID:    p.BookingID,
			HotelID:      p.HotelID,
			Phone:        sanitizer.NormalizePhone(p.Phone),
			Address:      sanitizer.NormalizeAddress(p.Address),
			Guests:       strconv.Itoa(p.Guests),
			CheckInDate:  p.CheckInDate.UTC().Format(time.RFC3339),
			CheckOutDate: p.CheckOutDate.UTC().Format(time.RFC3339),
			Rooms:        string(rooms),
		},
		Customization: gateway.Customization{
			Title:       "Hotel Booking",
			Description: "Payment for booking " + p.BookingID,
		},
	}, nil
}

// bookingFromVerification rebuilds the completed booking from the verified
// gateway payload. Missing or malformed metadata fails the reconciliation
// before anything is written.
func (s *paymentService) bookingFromVerification(userID, transactionID string, data *gateway.VerifyData) (*model.Booking, error) {
	meta := data.Meta
	if meta.HotelID == "" {
		return nil, apperrors.Validation("Missing hotel information in payment metadata", map[string]any{
			"tx_ref": data.TxRef,
		})
	}

	bookingID := meta.BookingID
	if bookingID == "" {
		bookingID = strings.TrimPrefix(data.TxRef, "booking-")
	}

	var rooms []model.RoomSelection
	if err := json.Unmarshal([]byte(meta.Rooms), &rooms); err != nil {
		return nil, apperrors.Validation("Malformed room selection in payment metadata", map[string]any{
			"tx_ref": data.TxRef,
			"error":  err.Error(),
		})
	}

	guests, err := strconv.Atoi(meta.Guests)
	if err != nil {
		return nil, apperrors.Validation("Malformed guest count in payment metadata", map[string]any{
			"tx_ref": data.TxRef,
			"error":  err.Error(),
		})
	}

	checkIn, err := time.Parse(time.RFC3339, meta.CheckInDate)
	if err != nil {
		return nil, apperrors.Validation("Malformed check-in date in payment metadata", map[string]any{
			"tx_ref": data.TxRef,
			"error":  err.Error(),
		})
	}
	checkOut, err := time.Parse(time.RFC3339, meta.CheckOutDate)
	if err != nil {
		return nil, apperrors.Validation("Malformed check-out date in payment metadata", map[string]any{
			"tx_ref": data.TxRef,
			"error":  err.Error(),
		})
	}

	booking := &model.Booking{
		BookingID:     bookingID,
		UserID:        userID,
		HotelID:       meta.HotelID,
		Rooms:         rooms,
		GuestName:     sanitizer.NormalizeName(data.Customer.Name),
		Phone:         sanitizer.NormalizePhone(meta.Phone),
		Address:       sanitizer.NormalizeAddress(meta.Address),
		Email:         sanitizer.NormalizeEmail(data.Customer.Email),
		Amount:        data.Amount,
		Status:        model.StatusCompleted,
		TransactionID: transactionID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        guests,
	}

	if err := s.validator.Validate(booking); err != nil {
		return nil, apperrors.Validation("Reconciled booking failed validation", map[string]any{
			"tx_ref": data.TxRef,
			"error":  err.Error(),
		})
	}

	return booking, nil
}
