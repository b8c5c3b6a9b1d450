package notifications

import (
	"context"
	"time"

	"stayd/pkg/kafka"
	"stayd/pkg/logger"
	"stayd/pkg/model"
)

const eventBookingConfirmed = "booking.confirmed"

// BookingConfirmation is the event sent after a payment has been
// reconciled. Delivery is best effort; the booking is committed before
// this is attempted.
type BookingConfirmation struct {
	BookingID     string                `json:"booking_id"`
	UserID        string                `json:"user_id,omitempty"`
	User          *model.User           `json:"user,omitempty"`
	GuestName     string                `json:"guest_name"`
	Email         string                `json:"email"`
	Phone         string                `json:"phone,omitempty"`
	HotelID       string                `json:"hotel_id"`
	Rooms         []model.RoomSelection `json:"rooms"`
	Amount        float64               `json:"amount"`
	Status        string                `json:"status"`
	TransactionID string                `json:"transaction_id"`
	CheckInDate   time.Time             `json:"check_in_date"`
	CheckOutDate  time.Time             `json:"check_out_date"`
	Guests        int                   `json:"guests"`
}

type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, booking *model.Booking, user *model.User) error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaNotifier struct {
	producer publisher
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		log:      log,
	}
}

func (n *kafkaNotifier) NotifyBookingConfirmed(ctx context.Context, booking *model.Booking, user *model.User) error {
	msg := kafka.NewMessage().
		WithKey(booking.BookingID).
		WithEventType(eventBookingConfirmed).
		WithSource("stayd").
		WithValue(BookingConfirmation{
			BookingID:     booking.BookingID,
			UserID:        booking.UserID,
			User:          user,
			GuestName:     booking.GuestName,
			Email:         booking.Email,
			Phone:         booking.Phone,
			HotelID:       booking.HotelID,
			Rooms:         booking.Rooms,
			Amount:        booking.Amount,
			Status:        booking.Status,
			TransactionID: booking.TransactionID,
			CheckInDate:   booking.CheckInDate,
			CheckOutDate:  booking.CheckOutDate,
			Guests:        booking.Guests,
		}).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		return err
	}

	n.log.Info("Booking confirmation published",
		"booking_id", booking.BookingID,
		"event_type", eventBookingConfirmed,
	)
	return nil
}

// logNotifier stands in when no brokers are configured. Confirmations are
// logged so the reconciliation workflow behaves the same either way.
type logNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) NotifyBookingConfirmed(_ context.Context, booking *model.Booking, user *model.User) error {
	recipient := booking.Email
	if user != nil && user.Email != "" {
		recipient = user.Email
	}
	n.log.Info("Booking confirmed",
		"booking_id", booking.BookingID,
		"email", recipient,
		"hotel_id", booking.HotelID,
		"check_in_date", booking.CheckInDate,
		"check_out_date", booking.CheckOutDate,
	)
	return nil
}
