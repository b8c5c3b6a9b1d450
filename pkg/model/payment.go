package model

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment is an append/update-only audit record of a payment attempt. It is
// linked to a booking by the human-readable booking id, not the internal key,
// and correlated back from the gateway by PaymentReference (the gateway's
// tx_ref).
type Payment struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	BookingID        string    `json:"booking_id" bson:"booking_id"`
	Amount           float64   `json:"amount" bson:"amount"`
	PaymentStatus    string    `json:"payment_status" bson:"payment_status"`
	PaymentReference string    `json:"payment_reference" bson:"payment_reference"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// PaymentReferenceFor derives the gateway transaction reference for a booking.
// The derivation is deterministic so a gateway callback carrying tx_ref can be
// matched back to the local Payment record.
func PaymentReferenceFor(bookingID string) string {
	return "booking-" + bookingID
}

// PaymentInitiation is the typed payload for starting a gateway payment.
type PaymentInitiation struct {
	BookingID    string          `json:"booking_id" validate:"required"`
	UserID       string          `json:"user_id" validate:"required,mongodb"`
	HotelID      string          `json:"hotel_id" validate:"required"`
	Amount       float64         `json:"amount" validate:"required,gt=0"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	GuestName    string          `json:"guest_name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Guests       int             `json:"guests" validate:"required,min=1"`
	CheckInDate  time.Time       `json:"check_in_date" validate:"required"`
	CheckOutDate time.Time       `json:"check_out_date" validate:"required,gtfield=CheckInDate"`
	Rooms        []RoomSelection `json:"rooms" validate:"required,min=1,dive"`
}

// PaymentVerification is the reconciliation payload: the transaction id the
// client carried back from the gateway redirect, the original tx_ref, and the
// user the completed booking belongs to.
type PaymentVerification struct {
	TransactionID string `json:"transaction_id"`
	TxRef         string `json:"tx_ref"`
	UserID        string `json:"user_id"`
}
