package model

import (
	"time"
)

// Booking status state machine: draft -> pending -> completed, with
// pending -> cancelled as a documented transition. Completed is terminal
// and payment reconciliation is the only path into it.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// RoomSelection is one line of a booking: a room type and how many of it.
type RoomSelection struct {
	RoomTypeID    string `json:"room_type_id" bson:"room_type_id" validate:"required,mongodb"`
	NumberOfRooms int    `json:"number_of_rooms" bson:"number_of_rooms" validate:"omitempty,min=1"`
}

type Booking struct {
	ID            string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID     string          `json:"booking_id" bson:"booking_id" validate:"required"`
	UserID        string          `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty,mongodb"`
	HotelID       string          `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Rooms         []RoomSelection `json:"rooms" bson:"rooms" validate:"required,min=1,dive"`
	GuestName     string          `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	Phone         string          `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Address       string          `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=200"`
	Email         string          `json:"email" bson:"email" validate:"required,email"`
	Amount        float64         `json:"amount" bson:"amount" validate:"required,gt=0"`
	Status        string          `json:"status" bson:"status" validate:"required,oneof=draft pending completed cancelled"`
	TransactionID string          `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	CheckInDate   time.Time       `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate  time.Time       `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	Guests        int             `json:"guests" bson:"guests" validate:"required,min=1"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingRequest is the typed creation payload. Rooms must arrive as a JSON
// array; string-encoded lists are rejected at decode time rather than
// branched on.
type BookingRequest struct {
	UserID       string          `json:"user_id"`
	HotelID      string          `json:"hotel_id"`
	Rooms        []RoomSelection `json:"rooms"`
	GuestName    string          `json:"guest_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Email        string          `json:"email"`
	TotalAmount  float64         `json:"total_amount"`
	CheckInDate  time.Time       `json:"check_in_date"`
	CheckOutDate time.Time       `json:"check_out_date"`
	Guests       int             `json:"guests"`
}

// AvailabilityRequest asks whether every listed room type is free for the
// half-open interval [check_in_date, check_out_date).
type AvailabilityRequest struct {
	Rooms        []RoomSelection `json:"rooms"`
	CheckInDate  time.Time       `json:"check_in_date"`
	CheckOutDate time.Time       `json:"check_out_date"`
}

// DraftTransfer attaches a user to a draft booking, moving it to pending.
type DraftTransfer struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
}

// RoomSelectionDetail pairs a booking line with its catalog room. Room is
// nil when the catalog document no longer resolves.
type RoomSelectionDetail struct {
	RoomSelection
	Room *Room `json:"room,omitempty"`
}

// BookingDetail is the listing shape: the stored booking with its hotel
// and room documents resolved from the catalog.
type BookingDetail struct {
	*Booking
	Hotel *Hotel                `json:"hotel,omitempty"`
	Rooms []RoomSelectionDetail `json:"rooms"`
}

func (b *Booking) RoomTypeIDs() []string {
	ids := make([]string, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		ids = append(ids, r.RoomTypeID)
	}
	return ids
}
