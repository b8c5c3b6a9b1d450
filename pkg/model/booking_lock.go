package model

import "time"

// BookingLock is an advisory lock over a room/date slot, held for the
// duration of an availability check plus insert. The _id encodes the slot
// coordinates; a duplicate-key error on insert means another request is
// booking the same slot right now.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
