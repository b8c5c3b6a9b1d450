package model

// Catalog entities are read-only collaborators here: the booking and payment
// workflows resolve them by id but never mutate them. Their CRUD lives in a
// separate admin surface.

type User struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type Hotel struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string `json:"name" bson:"name"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

type Room struct {
	ID       string  `json:"id,omitempty" bson:"_id,omitempty"`
	RoomType string  `json:"room_type" bson:"room_type"`
	Price    float64 `json:"price" bson:"price"`
	HotelID  string  `json:"hotel_id" bson:"hotel_id"`
}
