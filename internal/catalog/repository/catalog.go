package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"stayd/pkg/config"
	"stayd/pkg/model"
)

const (
	UserCollectionName  = "users"
	HotelCollectionName = "hotels"
	RoomCollectionName  = "rooms"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document ID format")
)

// CatalogRepository exposes read-only lookups against the catalog
// collections. Users, hotels and rooms are managed elsewhere; the booking
// workflows only ever resolve them by ID.
type CatalogRepository interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindHotelByID(ctx context.Context, id string) (*model.Hotel, error)
	FindRoomByID(ctx context.Context, id string) (*model.Room, error)
}

type mongoCatalogRepository struct {
	cfg    *config.Config
	users  *mongo.Collection
	hotels *mongo.Collection
	rooms  *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:    cfg,
		users:  db.Collection(UserCollectionName),
		hotels: db.Collection(HotelCollectionName),
		rooms:  db.Collection(RoomCollectionName),
	}
}

func (r *mongoCatalogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < r.cfg.ReadTimeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoCatalogRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.findByID(ctx, r.users, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoCatalogRepository) FindHotelByID(ctx context.Context, id string) (*model.Hotel, error) {
	var hotel model.Hotel
	if err := r.findByID(ctx, r.hotels, id, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *mongoCatalogRepository) FindRoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.findByID(ctx, r.rooms, id, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *mongoCatalogRepository) findByID(ctx context.Context, collection *mongo.Collection, id string, out any) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find document in %s: %w", collection.Name(), err)
	}
	return nil
}
