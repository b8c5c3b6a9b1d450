package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "stayd/internal/bookings/errors"
	"stayd/internal/bookings/repository"
	"stayd/internal/bookings/validator"
	catalogrepo "stayd/internal/catalog/repository"
	"stayd/pkg/config"
	apperrors "stayd/pkg/errors"
	"stayd/pkg/model"
	"stayd/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingDetail, int64, error)
	CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (bool, error)
	TransferDraft(ctx context.Context, transfer *model.DraftTransfer) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   catalogrepo.CatalogRepository
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	catalog catalogrepo.CatalogRepository,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: validator,
		cfg:       cfg,
	}
}

// Create runs the booking creation workflow. Checks happen in a fixed
// order so that callers get the most specific error first: amount, rooms,
// user resolution, hotel resolution, availability, then room types.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if req.TotalAmount <= 0 {
		return nil, apperrors.InvalidInput("Total amount must be greater than zero")
	}
	if len(req.Rooms) == 0 {
		return nil, apperrors.InvalidInput("At least one room selection is required")
	}

	booking := s.buildBooking(req)
	s.sanitize(booking)

	if err := s.resolveUser(ctx, req.UserID, booking); err != nil {
		return nil, err
	}

	if _, err := s.resolveHotel(ctx, booking.HotelID); err != nil {
		return nil, err
	}

	available, err := s.roomsAvailable(ctx, booking.RoomTypeIDs(), booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.Conflict("Requested rooms are not available for the selected dates")
	}

	if err := s.resolveRooms(ctx, booking.Rooms); err != nil {
		return nil, err
	}

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	lockIDs, err := s.acquireRoomLocks(ctx, booking.RoomTypeIDs(), booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, lockID := range lockIDs {
			if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The lock narrows the race window but a conflicting booking may
		// still have committed between the first check and lock acquisition.
		available, err := s.roomsAvailable(sessCtx, booking.RoomTypeIDs(), booking.CheckInDate, booking.CheckOutDate)
		if err != nil {
			return err
		}
		if !available {
			return apperrors.Conflict("Requested rooms are not available for the selected dates")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "booking_id", booking.BookingID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.BookingID,
		"hotel_id", booking.HotelID,
		"status", booking.Status,
		"check_in_date", booking.CheckInDate,
		"check_out_date", booking.CheckOutDate,
	)
	return booking, nil
}

func (s *bookingService) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count user bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return s.enrich(ctx, bookings), count, nil
}

// enrich resolves each booking's hotel and room documents from the
// catalog. A document that no longer resolves leaves a nil detail; the
// listing itself never fails over catalog state. Lookups are cached per
// call since a page of bookings tends to repeat hotels and room types.
func (s *bookingService) enrich(ctx context.Context, bookings []*model.Booking) []*model.BookingDetail {
	hotels := make(map[string]*model.Hotel)
	rooms := make(map[string]*model.Room)

	details := make([]*model.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		detail := &model.BookingDetail{Booking: b}

		hotel, seen := hotels[b.HotelID]
		if !seen {
			var err error
			hotel, err = s.catalog.FindHotelByID(ctx, b.HotelID)
			if err != nil {
				if !errors.Is(err, catalogrepo.ErrNotFound) && !errors.Is(err, catalogrepo.ErrInvalidID) {
					s.cfg.Log.Warn("Failed to resolve hotel for listing", "hotel_id", b.HotelID, "error", err)
				}
				hotel = nil
			}
			hotels[b.HotelID] = hotel
		}
		detail.Hotel = hotel

		detail.Rooms = make([]model.RoomSelectionDetail, 0, len(b.Rooms))
		for _, sel := range b.Rooms {
			room, seen := rooms[sel.RoomTypeID]
			if !seen {
				var err error
				room, err = s.catalog.FindRoomByID(ctx, sel.RoomTypeID)
				if err != nil {
					if !errors.Is(err, catalogrepo.ErrNotFound) && !errors.Is(err, catalogrepo.ErrInvalidID) {
						s.cfg.Log.Warn("Failed to resolve room for listing", "room_id", sel.RoomTypeID, "error", err)
					}
					room = nil
				}
				rooms[sel.RoomTypeID] = room
			}
			detail.Rooms = append(detail.Rooms, model.RoomSelectionDetail{RoomSelection: sel, Room: room})
		}

		details = append(details, detail)
	}
	return details
}

func (s *bookingService) CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (bool, error) {
	if len(req.Rooms) == 0 {
		return false, apperrors.InvalidInput("At least one room selection is required")
	}
	if !req.CheckOutDate.After(req.CheckInDate) {
		return false, apperrors.InvalidInput("Check-out date must be after check-in date")
	}

	ids := make([]string, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		ids = append(ids, r.RoomTypeID)
	}

	return s.roomsAvailable(ctx, ids, req.CheckInDate, req.CheckOutDate)
}

// TransferDraft attaches a user to a draft booking and promotes it to
// pending. Only drafts are transferable.
func (s *bookingService) TransferDraft(ctx context.Context, transfer *model.DraftTransfer) (*model.Booking, error) {
	if transfer.BookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if transfer.UserID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	booking, err := s.repo.FindByBookingID(ctx, transfer.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", transfer.BookingID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	if booking.Status != model.StatusDraft {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking %s is not a draft", transfer.BookingID))
	}

	user, err := s.catalog.FindUserByID(ctx, transfer.UserID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", transfer.UserID)
		}
		if errors.Is(err, catalogrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	if err := s.repo.AttachUser(ctx, transfer.BookingID, user.ID, model.StatusPending); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", transfer.BookingID)
		}
		return nil, apperrors.Internal("Failed to transfer booking", err)
	}

	booking.UserID = user.ID
	booking.Status = model.StatusPending

	s.cfg.Log.Info("Draft booking transferred", "booking_id", booking.BookingID, "user_id", user.ID)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) buildBooking(req *model.BookingRequest) *model.Booking {
	return &model.Booking{
		BookingID:     generateBookingID(),
		HotelID:       req.HotelID,
		Rooms:         req.Rooms,
		GuestName:     req.GuestName,
		Phone:         req.Phone,
		Address:       req.Address,
		Email:         req.Email,
		Amount:        req.TotalAmount,
		Status:        model.StatusPending,
		TransactionID: uuid.NewString(),
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		Guests:        req.Guests,
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.GuestName = sanitizer.NormalizeName(b.GuestName)
	b.Phone = sanitizer.NormalizePhone(b.Phone)
	b.Address = sanitizer.NormalizeAddress(b.Address)
	b.Email = sanitizer.NormalizeEmail(b.Email)
}

// resolveUser decides whether the booking is owned or a draft. A missing
// user ID only produces a draft when draft bookings are enabled.
func (s *bookingService) resolveUser(ctx context.Context, userID string, booking *model.Booking) error {
	if userID == "" {
		if !s.cfg.AllowDraftBookings {
			return apperrors.InvalidInput("User ID is required for booking")
		}
		booking.Status = model.StatusDraft
		return nil
	}

	user, err := s.catalog.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, catalogrepo.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		return apperrors.Internal("Failed to retrieve user", err)
	}

	booking.UserID = user.ID
	if booking.GuestName == "" {
		booking.GuestName = sanitizer.NormalizeName(user.Name)
	}
	if booking.Email == "" {
		booking.Email = sanitizer.NormalizeEmail(user.Email)
	}
	if booking.Phone == "" {
		booking.Phone = sanitizer.NormalizePhone(user.Phone)
	}
	return nil
}

func (s *bookingService) resolveHotel(ctx context.Context, hotelID string) (*model.Hotel, error) {
	hotel, err := s.catalog.FindHotelByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hotel", hotelID)
		}
		if errors.Is(err, catalogrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid hotel ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve hotel", err)
	}
	return hotel, nil
}

func (s *bookingService) resolveRooms(ctx context.Context, rooms []model.RoomSelection) error {
	for _, r := range rooms {
		if _, err := s.catalog.FindRoomByID(ctx, r.RoomTypeID); err != nil {
			if errors.Is(err, catalogrepo.ErrNotFound) {
				return apperrors.NotFoundWithID("Room", r.RoomTypeID)
			}
			if errors.Is(err, catalogrepo.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid room ID format")
			}
			return apperrors.Internal("Failed to retrieve room", err)
		}
	}
	return nil
}

// roomsAvailable reports whether none of the room types has a non-cancelled
// booking overlapping [checkIn, checkOut).
func (s *bookingService) roomsAvailable(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) (bool, error) {
	conflicting, err := s.repo.FindConflicting(ctx, roomTypeIDs, checkIn, checkOut)
	if err != nil {
		return false, apperrors.Internal("Failed to check room availability", err)
	}

	for _, b := range conflicting {
		if overlaps(b.CheckInDate, b.CheckOutDate, checkIn, checkOut) {
			return false, nil
		}
	}
	return true, nil
}

// overlaps implements half-open interval intersection: a stay ending
// exactly when another begins does not overlap it.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireRoomLocks takes one advisory lock per room type per stay night,
// in sorted order so concurrent requests over overlapping sets cannot
// deadlock. Stays sharing any night contend on that night's lock whatever
// their check-in dates. On failure any locks already taken are released
// before returning.
func (s *bookingService) acquireRoomLocks(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]string, error) {
	lockIDs := roomLockIDs(roomTypeIDs, checkIn, checkOut)

	acquired := make([]string, 0, len(lockIDs))
	for _, lockID := range lockIDs {
		err := s.lockRepo.Acquire(ctx, lockID, s.cfg.BookingLockTTL)
		if err != nil {
			for _, held := range acquired {
				if releaseErr := s.lockRepo.Release(ctx, held); releaseErr != nil {
					s.cfg.Log.Warn("Failed to release booking lock", "lock_id", held, "error", releaseErr)
				}
			}
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.Conflict("These rooms are currently being booked by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		acquired = append(acquired, lockID)
	}

	return acquired, nil
}

// roomLockIDs enumerates one lock id per room type per night of the
// half-open stay [checkIn, checkOut), deduplicated and sorted.
func roomLockIDs(roomTypeIDs []string, checkIn, checkOut time.Time) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(roomTypeIDs))
	for _, roomID := range roomTypeIDs {
		for d := checkIn.UTC().Truncate(24 * time.Hour); d.Before(checkOut); d = d.Add(24 * time.Hour) {
			id := fmt.Sprintf("room_lock_%s_%s", roomID, d.Format("20060102"))
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// generateBookingID builds a human-readable reference like BK-20250601-482913.
func generateBookingID() string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Sprintf("BK-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:6])
	}
	return fmt.Sprintf("BK-%s-%06d", time.Now().UTC().Format("20060102"), suffix.Int64())
}
