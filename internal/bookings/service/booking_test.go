package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	catalogrepo "stayd/internal/catalog/repository"
	"stayd/internal/bookings/validator"
	"stayd/pkg/config"
	apperrors "stayd/pkg/errors"
	"stayd/pkg/logger"
	"stayd/pkg/model"

	mongotx "stayd/pkg/db/mongo"
)

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByBookingIDFunc func(ctx context.Context, bookingID string) (*model.Booking, error)
	findConflictingFunc func(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	findByUserFunc      func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error)
	countByUserFunc     func(ctx context.Context, userID string) (int64, error)
	attachUserFunc      func(ctx context.Context, bookingID, userID, status string) error
	reconcileFunc       func(ctx context.Context, booking *model.Booking) (bool, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	if m.findByBookingIDFunc != nil {
		return m.findByBookingIDFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.countByUserFunc != nil {
		return m.countByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindConflicting(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if m.findConflictingFunc != nil {
		return m.findConflictingFunc(ctx, roomTypeIDs, checkIn, checkOut)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) AttachUser(ctx context.Context, bookingID, userID, status string) error {
	if m.attachUserFunc != nil {
		return m.attachUserFunc(ctx, bookingID, userID, status)
	}
	return nil
}

func (m *mockBookingRepository) Reconcile(ctx context.Context, booking *model.Booking) (bool, error) {
	if m.reconcileFunc != nil {
		return m.reconcileFunc(ctx, booking)
	}
	return true, nil
}

func (m *mockBookingRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBookingLockRepository struct {
	acquireFunc func(ctx context.Context, lockID string, ttl time.Duration) error
	releaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, lockID, ttl)
	}
	return nil
}

func (m *mockBookingLockRepository) Release(ctx context.Context, lockID string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, lockID)
	}
	return nil
}

func (m *mockBookingLockRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockCatalogRepository struct {
	findUserFunc  func(ctx context.Context, id string) (*model.User, error)
	findHotelFunc func(ctx context.Context, id string) (*model.Hotel, error)
	findRoomFunc  func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockCatalogRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	if m.findUserFunc != nil {
		return m.findUserFunc(ctx, id)
	}
	return &model.User{ID: id, Name: "Ada Obi", Email: "ada@example.com"}, nil
}

func (m *mockCatalogRepository) FindHotelByID(ctx context.Context, id string) (*model.Hotel, error) {
	if m.findHotelFunc != nil {
		return m.findHotelFunc(ctx, id)
	}
	return &model.Hotel{ID: id, Name: "Eko Suites", City: "Lagos"}, nil
}

func (m *mockCatalogRepository) FindRoomByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findRoomFunc != nil {
		return m.findRoomFunc(ctx, id)
	}
	return &model.Room{ID: id, RoomType: "deluxe", Price: 45000}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:            log,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		BookingLockTTL: 10 * time.Second,
	}
}

func newTestService(cfg *config.Config, repo *mockBookingRepository, lockRepo *mockBookingLockRepository, catalog *mockCatalogRepository) *bookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		UserID:       "507f1f77bcf86cd799439011",
		HotelID:      "507f1f77bcf86cd799439012",
		Rooms:        []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013", NumberOfRooms: 1}},
		GuestName:    "Ada Obi",
		Email:        "ada@example.com",
		TotalAmount:  45000,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Guests:       2,
	}
}

func TestCreate_Success(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	booking, err := service.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if booking.BookingID == "" {
		t.Error("expected booking reference to be generated")
	}
	if booking.TransactionID == "" {
		t.Error("expected placeholder transaction ID to be set")
	}
}

func TestCreate_OverlappingDatesRejected(t *testing.T) {
	existing := &model.Booking{
		BookingID:    "BK-20250520-000001",
		Status:       model.StatusPending,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	repo := &mockBookingRepository{
		findConflictingFunc: func(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			if overlaps(existing.CheckInDate, existing.CheckOutDate, checkIn, checkOut) {
				return []*model.Booking{existing}, nil
			}
			return []*model.Booking{}, nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.CheckInDate = time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	req.CheckOutDate = time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)

	_, err := service.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestCreate_TouchingDatesAccepted(t *testing.T) {
	existing := &model.Booking{
		BookingID:    "BK-20250520-000001",
		Status:       model.StatusPending,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	repo := &mockBookingRepository{
		findConflictingFunc: func(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			if overlaps(existing.CheckInDate, existing.CheckOutDate, checkIn, checkOut) {
				return []*model.Booking{existing}, nil
			}
			return []*model.Booking{}, nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.CheckInDate = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	req.CheckOutDate = time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	if _, err := service.Create(context.Background(), req); err != nil {
		t.Fatalf("back-to-back stay should be accepted, got: %v", err)
	}
}

func TestCreate_InvalidAmount(t *testing.T) {
	service := newTestService(testConfig(t), &mockBookingRepository{}, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.TotalAmount = 0

	_, err := service.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input code, got %s", appErr.Code)
	}
}

func TestCreate_NoRooms(t *testing.T) {
	service := newTestService(testConfig(t), &mockBookingRepository{}, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.Rooms = nil

	_, err := service.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for empty room selection")
	}
}

func TestCreate_MissingUserRejectedWhenDraftsDisabled(t *testing.T) {
	service := newTestService(testConfig(t), &mockBookingRepository{}, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.UserID = ""

	_, err := service.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error when user is missing and drafts are disabled")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input code, got %s", appErr.Code)
	}
}

func TestCreate_MissingUserProducesDraftWhenEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.AllowDraftBookings = true
	service := newTestService(cfg, &mockBookingRepository{}, &mockBookingLockRepository{}, &mockCatalogRepository{})

	req := validRequest()
	req.UserID = ""

	booking, err := service.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusDraft {
		t.Errorf("expected draft status, got %s", booking.Status)
	}
	if booking.UserID != "" {
		t.Errorf("draft booking should have no user, got %s", booking.UserID)
	}
}

func TestCreate_UnknownHotel(t *testing.T) {
	catalog := &mockCatalogRepository{
		findHotelFunc: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, catalogrepo.ErrNotFound
		},
	}
	service := newTestService(testConfig(t), &mockBookingRepository{}, &mockBookingLockRepository{}, catalog)

	_, err := service.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error for unknown hotel")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found code, got %s", appErr.Code)
	}
}

func TestCreate_LockContention(t *testing.T) {
	lockRepo := &mockBookingLockRepository{
		acquireFunc: func(ctx context.Context, lockID string, ttl time.Duration) error {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	service := newTestService(testConfig(t), &mockBookingRepository{}, lockRepo, &mockCatalogRepository{})

	_, err := service.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected conflict when lock is already held")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestCreate_ReleasesLocksAfterCommit(t *testing.T) {
	var acquired, released []string
	lockRepo := &mockBookingLockRepository{
		acquireFunc: func(ctx context.Context, lockID string, ttl time.Duration) error {
			acquired = append(acquired, lockID)
			return nil
		},
		releaseFunc: func(ctx context.Context, lockID string) error {
			released = append(released, lockID)
			return nil
		},
	}
	service := newTestService(testConfig(t), &mockBookingRepository{}, lockRepo, &mockCatalogRepository{})

	if _, err := service.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One lock per night of the four-night stay.
	if len(acquired) != 4 || len(released) != 4 {
		t.Fatalf("expected four locks acquired and released, got %d/%d", len(acquired), len(released))
	}
	for i, lockID := range acquired {
		if released[i] != lockID {
			t.Errorf("released lock %s does not match acquired lock %s", released[i], lockID)
		}
	}
}

func TestRoomLockIDs_OverlappingStaysContend(t *testing.T) {
	rooms := []string{"507f1f77bcf86cd799439013"}
	first := roomLockIDs(rooms,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	)
	second := roomLockIDs(rooms,
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
	)

	shared := make(map[string]bool, len(first))
	for _, id := range first {
		shared[id] = true
	}
	var contended bool
	for _, id := range second {
		if shared[id] {
			contended = true
		}
	}
	if !contended {
		t.Errorf("stays sharing a night must share a lock: %v vs %v", first, second)
	}

	third := roomLockIDs(rooms,
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	)
	for _, id := range third {
		if shared[id] {
			t.Errorf("back-to-back stays must not share locks: %v vs %v", first, third)
		}
	}
}

func TestCheckAvailability(t *testing.T) {
	existing := &model.Booking{
		Status:       model.StatusPending,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	repo := &mockBookingRepository{
		findConflictingFunc: func(ctx context.Context, roomTypeIDs []string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			if overlaps(existing.CheckInDate, existing.CheckOutDate, checkIn, checkOut) {
				return []*model.Booking{existing}, nil
			}
			return []*model.Booking{}, nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		available bool
	}{
		{
			name:      "overlapping interval",
			checkIn:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			checkOut:  time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
			available: false,
		},
		{
			name:      "contained interval",
			checkIn:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			checkOut:  time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			available: false,
		},
		{
			name:      "starts at existing checkout",
			checkIn:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
			checkOut:  time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
			available: true,
		},
		{
			name:      "ends at existing checkin",
			checkIn:   time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC),
			checkOut:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.CheckAvailability(context.Background(), &model.AvailabilityRequest{
				Rooms:        []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013"}},
				CheckInDate:  tt.checkIn,
				CheckOutDate: tt.checkOut,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.available {
				t.Errorf("expected available=%v, got %v", tt.available, got)
			}
		})
	}
}

func TestCheckAvailability_InvertedDates(t *testing.T) {
	service := newTestService(testConfig(t), &mockBookingRepository{}, &mockBookingLockRepository{}, &mockCatalogRepository{})

	_, err := service.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		Rooms:        []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013"}},
		CheckInDate:  time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error for zero-length interval")
	}
}

func TestTransferDraft_Success(t *testing.T) {
	draft := &model.Booking{
		BookingID: "BK-20250601-123456",
		Status:    model.StatusDraft,
	}
	var attachedUser, attachedStatus string
	repo := &mockBookingRepository{
		findByBookingIDFunc: func(ctx context.Context, bookingID string) (*model.Booking, error) {
			return draft, nil
		},
		attachUserFunc: func(ctx context.Context, bookingID, userID, status string) error {
			attachedUser = userID
			attachedStatus = status
			return nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	booking, err := service.TransferDraft(context.Background(), &model.DraftTransfer{
		BookingID: "BK-20250601-123456",
		UserID:    "507f1f77bcf86cd799439011",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected pending status, got %s", booking.Status)
	}
	if attachedUser != "507f1f77bcf86cd799439011" || attachedStatus != model.StatusPending {
		t.Errorf("unexpected attach call: user=%s status=%s", attachedUser, attachedStatus)
	}
}

func TestTransferDraft_NotADraft(t *testing.T) {
	repo := &mockBookingRepository{
		findByBookingIDFunc: func(ctx context.Context, bookingID string) (*model.Booking, error) {
			return &model.Booking{BookingID: bookingID, Status: model.StatusPending}, nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, &mockCatalogRepository{})

	_, err := service.TransferDraft(context.Background(), &model.DraftTransfer{
		BookingID: "BK-20250601-123456",
		UserID:    "507f1f77bcf86cd799439011",
	})
	if err == nil {
		t.Fatal("expected conflict for non-draft booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestListByUser_ResolvesHotelAndRooms(t *testing.T) {
	repo := &mockBookingRepository{
		countByUserFunc: func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		},
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{
				{
					BookingID: "BK-20250601-000002",
					HotelID:   "507f1f77bcf86cd799439012",
					Rooms:     []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013", NumberOfRooms: 1}},
				},
				{
					BookingID: "BK-20250601-000001",
					HotelID:   "507f1f77bcf86cd799439012",
					Rooms:     []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013", NumberOfRooms: 2}},
				},
			}, nil
		},
	}
	var hotelLookups, roomLookups int
	catalog := &mockCatalogRepository{
		findHotelFunc: func(ctx context.Context, id string) (*model.Hotel, error) {
			hotelLookups++
			return &model.Hotel{ID: id, Name: "Eko Suites", City: "Lagos"}, nil
		},
		findRoomFunc: func(ctx context.Context, id string) (*model.Room, error) {
			roomLookups++
			return &model.Room{ID: id, RoomType: "deluxe", Price: 45000}, nil
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, catalog)

	details, count, err := service.ListByUser(context.Background(), "507f1f77bcf86cd799439011", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(details) != 2 {
		t.Fatalf("expected 2 bookings, got count=%d len=%d", count, len(details))
	}
	for _, d := range details {
		if d.Hotel == nil || d.Hotel.Name != "Eko Suites" {
			t.Errorf("booking %s missing resolved hotel: %+v", d.BookingID, d.Hotel)
		}
		if len(d.Rooms) != 1 || d.Rooms[0].Room == nil || d.Rooms[0].Room.RoomType != "deluxe" {
			t.Errorf("booking %s missing resolved room: %+v", d.BookingID, d.Rooms)
		}
	}
	if details[0].Rooms[0].NumberOfRooms != 1 {
		t.Errorf("expected room selection carried through, got %d", details[0].Rooms[0].NumberOfRooms)
	}
	// Repeated ids resolve from the per-call cache.
	if hotelLookups != 1 || roomLookups != 1 {
		t.Errorf("expected one lookup per distinct id, got hotels=%d rooms=%d", hotelLookups, roomLookups)
	}
}

func TestListByUser_MissingCatalogDocs(t *testing.T) {
	repo := &mockBookingRepository{
		countByUserFunc: func(ctx context.Context, userID string) (int64, error) {
			return 1, nil
		},
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{
				{
					BookingID: "BK-20250601-000001",
					HotelID:   "507f1f77bcf86cd799439012",
					Rooms:     []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013"}},
				},
			}, nil
		},
	}
	catalog := &mockCatalogRepository{
		findHotelFunc: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, catalogrepo.ErrNotFound
		},
		findRoomFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, catalogrepo.ErrNotFound
		},
	}
	service := newTestService(testConfig(t), repo, &mockBookingLockRepository{}, catalog)

	details, _, err := service.ListByUser(context.Background(), "507f1f77bcf86cd799439011", 10, 0)
	if err != nil {
		t.Fatalf("listing must not fail over catalog state: %v", err)
	}
	if details[0].Hotel != nil {
		t.Errorf("expected nil hotel for missing document, got %+v", details[0].Hotel)
	}
	if details[0].Rooms[0].Room != nil {
		t.Errorf("expected nil room for missing document, got %+v", details[0].Rooms[0].Room)
	}
}
