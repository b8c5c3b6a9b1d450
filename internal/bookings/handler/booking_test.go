package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "stayd/pkg/errors"
	"stayd/pkg/logger"
	"stayd/pkg/model"
)

type mockBookingService struct {
	createFunc            func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	getByBookingIDFunc    func(ctx context.Context, bookingID string) (*model.Booking, error)
	listByUserFunc        func(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingDetail, int64, error)
	checkAvailabilityFunc func(ctx context.Context, req *model.AvailabilityRequest) (bool, error)
	transferDraftFunc     func(ctx context.Context, transfer *model.DraftTransfer) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{BookingID: "BK-20250601-123456", Status: model.StatusPending}, nil
}

func (m *mockBookingService) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	if m.getByBookingIDFunc != nil {
		return m.getByBookingIDFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockBookingService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.BookingDetail{}, 0, nil
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (bool, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, req)
	}
	return true, nil
}

func (m *mockBookingService) TransferDraft(ctx context.Context, transfer *model.DraftTransfer) (*model.Booking, error) {
	if m.transferDraftFunc != nil {
		return m.transferDraftFunc(ctx, transfer)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
}

func newRouter(service *mockBookingService) *httprouter.Router {
	h := NewBookingHandler(service, testLogger())
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_ReturnsCreated(t *testing.T) {
	service := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return &model.Booking{
				BookingID: "BK-20250601-123456",
				HotelID:   req.HotelID,
				Status:    model.StatusPending,
			}, nil
		},
	}
	router := newRouter(service)

	body, _ := json.Marshal(model.BookingRequest{
		UserID:       "507f1f77bcf86cd799439011",
		HotelID:      "507f1f77bcf86cd799439012",
		Rooms:        []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013"}},
		GuestName:    "Ada Obi",
		Email:        "ada@example.com",
		TotalAmount:  45000,
		CheckInDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Guests:       2,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_StringEncodedRoomsRejected(t *testing.T) {
	router := newRouter(&mockBookingService{})

	// rooms must be a JSON array, not a string-encoded one
	body := []byte(`{"hotel_id":"507f1f77bcf86cd799439012","rooms":"[{\"room_type_id\":\"abc\"}]"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	service := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.Conflict("Requested rooms are not available for the selected dates")
		},
	}
	router := newRouter(service)

	body, _ := json.Marshal(model.BookingRequest{HotelID: "507f1f77bcf86cd799439012"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestListByUser_RequiresUserID(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListByUser_ReturnsBookingDetails(t *testing.T) {
	var receivedUser string
	service := &mockBookingService{
		listByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
			receivedUser = userID
			return []*model.BookingDetail{
				{
					Booking: &model.Booking{BookingID: "BK-20250601-000001", HotelID: "507f1f77bcf86cd799439012"},
					Hotel:   &model.Hotel{ID: "507f1f77bcf86cd799439012", Name: "Eko Suites"},
					Rooms: []model.RoomSelectionDetail{
						{
							RoomSelection: model.RoomSelection{RoomTypeID: "507f1f77bcf86cd799439013", NumberOfRooms: 1},
							Room:          &model.Room{ID: "507f1f77bcf86cd799439013", RoomType: "deluxe", Price: 45000},
						},
					},
				},
			}, 1, nil
		},
	}
	router := newRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?user_id=507f1f77bcf86cd799439011", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if receivedUser != "507f1f77bcf86cd799439011" {
		t.Errorf("service received user %q", receivedUser)
	}

	var resp struct {
		Data []struct {
			BookingID string `json:"booking_id"`
			Hotel     *struct {
				Name string `json:"name"`
			} `json:"hotel"`
			Rooms []struct {
				RoomTypeID string `json:"room_type_id"`
				Room       *struct {
					RoomType string `json:"room_type"`
				} `json:"room"`
			} `json:"rooms"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected one booking, got %d", len(resp.Data))
	}
	if resp.Data[0].Hotel == nil || resp.Data[0].Hotel.Name != "Eko Suites" {
		t.Errorf("expected hotel detail in response, got %+v", resp.Data[0].Hotel)
	}
	if len(resp.Data[0].Rooms) != 1 || resp.Data[0].Rooms[0].Room == nil || resp.Data[0].Rooms[0].Room.RoomType != "deluxe" {
		t.Errorf("expected room detail in response, got %+v", resp.Data[0].Rooms)
	}
}

func TestCheckAvailability(t *testing.T) {
	service := &mockBookingService{
		checkAvailabilityFunc: func(ctx context.Context, req *model.AvailabilityRequest) (bool, error) {
			return false, nil
		},
	}
	router := newRouter(service)

	body, _ := json.Marshal(model.AvailabilityRequest{
		Rooms:        []model.RoomSelection{{RoomTypeID: "507f1f77bcf86cd799439013"}},
		CheckInDate:  time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/check-availability", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			Available bool `json:"available"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Available {
		t.Error("expected available=false")
	}
}

func TestTransferDraft_NotFoundMapsTo404(t *testing.T) {
	service := &mockBookingService{
		transferDraftFunc: func(ctx context.Context, transfer *model.DraftTransfer) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", transfer.BookingID)
		},
	}
	router := newRouter(service)

	body, _ := json.Marshal(model.DraftTransfer{BookingID: "BK-20250601-999999", UserID: "507f1f77bcf86cd799439011"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/transfer-draft", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
