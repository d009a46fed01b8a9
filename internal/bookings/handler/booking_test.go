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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

type mockBookingService struct {
	createFunc       func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	rescheduleFunc   func(ctx context.Context, id string, req *model.BookingReschedule) (*model.Booking, error)
	cancelFunc       func(ctx context.Context, id string) (*model.Booking, error)
	getByIDFunc      func(ctx context.Context, id string) (*model.Booking, error)
	getByUserFunc    func(ctx context.Context, userRef string) ([]*model.BookingView, error)
	getByVehicleFunc func(ctx context.Context, vehicleID string) ([]*model.BookingView, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) Reschedule(ctx context.Context, id string, req *model.BookingReschedule) (*model.Booking, error) {
	if m.rescheduleFunc != nil {
		return m.rescheduleFunc(ctx, id, req)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByUser(ctx context.Context, userRef string) ([]*model.BookingView, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userRef)
	}
	return []*model.BookingView{}, nil
}

func (m *mockBookingService) GetByVehicle(ctx context.Context, vehicleID string) ([]*model.BookingView, error) {
	if m.getByVehicleFunc != nil {
		return m.getByVehicleFunc(ctx, vehicleID)
	}
	return []*model.BookingView{}, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:        "65a000000000000000000003",
		VehicleID: "65a000000000000000000001",
		UserID:    "65a000000000000000000002",
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusConfirmed,
	}
}

func TestCreateHandler_Success(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return testBooking(), nil
		},
	}
	router := newTestRouter(svc)

	body, err := json.Marshal(model.BookingRequest{
		UserRef:   "65a000000000000000000002",
		VehicleID: "65a000000000000000000001",
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "65a000000000000000000003", resp.Data.ID)
	assert.Equal(t, model.BookingStatusConfirmed, resp.Data.Status)
}

func TestCreateHandler_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandler_Conflict(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.Conflict("Vehicle is already booked from 2026-03-01 to 2026-03-05")
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.BookingRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "already booked")
}

func TestGetByIDHandler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/65a000000000000000000003", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelHandler_Success(t *testing.T) {
	var cancelledID string
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			cancelledID = id
			b := testBooking()
			b.Status = model.BookingStatusCancelled
			return b, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/65a000000000000000000003/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "65a000000000000000000003", cancelledID)

	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.BookingStatusCancelled, resp.Data.Status)
}

func TestRescheduleHandler_InvalidInput(t *testing.T) {
	svc := &mockBookingService{
		rescheduleFunc: func(ctx context.Context, id string, req *model.BookingReschedule) (*model.Booking, error) {
			return nil, apperrors.InvalidInput("end_date must be after start_date")
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.BookingReschedule{})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/65a000000000000000000003", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByUserHandler_EmptyList(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/user/65a000000000000000000002", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []model.BookingView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}
