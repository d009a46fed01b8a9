package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	vehicleserrors "renthub/internal/vehicles/errors"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

const testVehicleID = "65a000000000000000000001"

type mockVehicleRepository struct {
	createFunc          func(ctx context.Context, vehicle *model.Vehicle) error
	findFunc            func(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error)
	countByFilterFunc   func(ctx context.Context, filter *model.VehicleFilter) (int64, error)
	updateFunc          func(ctx context.Context, id string, updates bson.M) error
	setAvailabilityFunc func(ctx context.Context, id string, available bool) error
}

func (m *mockVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, vehicle)
	}
	vehicle.ID = testVehicleID
	return nil
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	return nil, vehicleserrors.ErrNotFound
}

func (m *mockVehicleRepository) Find(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Vehicle{}, nil
}

func (m *mockVehicleRepository) CountByFilter(ctx context.Context, filter *model.VehicleFilter) (int64, error) {
	if m.countByFilterFunc != nil {
		return m.countByFilterFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockVehicleRepository) Update(ctx context.Context, id string, updates bson.M) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockVehicleRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.setAvailabilityFunc != nil {
		return m.setAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func (m *mockVehicleRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func newTestService(repo *mockVehicleRepository) VehicleService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewVehicleService(repo, cfg)
}

func validVehicle() *model.Vehicle {
	return &model.Vehicle{
		Make:        "  Toyota ",
		Model:       "Corolla   Hybrid",
		Year:        2024,
		PricePerDay: 50,
		Location:    "New Delhi",
		Description: "Compact sedan, well maintained.",
	}
}

func TestCreate_SanitizesAndStartsAvailable(t *testing.T) {
	var stored *model.Vehicle
	repo := &mockVehicleRepository{
		createFunc: func(ctx context.Context, vehicle *model.Vehicle) error {
			stored = vehicle
			return nil
		},
	}
	svc := newTestService(repo)

	vehicle := validVehicle()
	vehicle.Availability = false // listings cannot opt out of the fleet on create
	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stored.Availability {
		t.Error("new listings must start available")
	}
	if stored.Make != "Toyota" {
		t.Errorf("expected trimmed make, got %q", stored.Make)
	}
	if stored.Model != "Corolla Hybrid" {
		t.Errorf("expected normalized model, got %q", stored.Model)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	vehicle := validVehicle()
	vehicle.PricePerDay = 0

	err := svc.Create(context.Background(), vehicle)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestSearch_MinAboveMaxRejected(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	minPrice, maxPrice := 100.0, 50.0
	_, _, err := svc.Search(context.Background(), &model.VehicleFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, 10, 0)
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestSearch_NormalizesFilterAndReturnsCount(t *testing.T) {
	var seenFilter *model.VehicleFilter
	repo := &mockVehicleRepository{
		findFunc: func(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error) {
			seenFilter = filter
			return []*model.Vehicle{{ID: testVehicleID, Make: "Toyota", Model: "Corolla"}}, nil
		},
		countByFilterFunc: func(ctx context.Context, filter *model.VehicleFilter) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	vehicles, count, err := svc.Search(context.Background(), &model.VehicleFilter{
		Model:    "  Corolla  ",
		Location: " New   Delhi ",
	}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vehicles) != 1 || count != 7 {
		t.Errorf("expected 1 vehicle and count 7, got %d and %d", len(vehicles), count)
	}
	if seenFilter.Model != "Corolla" {
		t.Errorf("expected trimmed model filter, got %q", seenFilter.Model)
	}
	if seenFilter.Location != "New Delhi" {
		t.Errorf("expected normalized location filter, got %q", seenFilter.Location)
	}
}

func TestSetAvailability_DelegatesToRepository(t *testing.T) {
	var capturedID string
	var capturedValue bool
	repo := &mockVehicleRepository{
		setAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			capturedID = id
			capturedValue = available
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.SetAvailability(context.Background(), testVehicleID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedID != testVehicleID || capturedValue {
		t.Errorf("expected %s set to unavailable, got %s=%v", testVehicleID, capturedID, capturedValue)
	}
}

func TestSetAvailability_UnknownVehicle(t *testing.T) {
	repo := &mockVehicleRepository{
		setAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			return vehicleserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.SetAvailability(context.Background(), testVehicleID, true)
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestUpdate_NoFieldsRejected(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	err := svc.Update(context.Background(), testVehicleID, &model.VehicleUpdate{})
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}
