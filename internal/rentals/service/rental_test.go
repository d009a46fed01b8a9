package service

import (
	"context"
	"testing"
	"time"

	rentalserrors "renthub/internal/rentals/errors"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

const (
	testVehicleID = "65a000000000000000000001"
	testUserID    = "65a000000000000000000002"
	testRentalID  = "65a000000000000000000004"
)

type mockRentalRepository struct {
	createFunc       func(ctx context.Context, record *model.RentalRecord) error
	findByIDFunc     func(ctx context.Context, id string) (*model.RentalRecord, error)
	updateStatusFunc func(ctx context.Context, id string, status string) error
}

func (m *mockRentalRepository) Create(ctx context.Context, record *model.RentalRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	record.ID = testRentalID
	return nil
}

func (m *mockRentalRepository) FindByID(ctx context.Context, id string) (*model.RentalRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, rentalserrors.ErrNotFound
}

func (m *mockRentalRepository) FindByUser(ctx context.Context, userID string) ([]*model.RentalRecord, error) {
	return nil, nil
}

func (m *mockRentalRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]*model.RentalRecord, error) {
	return nil, nil
}

func (m *mockRentalRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockUserResolver struct{}

func (m *mockUserResolver) Resolve(ctx context.Context, userRef string) (*model.Contact, error) {
	return &model.Contact{UserID: testUserID, Name: "Test User", Email: "test@example.com"}, nil
}

type mockVehicleStore struct {
	availability map[string]bool
}

func (m *mockVehicleStore) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	return &model.Vehicle{ID: id, Make: "Toyota", Model: "Corolla", PricePerDay: 50}, nil
}

func (m *mockVehicleStore) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.availability == nil {
		m.availability = make(map[string]bool)
	}
	m.availability[id] = available
	return nil
}

func newTestService(repo *mockRentalRepository, vehicles *mockVehicleStore) RentalService {
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
	return NewRentalService(repo, &mockUserResolver{}, vehicles, cfg)
}

func ts(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestCreate_PricingWholeDays(t *testing.T) {
	var stored *model.RentalRecord
	repo := &mockRentalRepository{
		createFunc: func(ctx context.Context, record *model.RentalRecord) error {
			stored = record
			return nil
		},
	}
	svc := newTestService(repo, &mockVehicleStore{})

	record := &model.RentalRecord{
		UserID:      testUserID,
		VehicleID:   testVehicleID,
		RentalStart: ts(1, 0),
		RentalEnd:   ts(4, 0),
	}
	if err := svc.Create(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.DurationDays != 3 {
		t.Errorf("expected 3 days, got %d", stored.DurationDays)
	}
	if stored.TotalPrice != 150 {
		t.Errorf("expected total price 150, got %v", stored.TotalPrice)
	}
	if stored.Status != model.RentalStatusOngoing {
		t.Errorf("expected status %s, got %s", model.RentalStatusOngoing, stored.Status)
	}
}

func TestCreate_PartialDayBillsFullDay(t *testing.T) {
	var stored *model.RentalRecord
	repo := &mockRentalRepository{
		createFunc: func(ctx context.Context, record *model.RentalRecord) error {
			stored = record
			return nil
		},
	}
	svc := newTestService(repo, &mockVehicleStore{})

	record := &model.RentalRecord{
		UserID:      testUserID,
		VehicleID:   testVehicleID,
		RentalStart: ts(1, 9),
		RentalEnd:   ts(1, 17),
	}
	if err := svc.Create(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.DurationDays != 1 {
		t.Errorf("expected minimum 1 day, got %d", stored.DurationDays)
	}
	if stored.TotalPrice != 50 {
		t.Errorf("expected total price 50, got %v", stored.TotalPrice)
	}
}

func TestCreate_InvalidRange(t *testing.T) {
	svc := newTestService(&mockRentalRepository{}, &mockVehicleStore{})

	record := &model.RentalRecord{
		UserID:      testUserID,
		VehicleID:   testVehicleID,
		RentalStart: ts(4, 0),
		RentalEnd:   ts(1, 0),
	}

	err := svc.Create(context.Background(), record)
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestComplete_Success(t *testing.T) {
	vehicles := &mockVehicleStore{}
	repo := &mockRentalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RentalRecord, error) {
			return &model.RentalRecord{
				ID:        id,
				VehicleID: testVehicleID,
				UserID:    testUserID,
				Status:    model.RentalStatusOngoing,
			}, nil
		},
	}
	svc := newTestService(repo, vehicles)

	record, err := svc.Complete(context.Background(), testRentalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Status != model.RentalStatusCompleted {
		t.Errorf("expected status %s, got %s", model.RentalStatusCompleted, record.Status)
	}
	if !vehicles.availability[testVehicleID] {
		t.Error("vehicle should be available again after rental completion")
	}
}

func TestComplete_AlreadyCompletedConflict(t *testing.T) {
	repo := &mockRentalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RentalRecord, error) {
			return &model.RentalRecord{ID: id, Status: model.RentalStatusCompleted}, nil
		},
	}
	svc := newTestService(repo, &mockVehicleStore{})

	_, err := svc.Complete(context.Background(), testRentalID)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestComplete_NotFound(t *testing.T) {
	svc := newTestService(&mockRentalRepository{}, &mockVehicleStore{})

	_, err := svc.Complete(context.Background(), testRentalID)
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}
