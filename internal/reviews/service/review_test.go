package service

import (
	"context"
	"testing"
	"time"

	reviewserrors "renthub/internal/reviews/errors"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

const (
	testVehicleID = "65a000000000000000000001"
	testUserID    = "65a000000000000000000002"
	testReviewID  = "65a000000000000000000005"
)

type mockReviewRepository struct {
	createFunc        func(ctx context.Context, review *model.Review) error
	incrementVoteFunc func(ctx context.Context, id string, field string) error
	updateStatusFunc  func(ctx context.Context, id string, status string) error
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = testReviewID
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]*model.Review, error) {
	return nil, nil
}

func (m *mockReviewRepository) IncrementVote(ctx context.Context, id string, field string) error {
	if m.incrementVoteFunc != nil {
		return m.incrementVoteFunc(ctx, id, field)
	}
	return nil
}

func (m *mockReviewRepository) UpdateStatus(ctx context.Context, id string, status string) error {
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
	getByIDFunc func(ctx context.Context, id string) (*model.Vehicle, error)
}

func (m *mockVehicleStore) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Vehicle{ID: id, Make: "Toyota", Model: "Corolla"}, nil
}

func newTestService(repo *mockReviewRepository, vehicles *mockVehicleStore) ReviewService {
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
	return NewReviewService(repo, &mockUserResolver{}, vehicles, cfg)
}

func TestCreate_StartsPending(t *testing.T) {
	var stored *model.Review
	repo := &mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			stored = review
			return nil
		},
	}
	svc := newTestService(repo, &mockVehicleStore{})

	review := &model.Review{
		VehicleID:    testVehicleID,
		UserID:       testUserID,
		Rating:       4,
		Text:         "  Solid car,   clean interior. ",
		Status:       model.ReviewStatusApproved, // clients cannot self-approve
		HelpfulCount: 99,
	}
	if err := svc.Create(context.Background(), review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Status != model.ReviewStatusPending {
		t.Errorf("expected status %s, got %s", model.ReviewStatusPending, stored.Status)
	}
	if stored.HelpfulCount != 0 {
		t.Errorf("vote counters must start at zero, got %d", stored.HelpfulCount)
	}
	if stored.Text != "Solid car, clean interior." {
		t.Errorf("expected normalized text, got %q", stored.Text)
	}
}

func TestCreate_UnknownVehicle(t *testing.T) {
	vehicles := &mockVehicleStore{
		getByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return nil, apperrors.NotFoundWithID("Vehicle", id)
		},
	}
	svc := newTestService(&mockReviewRepository{}, vehicles)

	err := svc.Create(context.Background(), &model.Review{
		VehicleID: testVehicleID,
		UserID:    testUserID,
		Rating:    4,
		Text:      "nice",
	})
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestCreate_RatingOutOfRange(t *testing.T) {
	svc := newTestService(&mockReviewRepository{}, &mockVehicleStore{})

	for _, rating := range []int{0, 6, -1} {
		err := svc.Create(context.Background(), &model.Review{
			VehicleID: testVehicleID,
			UserID:    testUserID,
			Rating:    rating,
			Text:      "nice",
		})
		if err == nil {
			t.Errorf("expected validation error for rating %d, got nil", rating)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
			t.Errorf("expected code %s for rating %d, got %s", apperrors.CodeValidation, rating, appErr.Code)
		}
	}
}

func TestVote_FieldSelection(t *testing.T) {
	var capturedField string
	repo := &mockReviewRepository{
		incrementVoteFunc: func(ctx context.Context, id string, field string) error {
			capturedField = field
			return nil
		},
	}
	svc := newTestService(repo, &mockVehicleStore{})

	if err := svc.VoteHelpful(context.Background(), testReviewID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedField != "helpful_count" {
		t.Errorf("expected helpful_count, got %q", capturedField)
	}

	if err := svc.VoteUnhelpful(context.Background(), testReviewID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedField != "unhelpful_count" {
		t.Errorf("expected unhelpful_count, got %q", capturedField)
	}
}

func TestModerate_OnlyApproveOrReject(t *testing.T) {
	svc := newTestService(&mockReviewRepository{}, &mockVehicleStore{})

	for _, status := range []string{model.ReviewStatusPending, "deleted", ""} {
		err := svc.Moderate(context.Background(), testReviewID, status)
		if err == nil {
			t.Errorf("expected invalid input for status %q, got nil", status)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected code %s for status %q, got %s", apperrors.CodeInvalidInput, status, appErr.Code)
		}
	}

	if err := svc.Moderate(context.Background(), testReviewID, model.ReviewStatusApproved); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := svc.Moderate(context.Background(), testReviewID, model.ReviewStatusRejected); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
}
