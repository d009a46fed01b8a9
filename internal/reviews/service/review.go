package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	reviewserrors "renthub/internal/reviews/errors"
	"renthub/internal/reviews/repository"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
	"renthub/pkg/sanitizer"
)

type UserResolver interface {
	Resolve(ctx context.Context, userRef string) (*model.Contact, error)
}

type VehicleStore interface {
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
}

type ReviewService interface {
	Create(ctx context.Context, review *model.Review) error
	GetByVehicle(ctx context.Context, vehicleID string) ([]*model.Review, error)
	VoteHelpful(ctx context.Context, id string) error
	VoteUnhelpful(ctx context.Context, id string) error
	Moderate(ctx context.Context, id string, status string) error
}

type reviewService struct {
	repo     repository.ReviewRepository
	users    UserResolver
	vehicles VehicleStore
	validate *validator.Validate
	cfg      *config.Config
}

func NewReviewService(repo repository.ReviewRepository, users UserResolver, vehicles VehicleStore, cfg *config.Config) ReviewService {
	return &reviewService{
		repo:     repo,
		users:    users,
		vehicles: vehicles,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Create stores a review in pending state; nothing is published until
// moderation approves it.
func (s *reviewService) Create(ctx context.Context, review *model.Review) error {
	contact, err := s.users.Resolve(ctx, review.UserID)
	if err != nil {
		return err
	}
	review.UserID = contact.UserID

	if _, err := s.vehicles.GetByID(ctx, review.VehicleID); err != nil {
		return err
	}

	review.Text = sanitizer.TrimAndNormalize(review.Text)
	review.Status = model.ReviewStatusPending
	review.HelpfulCount = 0
	review.UnhelpfulCount = 0

	if err := s.validate.Struct(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.cfg.Log.Error("Failed to create review", "vehicle_id", review.VehicleID, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review created successfully", "id", review.ID, "vehicle_id", review.VehicleID, "rating", review.Rating)
	return nil
}

func (s *reviewService) GetByVehicle(ctx context.Context, vehicleID string) ([]*model.Review, error) {
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.FindByVehicle(ctx, vehicleID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews by vehicle", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}

	return reviews, nil
}

func (s *reviewService) VoteHelpful(ctx context.Context, id string) error {
	return s.vote(ctx, id, "helpful_count")
}

func (s *reviewService) VoteUnhelpful(ctx context.Context, id string) error {
	return s.vote(ctx, id, "unhelpful_count")
}

func (s *reviewService) vote(ctx context.Context, id string, field string) error {
	if id == "" {
		return apperrors.InvalidInput("Review ID cannot be empty")
	}

	if err := s.repo.IncrementVote(ctx, id, field); err != nil {
		return s.translateRepoError(err, id)
	}

	return nil
}

// Moderate moves a review to approved or rejected; those are the only
// two outcomes a moderator can set.
func (s *reviewService) Moderate(ctx context.Context, id string, status string) error {
	if id == "" {
		return apperrors.InvalidInput("Review ID cannot be empty")
	}
	if status != model.ReviewStatusApproved && status != model.ReviewStatusRejected {
		return apperrors.InvalidInput("Moderation status must be approved or rejected")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Review moderated", "id", id, "status", status)
	return nil
}

func (s *reviewService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, reviewserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Review", id)
	case errors.Is(err, reviewserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid review ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access review storage", err)
	}
}
