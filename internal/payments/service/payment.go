package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	paymentserrors "renthub/internal/payments/errors"
	"renthub/internal/payments/repository"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
)

type UserResolver interface {
	Resolve(ctx context.Context, userRef string) (*model.Contact, error)
}

type PaymentService interface {
	Record(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	HistoryByUser(ctx context.Context, userRef string) ([]*model.Payment, error)
}

type paymentService struct {
	repo     repository.PaymentRepository
	users    UserResolver
	validate *validator.Validate
	cfg      *config.Config
}

func NewPaymentService(repo repository.PaymentRepository, users UserResolver, cfg *config.Config) PaymentService {
	return &paymentService{
		repo:     repo,
		users:    users,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Record persists a gateway transaction outcome. The charge already
// happened elsewhere; this is bookkeeping only.
func (s *paymentService) Record(ctx context.Context, payment *model.Payment) error {
	contact, err := s.users.Resolve(ctx, payment.UserID)
	if err != nil {
		return err
	}
	payment.UserID = contact.UserID
	if payment.Email == "" {
		payment.Email = contact.Email
	}
	if payment.Status == "" {
		payment.Status = model.PaymentStatusPending
	}

	if err := s.validate.Struct(payment); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "error", err)
		return apperrors.Validation("Payment validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, paymentserrors.ErrDuplicateTransaction) {
			return apperrors.Conflict("Transaction is already recorded")
		}
		s.cfg.Log.Error("Failed to record payment", "transaction_id", payment.TransactionID, "error", err)
		return apperrors.Internal("Failed to record payment", err)
	}

	s.cfg.Log.Info("Payment recorded successfully",
		"id", payment.ID,
		"user_id", payment.UserID,
		"amount", payment.Amount,
		"status", payment.Status,
	)
	return nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Payment ID cannot be empty")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return payment, nil
}

// HistoryByUser returns the user's payment trail; a user with no
// payments gets an empty list, not an error.
func (s *paymentService) HistoryByUser(ctx context.Context, userRef string) ([]*model.Payment, error) {
	if userRef == "" {
		return nil, apperrors.InvalidInput("User reference cannot be empty")
	}

	contact, err := s.users.Resolve(ctx, userRef)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.FindByUser(ctx, contact.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list payments by user", "user_id", contact.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}

	return payments, nil
}

func (s *paymentService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, paymentserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Payment", id)
	case errors.Is(err, paymentserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid payment ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access payment storage", err)
	}
}
