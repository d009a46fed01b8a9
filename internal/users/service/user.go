package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	userserrors "renthub/internal/users/errors"
	"renthub/internal/users/repository"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
	"renthub/pkg/sanitizer"
)

var (
	objectIDRegex    = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	federatedIDRegex = regexp.MustCompile(`^\d{21,22}$`)
)

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, user *model.User) error
	Delete(ctx context.Context, id string) error

	// Resolve maps a user reference to a contact projection. A 24-char
	// hex string is an internal id, a 21-22 digit numeric string is a
	// federated identifier, anything else is invalid input.
	Resolve(ctx context.Context, userRef string) (*model.Contact, error)
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	s.sanitize(user)
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	if err := s.validate.Struct(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "email", user.Email)
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) Update(ctx context.Context, id string, user *model.User) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	merged := s.merge(existing, user)
	s.sanitize(merged)

	if err := s.validate.Struct(merged); err != nil {
		s.cfg.Log.Warn("User update validation failed", "id", id, "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return apperrors.Conflict("Email is already registered")
		}
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("User updated successfully", "id", id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

func (s *userService) Resolve(ctx context.Context, userRef string) (*model.Contact, error) {
	userRef = strings.TrimSpace(userRef)

	var user *model.User
	var err error

	switch {
	case objectIDRegex.MatchString(userRef):
		user, err = s.repo.FindByID(ctx, userRef)
	case federatedIDRegex.MatchString(userRef):
		user, err = s.repo.FindByFederatedID(ctx, userRef)
	default:
		return nil, apperrors.InvalidInput("User reference must be an internal id or a federated identifier")
	}

	if err != nil {
		return nil, s.translateRepoError(err, userRef)
	}

	return &model.Contact{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

func (s *userService) sanitize(u *model.User) {
	u.Name = sanitizer.NormalizeName(u.Name)
	u.Email = strings.ToLower(sanitizer.TrimAndNormalize(u.Email))
	u.Phone = sanitizer.TrimAndNormalize(u.Phone)
}

func (s *userService) merge(existing, updates *model.User) *model.User {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	if updates.Verified {
		merged.Verified = true
	}

	return &merged
}

func (s *userService) translateRepoError(err error, ref string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", ref)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access user storage", err)
	}
}
