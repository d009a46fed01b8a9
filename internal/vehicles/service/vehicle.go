package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	vehicleserrors "renthub/internal/vehicles/errors"
	"renthub/internal/vehicles/repository"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
	"renthub/pkg/sanitizer"
)

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	Search(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, int64, error)
	Update(ctx context.Context, id string, updates *model.VehicleUpdate) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	repo     repository.VehicleRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewVehicleService(repo repository.VehicleRepository, cfg *config.Config) VehicleService {
	return &vehicleService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) error {
	s.sanitize(vehicle)
	// New listings start rentable until a booking says otherwise.
	vehicle.Availability = true

	if err := s.validate.Struct(vehicle); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "error", err)
		return apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		s.cfg.Log.Error("Failed to create vehicle", "make", vehicle.Make, "model", vehicle.Model, "error", err)
		return apperrors.Internal("Failed to create vehicle", err)
	}

	s.cfg.Log.Info("Vehicle created successfully", "id", vehicle.ID, "make", vehicle.Make, "model", vehicle.Model)
	return nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return vehicle, nil
}

func (s *vehicleService) Search(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	if filter != nil {
		filter.Model = sanitizer.TrimAndNormalize(filter.Model)
		filter.Location = sanitizer.NormalizeLocation(filter.Location)
		if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
			return nil, 0, apperrors.InvalidInput("min_price cannot exceed max_price")
		}
	}

	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByFilter(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count vehicles", "error", errCount)
			errCount = apperrors.Internal("Failed to count vehicles", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search vehicles", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve vehicles", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return vehicles, count, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, updates *model.VehicleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if err := s.validate.Struct(updates); err != nil {
		s.cfg.Log.Warn("Vehicle update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	set := s.buildUpdate(updates)
	if len(set) == 0 {
		return apperrors.InvalidInput("No fields to update")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Vehicle updated successfully", "id", id)
	return nil
}

func (s *vehicleService) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return s.translateRepoError(err, id)
	}
	return nil
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Vehicle deleted successfully", "id", id)
	return nil
}

func (s *vehicleService) sanitize(v *model.Vehicle) {
	v.Make = sanitizer.TrimAndNormalize(v.Make)
	v.Model = sanitizer.TrimAndNormalize(v.Model)
	v.Location = sanitizer.NormalizeLocation(v.Location)
	v.Description = sanitizer.TrimAndNormalize(v.Description)
}

func (s *vehicleService) buildUpdate(updates *model.VehicleUpdate) bson.M {
	set := bson.M{}

	if updates.Make != "" {
		set["make"] = sanitizer.TrimAndNormalize(updates.Make)
	}
	if updates.Model != "" {
		set["model"] = sanitizer.TrimAndNormalize(updates.Model)
	}
	if updates.Year != nil {
		set["year"] = *updates.Year
	}
	if updates.PricePerDay != nil {
		set["price_per_day"] = *updates.PricePerDay
	}
	if updates.Availability != nil {
		set["availability"] = *updates.Availability
	}
	if updates.Location != "" {
		set["location"] = sanitizer.NormalizeLocation(updates.Location)
	}
	if updates.Description != "" {
		set["description"] = sanitizer.TrimAndNormalize(updates.Description)
	}
	if updates.Image != "" {
		set["image"] = updates.Image
	}

	return set
}

func (s *vehicleService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, vehicleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Vehicle", id)
	case errors.Is(err, vehicleserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid vehicle ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access vehicle storage", err)
	}
}
