package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	rentalserrors "renthub/internal/rentals/errors"
	"renthub/internal/rentals/repository"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
)

type UserResolver interface {
	Resolve(ctx context.Context, userRef string) (*model.Contact, error)
}

type VehicleStore interface {
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type RentalService interface {
	Create(ctx context.Context, record *model.RentalRecord) error
	GetByUser(ctx context.Context, userRef string) ([]*model.RentalView, error)
	GetByVehicle(ctx context.Context, vehicleID string) ([]*model.RentalView, error)
	Complete(ctx context.Context, id string) (*model.RentalRecord, error)
}

type rentalService struct {
	repo     repository.RentalRepository
	users    UserResolver
	vehicles VehicleStore
	validate *validator.Validate
	cfg      *config.Config
}

func NewRentalService(repo repository.RentalRepository, users UserResolver, vehicles VehicleStore, cfg *config.Config) RentalService {
	return &rentalService{
		repo:     repo,
		users:    users,
		vehicles: vehicles,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *rentalService) Create(ctx context.Context, record *model.RentalRecord) error {
	if record.RentalStart.IsZero() || record.RentalEnd.IsZero() {
		return apperrors.InvalidInput("rental_start and rental_end are required")
	}
	if !record.RentalEnd.After(record.RentalStart) {
		return apperrors.InvalidInput("rental_end must be after rental_start")
	}

	contact, err := s.users.Resolve(ctx, record.UserID)
	if err != nil {
		return err
	}
	record.UserID = contact.UserID

	vehicle, err := s.vehicles.GetByID(ctx, record.VehicleID)
	if err != nil {
		return err
	}

	// Partial days bill as full days, minimum one.
	days := int(math.Ceil(record.RentalEnd.Sub(record.RentalStart).Hours() / 24))
	if days < 1 {
		days = 1
	}
	record.DurationDays = days
	record.TotalPrice = vehicle.PricePerDay * float64(days)
	if record.Status == "" {
		record.Status = model.RentalStatusOngoing
	}

	if err := s.validate.Struct(record); err != nil {
		s.cfg.Log.Warn("Rental record validation failed", "error", err)
		return apperrors.Validation("Rental record validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.cfg.Log.Error("Failed to create rental record", "vehicle_id", record.VehicleID, "error", err)
		return apperrors.Internal("Failed to create rental record", err)
	}

	s.cfg.Log.Info("Rental record created successfully",
		"id", record.ID,
		"vehicle_id", record.VehicleID,
		"user_id", record.UserID,
		"duration_days", record.DurationDays,
		"total_price", record.TotalPrice,
	)
	return nil
}

func (s *rentalService) GetByUser(ctx context.Context, userRef string) ([]*model.RentalView, error) {
	if userRef == "" {
		return nil, apperrors.InvalidInput("User reference cannot be empty")
	}

	contact, err := s.users.Resolve(ctx, userRef)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindByUser(ctx, contact.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rental records by user", "user_id", contact.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rental records", err)
	}

	return s.enrich(ctx, records), nil
}

func (s *rentalService) GetByVehicle(ctx context.Context, vehicleID string) ([]*model.RentalView, error) {
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	records, err := s.repo.FindByVehicle(ctx, vehicleID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rental records by vehicle", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rental records", err)
	}

	return s.enrich(ctx, records), nil
}

func (s *rentalService) Complete(ctx context.Context, id string) (*model.RentalRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Rental record ID cannot be empty")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	if record.Status == model.RentalStatusCompleted {
		return nil, apperrors.Conflict("Rental is already completed")
	}
	if record.Status == model.RentalStatusCancelled {
		return nil, apperrors.Conflict("Cancelled rentals cannot be completed")
	}

	if err := s.repo.UpdateStatus(ctx, id, model.RentalStatusCompleted); err != nil {
		return nil, s.translateRepoError(err, id)
	}

	// The vehicle comes back to the fleet when the rental ends.
	if err := s.vehicles.SetAvailability(ctx, record.VehicleID, true); err != nil {
		s.cfg.Log.Warn("Failed to restore vehicle availability after rental completion",
			"rental_id", id,
			"vehicle_id", record.VehicleID,
			"error", err,
		)
	}

	record.Status = model.RentalStatusCompleted

	s.cfg.Log.Info("Rental completed successfully", "id", id, "vehicle_id", record.VehicleID)
	return record, nil
}

func (s *rentalService) enrich(ctx context.Context, records []*model.RentalRecord) []*model.RentalView {
	views := make([]*model.RentalView, 0, len(records))

	contacts := make(map[string]*model.Contact)
	vehicles := make(map[string]*model.Vehicle)

	for _, rec := range records {
		view := &model.RentalView{RentalRecord: *rec}

		contact, ok := contacts[rec.UserID]
		if !ok {
			var err error
			contact, err = s.users.Resolve(ctx, rec.UserID)
			if err != nil {
				contact = nil
			}
			contacts[rec.UserID] = contact
		}
		if contact != nil {
			view.UserName = contact.Name
			view.UserEmail = contact.Email
		}

		vehicle, ok := vehicles[rec.VehicleID]
		if !ok {
			var err error
			vehicle, err = s.vehicles.GetByID(ctx, rec.VehicleID)
			if err != nil {
				vehicle = nil
			}
			vehicles[rec.VehicleID] = vehicle
		}
		if vehicle != nil {
			view.VehicleMake = vehicle.Make
			view.VehicleModel = vehicle.Model
		}

		views = append(views, view)
	}

	return views
}

func (s *rentalService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, rentalserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Rental record", id)
	case errors.Is(err, rentalserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid rental record ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access rental storage", err)
	}
}
