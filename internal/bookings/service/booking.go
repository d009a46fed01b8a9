package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "renthub/internal/bookings/errors"
	"renthub/internal/bookings/repository"
	"renthub/internal/bookings/validator"
	"renthub/internal/notify"
	"renthub/pkg/config"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/model"
)

// UserResolver resolves a user reference (internal id or federated
// identifier) to the contact projection notifications need.
type UserResolver interface {
	Resolve(ctx context.Context, userRef string) (*model.Contact, error)
}

// VehicleStore is the slice of the vehicle domain the booking
// lifecycle depends on. SetAvailability must honor a transaction
// session context so the flag commits with the booking write.
type VehicleStore interface {
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	Reschedule(ctx context.Context, id string, req *model.BookingReschedule) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByUser(ctx context.Context, userRef string) ([]*model.BookingView, error)
	GetByVehicle(ctx context.Context, vehicleID string) ([]*model.BookingView, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.VehicleLockRepository
	availability *AvailabilityChecker
	users        UserResolver
	vehicles     VehicleStore
	notifier     notify.Sender
	validator    *validator.BookingValidator
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.VehicleLockRepository,
	availability *AvailabilityChecker,
	users UserResolver,
	vehicles VehicleStore,
	notifier notify.Sender,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		availability: availability,
		users:        users,
		vehicles:     vehicles,
		notifier:     notifier,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		if errors.Is(err, bookingserrors.ErrInvalidDateRange) {
			return nil, apperrors.InvalidInput("end_date must be after start_date")
		}
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	start := NormalizeDate(req.StartDate)
	end := NormalizeDate(req.EndDate)
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}

	contact, err := s.users.Resolve(ctx, req.UserRef)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	// Advisory lock on the vehicle closes the gap between the
	// availability check and the insert for requests racing on
	// different app instances.
	lockID, err := s.acquireVehicleLock(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	defer s.releaseVehicleLock(lockID)

	booking := &model.Booking{
		VehicleID: vehicle.ID,
		UserID:    contact.UserID,
		StartDate: start,
		EndDate:   end,
		Status:    model.BookingStatusConfirmed,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.availability.EnsureAvailable(sessCtx, vehicle.ID, start, end, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.vehicles.SetAvailability(sessCtx, vehicle.ID, false); err != nil {
			return apperrors.Internal("Failed to update vehicle availability", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"vehicle_id", vehicle.ID,
			"user_id", contact.UserID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"vehicle_id", vehicle.ID,
		"user_id", contact.UserID,
		"start_date", start,
		"end_date", end,
	)

	s.notifier.NotifyConfirmed(ctx, s.buildEvent(booking, contact, vehicle))
	return booking, nil
}

func (s *bookingService) Reschedule(ctx context.Context, id string, req *model.BookingReschedule) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.validator.ValidateReschedule(req); err != nil {
		s.cfg.Log.Warn("Booking reschedule validation failed", "id", id, "error", err)
		if errors.Is(err, bookingserrors.ErrInvalidDateRange) {
			return nil, apperrors.InvalidInput("end_date must be after start_date")
		}
		return nil, apperrors.Validation("Invalid reschedule input", map[string]any{"error": err.Error()})
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Active() {
		return nil, apperrors.Conflict("Cancelled bookings cannot be rescheduled")
	}

	// Resolve the contact up front: a confirmation must go out for
	// every date change, so a user without a deliverable address fails
	// the whole operation before anything is written.
	contact, err := s.users.Resolve(ctx, booking.UserID)
	if err != nil {
		return nil, err
	}
	if contact.Email == "" {
		return nil, apperrors.InvalidInput("User has no contact address for the reschedule notification")
	}

	vehicle, err := s.vehicles.GetByID(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	start := NormalizeDate(req.StartDate)
	end := NormalizeDate(req.EndDate)
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}

	lockID, err := s.acquireVehicleLock(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	defer s.releaseVehicleLock(lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.availability.EnsureAvailable(sessCtx, vehicle.ID, start, end, booking.ID); err != nil {
			return err
		}
		if err := s.repo.UpdateDates(sessCtx, booking.ID, start, end); err != nil {
			return s.translateRepoError(err, booking.ID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule booking", "id", id, "error", err)
		return nil, err
	}

	booking.StartDate = start
	booking.EndDate = end

	s.cfg.Log.Info("Booking rescheduled successfully",
		"id", booking.ID,
		"start_date", start,
		"end_date", end,
	)

	s.notifier.NotifyConfirmed(ctx, s.buildEvent(booking, contact, vehicle))
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cancelling twice is a no-op: the terminal state is already
	// reached and the vehicle flag must not be toggled again.
	if !booking.Active() {
		return booking, nil
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, booking.ID, model.BookingStatusCancelled); err != nil {
			return s.translateRepoError(err, booking.ID)
		}
		if err := s.vehicles.SetAvailability(sessCtx, booking.VehicleID, true); err != nil {
			return apperrors.Internal("Failed to update vehicle availability", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, err
	}

	booking.Status = model.BookingStatusCancelled

	s.cfg.Log.Info("Booking cancelled successfully",
		"id", booking.ID,
		"vehicle_id", booking.VehicleID,
	)

	// The cancellation is already committed, so a missing contact only
	// costs the courtesy notification, never the state change.
	contact, err := s.users.Resolve(ctx, booking.UserID)
	if err != nil || contact.Email == "" {
		s.cfg.Log.Warn("Skipping cancellation notification, no deliverable contact",
			"booking_id", booking.ID,
			"user_id", booking.UserID,
			"error", err,
		)
		return booking, nil
	}

	vehicle, err := s.vehicles.GetByID(ctx, booking.VehicleID)
	if err != nil {
		s.cfg.Log.Warn("Skipping cancellation notification, vehicle lookup failed",
			"booking_id", booking.ID,
			"vehicle_id", booking.VehicleID,
			"error", err,
		)
		return booking, nil
	}

	s.notifier.NotifyCancelled(ctx, s.buildEvent(booking, contact, vehicle))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.findBooking(ctx, id)
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userRef string) ([]*model.BookingView, error) {
	if userRef == "" {
		return nil, apperrors.InvalidInput("User reference cannot be empty")
	}

	// An unknown user is NotFound; a known user with no bookings is an
	// empty list. The resolver draws that line.
	contact, err := s.users.Resolve(ctx, userRef)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByUser(ctx, contact.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user_id", contact.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.enrich(ctx, bookings), nil
}

func (s *bookingService) GetByVehicle(ctx context.Context, vehicleID string) ([]*model.BookingView, error) {
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByVehicle(ctx, vehicleID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by vehicle", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.enrich(ctx, bookings), nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}
	return booking, nil
}

func (s *bookingService) translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Failed to access booking storage", err)
	}
}

// enrich joins user names and vehicle details onto bookings for list
// responses. Lookup failures degrade to the bare booking rather than
// failing the whole list.
func (s *bookingService) enrich(ctx context.Context, bookings []*model.Booking) []*model.BookingView {
	views := make([]*model.BookingView, 0, len(bookings))

	contacts := make(map[string]*model.Contact)
	vehicles := make(map[string]*model.Vehicle)

	for _, b := range bookings {
		view := &model.BookingView{Booking: *b}

		contact, ok := contacts[b.UserID]
		if !ok {
			var err error
			contact, err = s.users.Resolve(ctx, b.UserID)
			if err != nil {
				s.cfg.Log.Debug("Skipping user projection", "user_id", b.UserID, "error", err)
				contact = nil
			}
			contacts[b.UserID] = contact
		}
		if contact != nil {
			view.UserName = contact.Name
		}

		vehicle, ok := vehicles[b.VehicleID]
		if !ok {
			var err error
			vehicle, err = s.vehicles.GetByID(ctx, b.VehicleID)
			if err != nil {
				s.cfg.Log.Debug("Skipping vehicle projection", "vehicle_id", b.VehicleID, "error", err)
				vehicle = nil
			}
			vehicles[b.VehicleID] = vehicle
		}
		if vehicle != nil {
			view.VehicleMake = vehicle.Make
			view.VehicleModel = vehicle.Model
		}

		views = append(views, view)
	}

	return views
}

func (s *bookingService) buildEvent(booking *model.Booking, contact *model.Contact, vehicle *model.Vehicle) notify.BookingEvent {
	days := booking.DurationDays()
	return notify.BookingEvent{
		BookingID:    booking.ID,
		Contact:      contact.Email,
		UserName:     contact.Name,
		VehicleMake:  vehicle.Make,
		VehicleModel: vehicle.Model,
		StartDate:    booking.StartDate,
		EndDate:      booking.EndDate,
		DurationDays: days,
		TotalPrice:   vehicle.PricePerDay * float64(days),
	}
}

// acquireVehicleLock creates a short-lived advisory lock document for
// the vehicle. A duplicate key means another request holds the lock.
func (s *bookingService) acquireVehicleLock(ctx context.Context, vehicleID string) (string, error) {
	lockID := fmt.Sprintf("vehicle_lock_%s", vehicleID)

	lock := &model.VehicleLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This vehicle is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire vehicle lock", err)
	}

	return lockID, nil
}

// releaseVehicleLock runs on a fresh context so the lock is freed even
// when the request context is already cancelled. The TTL index covers
// a crashed process.
func (s *bookingService) releaseVehicleLock(lockID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.lockRepo.Delete(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", lockID, "error", err)
	}
}
