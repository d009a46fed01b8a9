package model

import (
	"time"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a rental reservation for a vehicle over a half-open date
// range [StartDate, EndDate). Status is the single authoritative state:
// a booking is either confirmed or cancelled, never both.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	StartDate time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Active reports whether the booking still counts toward availability.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}

// DurationDays is the rental length in whole days.
func (b *Booking) DurationDays() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}

// BookingRequest is the create payload. UserRef accepts either an
// internal user id or a federated identifier.
// Date ordering is deliberately not a struct tag on the payloads: the
// range check runs after calendar-date normalization so a reversed
// range is classified the same way whatever time of day it carries.
type BookingRequest struct {
	UserRef   string    `json:"user_ref" validate:"required"`
	VehicleID string    `json:"vehicle_id" validate:"required,mongodb"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// BookingReschedule is the modify payload; only the dates may change.
type BookingReschedule struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// BookingView is a booking enriched with denormalized projections for
// list responses.
type BookingView struct {
	Booking      `bson:",inline"`
	UserName     string `json:"user_name,omitempty" bson:"-"`
	VehicleMake  string `json:"vehicle_make,omitempty" bson:"-"`
	VehicleModel string `json:"vehicle_model,omitempty" bson:"-"`
}
