package model

import "time"

const (
	RentalStatusOngoing   = "ongoing"
	RentalStatusCompleted = "completed"
	RentalStatusCancelled = "cancelled"
)

// RentalRecord is the historical ledger entry written when a rental
// actually runs, priced at whole-day granularity.
type RentalRecord struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID    string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	UserID       string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	RentalStart  time.Time `json:"rental_start" bson:"rental_start" validate:"required"`
	RentalEnd    time.Time `json:"rental_end" bson:"rental_end" validate:"required,gtfield=RentalStart"`
	DurationDays int       `json:"duration_days" bson:"duration_days" validate:"required,min=1"`
	TotalPrice   float64   `json:"total_price" bson:"total_price" validate:"required,gt=0"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=ongoing completed cancelled"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RentalView carries the user and vehicle projections list endpoints
// return alongside each record.
type RentalView struct {
	RentalRecord `bson:",inline"`
	UserName     string `json:"user_name,omitempty" bson:"-"`
	UserEmail    string `json:"user_email,omitempty" bson:"-"`
	VehicleMake  string `json:"vehicle_make,omitempty" bson:"-"`
	VehicleModel string `json:"vehicle_model,omitempty" bson:"-"`
}
