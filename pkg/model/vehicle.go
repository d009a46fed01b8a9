package model

import "time"

// Vehicle is a marketplace listing. Availability is a denormalized
// projection maintained by the booking lifecycle; active bookings are
// the source of truth for conflicts, never this flag.
type Vehicle struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Make         string    `json:"make" bson:"make" validate:"required,min=1,max=60"`
	Model        string    `json:"model" bson:"model" validate:"required,min=1,max=60"`
	Year         int       `json:"year" bson:"year" validate:"required,min=1950,max=2100"`
	PricePerDay  float64   `json:"price_per_day" bson:"price_per_day" validate:"required,gt=0"`
	Availability bool      `json:"availability" bson:"availability"`
	Location     string    `json:"location" bson:"location" validate:"required,min=2,max=100"`
	Description  string    `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type VehicleUpdate struct {
	Make         string   `json:"make,omitempty" validate:"omitempty,min=1,max=60"`
	Model        string   `json:"model,omitempty" validate:"omitempty,min=1,max=60"`
	Year         *int     `json:"year,omitempty" validate:"omitempty,min=1950,max=2100"`
	PricePerDay  *float64 `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	Availability *bool    `json:"availability,omitempty"`
	Location     string   `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	Description  string   `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	Image        string   `json:"image,omitempty"`
}

// VehicleFilter narrows listing queries.
type VehicleFilter struct {
	Model    string
	Location string
	MinPrice *float64
	MaxPrice *float64
}
