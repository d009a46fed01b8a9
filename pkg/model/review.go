package model

import "time"

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

type Review struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID      string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	UserID         string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Rating         int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Text           string    `json:"text" bson:"text" validate:"required,min=1,max=4000"`
	HelpfulCount   int       `json:"helpful_count" bson:"helpful_count"`
	UnhelpfulCount int       `json:"unhelpful_count" bson:"unhelpful_count"`
	Status         string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
