package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds account data. FederatedID is the external identity from a
// social login; accounts created that way may have no local credentials.
type User struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=80"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Role        string    `json:"role" bson:"role" validate:"omitempty,oneof=user admin"`
	Verified    bool      `json:"verified" bson:"verified"`
	FederatedID string    `json:"federated_id,omitempty" bson:"federated_id,omitempty" validate:"omitempty,numeric"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Contact is the resolver projection the booking lifecycle consumes.
type Contact struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
