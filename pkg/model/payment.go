package model

import "time"

const (
	PaymentMethodUPI        = "upi"
	PaymentMethodCreditCard = "credit_card"

	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusPending   = "pending"
)

// Payment records a gateway transaction. TransactionID is the external
// gateway reference; the gateway call itself happens outside this system.
type Payment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID        string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Amount        float64   `json:"amount" bson:"amount" validate:"required,gt=0"`
	Method        string    `json:"method" bson:"method" validate:"required,oneof=upi credit_card"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=completed failed pending"`
	TransactionID string    `json:"transaction_id" bson:"transaction_id" validate:"required"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
