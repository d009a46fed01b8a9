package model

import "time"

// VehicleLock is an advisory lock document serializing booking writes per
// vehicle. The fixed _id makes the second concurrent writer fail on the
// unique index; ExpiresAt backs a TTL index so crashed holders do not
// wedge the vehicle.
type VehicleLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
