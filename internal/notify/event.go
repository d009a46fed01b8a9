package notify

import "time"

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
)

// BookingEvent is the payload delivery workers consume to send the
// actual email/SMS. Everything the message template needs is
// denormalized here so consumers never call back into the API.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	Contact      string    `json:"contact"`
	UserName     string    `json:"user_name,omitempty"`
	VehicleMake  string    `json:"vehicle_make"`
	VehicleModel string    `json:"vehicle_model"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	TotalPrice   float64   `json:"total_price,omitempty"`
}
