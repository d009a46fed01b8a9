package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	bookingserrors "renthub/internal/bookings/errors"
	"renthub/pkg/logger"
	"renthub/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func date(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRequest_Valid(t *testing.T) {
	v := newTestValidator()

	req := &model.BookingRequest{
		UserRef:   "65a000000000000000000002",
		VehicleID: "65a000000000000000000001",
		StartDate: date(1),
		EndDate:   date(5),
	}

	if err := v.ValidateRequest(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequest_MissingFields(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateRequest(&model.BookingRequest{})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	msg := err.Error()
	for _, field := range []string{"UserRef", "VehicleID", "StartDate", "EndDate"} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected error to mention %s, got: %s", field, msg)
		}
	}
}

func TestValidateRequest_InvalidVehicleID(t *testing.T) {
	v := newTestValidator()

	req := &model.BookingRequest{
		UserRef:   "65a000000000000000000002",
		VehicleID: "not-an-object-id",
		StartDate: date(1),
		EndDate:   date(5),
	}

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "ObjectID") {
		t.Errorf("expected ObjectID message, got: %s", err.Error())
	}
}

func TestValidateRequest_EndBeforeStart(t *testing.T) {
	v := newTestValidator()

	req := &model.BookingRequest{
		UserRef:   "65a000000000000000000002",
		VehicleID: "65a000000000000000000001",
		StartDate: date(5),
		EndDate:   date(1),
	}

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected range error, got nil")
	}
	if !errors.Is(err, bookingserrors.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got: %v", err)
	}
}

func TestValidateReschedule_EqualDatesRejected(t *testing.T) {
	v := newTestValidator()

	req := &model.BookingReschedule{
		StartDate: date(3),
		EndDate:   date(3),
	}

	err := v.ValidateReschedule(req)
	if err == nil {
		t.Fatal("zero-length range must be rejected")
	}
	if !errors.Is(err, bookingserrors.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got: %v", err)
	}
}

func TestValidate_BookingStatus(t *testing.T) {
	v := newTestValidator()

	booking := &model.Booking{
		VehicleID: "65a000000000000000000001",
		UserID:    "65a000000000000000000002",
		StartDate: date(1),
		EndDate:   date(5),
		Status:    "parked",
	}

	err := v.Validate(booking)
	if err == nil {
		t.Fatal("expected validation error for unknown status, got nil")
	}
	if !strings.Contains(err.Error(), "Status") {
		t.Errorf("expected Status in error, got: %s", err.Error())
	}
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Field: "EndDate", Message: "end_date must be after start_date"},
		{Field: "VehicleID", Message: "VehicleID is required"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 error(s)") {
		t.Errorf("expected error count in message, got: %s", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should produce empty message")
	}
}
