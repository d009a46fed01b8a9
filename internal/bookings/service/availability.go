package service

import (
	"context"
	"fmt"
	"time"

	"renthub/internal/bookings/repository"
	apperrors "renthub/pkg/errors"
	"renthub/pkg/logger"
)

// AvailabilityChecker answers one question: can this vehicle be booked
// for [start, end)? Active bookings are the source of truth; the
// vehicle availability flag is never consulted.
type AvailabilityChecker struct {
	repo repository.BookingRepository
	log  *logger.Logger
}

func NewAvailabilityChecker(repo repository.BookingRepository, log *logger.Logger) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo, log: log}
}

// EnsureAvailable returns a Conflict error when any active booking on
// the vehicle overlaps [start, end). excludeID skips the booking being
// rescheduled so it never conflicts with itself. Run inside the same
// transaction as the write that depends on the answer.
func (c *AvailabilityChecker) EnsureAvailable(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) error {
	existing, err := c.repo.FindActiveOverlapping(ctx, vehicleID, start, end, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if !b.Active() {
			continue
		}
		if overlaps(b.StartDate, b.EndDate, start, end) {
			return apperrors.Conflict(fmt.Sprintf(
				"Vehicle is already booked from %s to %s",
				b.StartDate.Format("2006-01-02"),
				b.EndDate.Format("2006-01-02"),
			)).WithDetails(map[string]any{
				"vehicle_id":           vehicleID,
				"conflicting_booking":  b.ID,
				"conflict_start_date":  b.StartDate,
				"conflict_end_date":    b.EndDate,
			})
		}
	}

	return nil
}

// overlaps reports whether two half-open ranges [start1, end1) and
// [start2, end2) intersect. Back-to-back bookings where one ends the
// day the other starts do not overlap.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// NormalizeDate truncates a timestamp to midnight UTC so bookings are
// compared at day granularity regardless of the client's clock.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
