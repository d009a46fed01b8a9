package notify

import (
	"context"
	"sync"
	"time"

	apperrors "renthub/pkg/errors"
	"renthub/pkg/kafka"
	"renthub/pkg/logger"
	"renthub/pkg/middleware"
)

// Sender is the outbound notification boundary the booking lifecycle
// depends on. Delivery is fire-and-forget: a failure is reported, never
// propagated into the state transition that triggered it.
type Sender interface {
	NotifyConfirmed(ctx context.Context, event BookingEvent)
	NotifyCancelled(ctx context.Context, event BookingEvent)
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Dispatcher publishes booking events to the notification topic in the
// background. Publish errors are logged with the NOTIFICATION_FAILED
// code and otherwise swallowed; the DLQ on the producer side keeps the
// payload recoverable.
type Dispatcher struct {
	producer Publisher
	log      *logger.Logger
	source   string
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(producer Publisher, log *logger.Logger, source string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		producer: producer,
		log:      log,
		source:   source,
		timeout:  timeout,
	}
}

func (d *Dispatcher) NotifyConfirmed(ctx context.Context, event BookingEvent) {
	d.dispatch(ctx, EventBookingConfirmed, event)
}

func (d *Dispatcher) NotifyCancelled(ctx context.Context, event BookingEvent) {
	d.dispatch(ctx, EventBookingCancelled, event)
}

func (d *Dispatcher) dispatch(ctx context.Context, eventType string, event BookingEvent) {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(d.source).
		WithCorrelationID(middleware.RequestID(ctx)).
		Build()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// Detached from the request context: the booking commit already
		// happened, so the publish must not die with the request.
		publishCtx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.producer.Publish(publishCtx, msg); err != nil {
			appErr := apperrors.NotificationFailed("Failed to publish notification event", err)
			d.log.Error("Notification dispatch failed",
				"code", appErr.Code,
				"event_type", eventType,
				"booking_id", event.BookingID,
				"error", err,
			)
			return
		}

		d.log.Debug("Notification event published",
			"event_type", eventType,
			"booking_id", event.BookingID,
		)
	}()
}

// Close drains in-flight publishes before closing the producer.
func (d *Dispatcher) Close() error {
	d.wg.Wait()
	return d.producer.Close()
}
