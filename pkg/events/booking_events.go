package events

import (
	"time"

	"github.com/google/uuid"
)

// Booking event codes. Each code has a matching row in the
// notification_types registry (seeded by cmd/seed).
const (
	BookingCreated     = "BOOKING_CREATED"
	BookingConfirmed   = "BOOKING_CONFIRMED"
	BookingCheckedIn   = "BOOKING_CHECKED_IN"
	BookingCompleted   = "BOOKING_COMPLETED"
	BookingCancelled   = "BOOKING_CANCELLED"
	BookingRescheduled = "BOOKING_RESCHEDULED"
)

// NewBookingEvent builds an event for a booking lifecycle transition.
// The payload always carries booking_id and reference; extra gets merged
// in for event-specific fields (refund_amount, fee, new_booking_id, ...).
func NewBookingEvent(eventType string, bookingID uuid.UUID, ref string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"booking_id": bookingID.String(),
		"reference":  ref,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
