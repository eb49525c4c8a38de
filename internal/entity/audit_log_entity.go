package entity

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions written by the booking core.
const (
	AuditActionBookingCreated     = "BOOKING_CREATED"
	AuditActionBookingConfirmed   = "BOOKING_CONFIRMED"
	AuditActionBookingCheckedIn   = "BOOKING_CHECKED_IN"
	AuditActionBookingCompleted   = "BOOKING_COMPLETED"
	AuditActionBookingUpdated     = "BOOKING_UPDATED"
	AuditActionBookingCancelled   = "BOOKING_CANCELLED"
	AuditActionBookingRescheduled = "BOOKING_RESCHEDULED"
)

// AuditLogEntry is an append-only record of an action against an entity.
// Entries are never updated or deleted.
type AuditLogEntry struct {
	ID          uuid.UUID
	ActorID     *uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Description string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
