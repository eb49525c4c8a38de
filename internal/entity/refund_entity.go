package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus represents the processing state of a monetary adjustment.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
)

// Refund reasons written by the orchestrator.
const (
	RefundReasonCancellation    = "cancellation"
	RefundReasonReschedulingFee = "rescheduling_fee"
)

// RefundRecord is one monetary adjustment attached to a booking. Amount is
// signed: positive is money returned to the customer, negative is a fee
// the customer owes (rescheduling).
type RefundRecord struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Amount    float64
	Reason    string
	Method    string
	Status    RefundStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
