package entity

import (
	"time"

	"github.com/google/uuid"

	"studio-booking-be/pkg/schedule"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusInProgress  BookingStatus = "in_progress"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusNoShow      BookingStatus = "no_show"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow, BookingStatusRescheduled:
		return true
	}
	return false
}

// OccupiesSlot reports whether a booking in this status still blocks its
// time slot. Cancelled and rescheduled bookings are kept for history but
// free their slot.
func (s BookingStatus) OccupiesSlot() bool {
	return s != BookingStatusCancelled && s != BookingStatusRescheduled
}

type PaymentStatus string

const (
	PaymentStatusUnpaid          PaymentStatus = "unpaid"
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusRefundedPartial PaymentStatus = "refunded_partial"
	PaymentStatusRefundedFull    PaymentStatus = "refunded_full"
)

// Booking is the central scheduling entity. Customer contact fields are a
// snapshot taken at booking time; later profile edits must not rewrite
// past bookings.
type Booking struct {
	ID        uuid.UUID
	Reference string

	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	InstructorID  *uuid.UUID
	ServiceID     uuid.UUID

	Date            time.Time
	StartMinutes    int
	DurationMinutes int
	EndMinutes      int

	TotalAmount   float64
	PaymentStatus PaymentStatus
	Status        BookingStatus

	CheckedIn   bool
	CheckedInAt *time.Time

	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID
	CancellationReason string
	RefundAmount       float64
	ReschedulingFee    float64

	RescheduledTo   *uuid.UUID
	RescheduledFrom *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeEnd keeps end_time consistent with start + duration, wrapping
// past midnight.
func (b *Booking) RecomputeEnd() {
	b.EndMinutes = schedule.EndOf(b.StartMinutes, b.DurationMinutes)
}

// StartTime and EndTime render the clock fields as "HH:MM".
func (b *Booking) StartTime() string { return schedule.FormatClock(b.StartMinutes) }
func (b *Booking) EndTime() string   { return schedule.FormatClock(b.EndMinutes) }

// CloneForReschedule copies the explicit carry-over field set into a
// successor booking at the new date and time. Lifecycle, check-in and
// cancellation fields deliberately do not carry over.
func (b *Booking) CloneForReschedule(id uuid.UUID, ref string, newDate time.Time, newStartMinutes int) *Booking {
	successor := &Booking{
		ID:              id,
		Reference:       ref,
		CustomerID:      b.CustomerID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		InstructorID:    b.InstructorID,
		ServiceID:       b.ServiceID,
		Date:            newDate,
		StartMinutes:    newStartMinutes,
		DurationMinutes: b.DurationMinutes,
		TotalAmount:     b.TotalAmount,
		PaymentStatus:   b.PaymentStatus,
		Status:          BookingStatusConfirmed,
		RescheduledFrom: &b.ID,
	}
	successor.RecomputeEnd()
	return successor
}
