package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CustomerID      *uuid.UUID `json:"customer_id"`
	CustomerName    string     `json:"customer_name" validate:"required"`
	CustomerEmail   string     `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string     `json:"customer_phone"`
	ServiceID       uuid.UUID  `json:"service_id" validate:"required"`
	InstructorID    *uuid.UUID `json:"instructor_id"`
	Date            string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string     `json:"start_time" validate:"required"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
}

type UpdateBookingRequest struct {
	ID              uuid.UUID  `json:"-"`
	Date            *string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime       *string    `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	ServiceID       *uuid.UUID `json:"service_id"`
	Status          *string    `json:"status"`
	PaymentStatus   *string    `json:"payment_status"`
}

type CompleteBookingRequest struct {
	XPAwarded *int `json:"xp_awarded" validate:"omitempty,gte=0"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RescheduleBookingRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	Reason    string `json:"reason"`
}

type BookingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Reference          string     `json:"reference"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName       string     `json:"customer_name"`
	CustomerEmail      string     `json:"customer_email,omitempty"`
	CustomerPhone      string     `json:"customer_phone,omitempty"`
	InstructorID       *uuid.UUID `json:"instructor_id,omitempty"`
	ServiceID          uuid.UUID  `json:"service_id"`
	Date               string     `json:"date"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	TotalAmount        float64    `json:"total_amount"`
	PaymentStatus      string     `json:"payment_status"`
	Status             string     `json:"status"`
	CheckedIn          bool       `json:"checked_in"`
	CheckedInAt        *time.Time `json:"checked_in_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	RefundAmount       float64    `json:"refund_amount,omitempty"`
	ReschedulingFee    float64    `json:"rescheduling_fee,omitempty"`
	RescheduledTo      *uuid.UUID `json:"rescheduled_to,omitempty"`
	RescheduledFrom    *uuid.UUID `json:"rescheduled_from,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type RefundRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CancelBookingResponse struct {
	Booking BookingResponse       `json:"booking"`
	Refund  *RefundRecordResponse `json:"refund,omitempty"`
	Message string                `json:"message"`
}

type RescheduleBookingResponse struct {
	OriginalBooking BookingResponse `json:"original_booking"`
	NewBooking      BookingResponse `json:"new_booking"`
	Fee             float64         `json:"fee"`
	Message         string          `json:"message"`
}
