package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePolicyRequest struct {
	PolicyType         string  `json:"policy_type" validate:"required,oneof=cancellation rescheduling"`
	HoursBeforeBooking int     `json:"hours_before_booking" validate:"gte=0"`
	Percentage         float64 `json:"percentage" validate:"gte=0,lte=100"`
	Active             bool    `json:"active"`
}

type UpdatePolicyRequest struct {
	ID                 uuid.UUID `json:"-"`
	HoursBeforeBooking *int      `json:"hours_before_booking" validate:"omitempty,gte=0"`
	Percentage         *float64  `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Active             *bool     `json:"active"`
}

type PolicyResponse struct {
	ID                 uuid.UUID `json:"id"`
	PolicyType         string    `json:"policy_type"`
	HoursBeforeBooking int       `json:"hours_before_booking"`
	Percentage         float64   `json:"percentage"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}
