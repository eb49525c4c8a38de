package policy

import (
	"errors"
	"time"

	"studio-booking-be/pkg/schedule"
)

// Type distinguishes the two tier tables.
type Type string

const (
	TypeCancellation Type = "cancellation"
	TypeRescheduling Type = "rescheduling"
)

// DefaultEmbargoHours is the hard cutoff inside which rescheduling is
// refused regardless of any tier.
const DefaultEmbargoHours = 8

// ErrInsideEmbargo is returned when a reschedule is attempted inside the
// embargo window.
var ErrInsideEmbargo = errors.New("rescheduling is not allowed this close to the appointment")

// Tier is one row of the cancellation/rescheduling policy table.
// Percentage is the refund percentage for cancellation tiers and the fee
// percentage for rescheduling tiers.
type Tier struct {
	Type        Type
	HoursBefore int
	Percentage  float64
	Active      bool
}

// Engine computes refunds and fees from policy tiers. All methods are pure
// and deterministic for a given now.
type Engine struct {
	EmbargoHours int
}

// NewEngine returns an engine with the given rescheduling embargo, falling
// back to the default when the value is not positive.
func NewEngine(embargoHours int) Engine {
	if embargoHours <= 0 {
		embargoHours = DefaultEmbargoHours
	}
	return Engine{EmbargoHours: embargoHours}
}

// HoursUntil computes the whole hours between now and the appointment
// instant. Past appointments clamp to 0.
func HoursUntil(date time.Time, startMinutes int, now time.Time) int {
	at := schedule.At(date, startMinutes)
	diff := at.Sub(now)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours())
}

// Select picks the most generous tier the customer still qualifies for:
// among active tiers of the matching type whose threshold does not exceed
// the notice given, the one with the largest threshold. Nil when no tier
// qualifies; callers treat that as a 0% refund/fee, not an error.
func Select(policyType Type, hoursUntil int, tiers []Tier) *Tier {
	var best *Tier
	for i := range tiers {
		t := &tiers[i]
		if !t.Active || t.Type != policyType || t.HoursBefore > hoursUntil {
			continue
		}
		if best == nil || t.HoursBefore > best.HoursBefore {
			best = t
		}
	}
	return best
}

// CancellationRefund computes the refund owed when cancelling an
// appointment of the given amount with notice measured from now.
func (e Engine) CancellationRefund(amount float64, date time.Time, startMinutes int, tiers []Tier, now time.Time) float64 {
	if amount <= 0 {
		return 0
	}
	tier := Select(TypeCancellation, HoursUntil(date, startMinutes, now), tiers)
	if tier == nil {
		return 0
	}
	return amount * tier.Percentage / 100
}

// ReschedulingFee computes the fee charged for moving an appointment.
// Inside the embargo window it returns ErrInsideEmbargo; the boundary
// itself (hoursUntil == embargo) is allowed.
func (e Engine) ReschedulingFee(amount float64, date time.Time, startMinutes int, tiers []Tier, now time.Time) (float64, error) {
	hours := HoursUntil(date, startMinutes, now)
	if hours < e.EmbargoHours {
		return 0, ErrInsideEmbargo
	}
	if amount <= 0 {
		return 0, nil
	}
	tier := Select(TypeRescheduling, hours, tiers)
	if tier == nil {
		return 0, nil
	}
	return amount * tier.Percentage / 100, nil
}
