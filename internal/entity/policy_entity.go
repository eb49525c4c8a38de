package entity

import (
	"time"

	"github.com/google/uuid"

	"studio-booking-be/pkg/policy"
)

// CancellationPolicy is one tier of the cancellation/rescheduling policy
// table. Percentage means refund percentage for cancellation tiers and fee
// percentage for rescheduling tiers.
type CancellationPolicy struct {
	ID                 uuid.UUID
	PolicyType         policy.Type
	HoursBeforeBooking int
	Percentage         float64
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Tier converts the row into the pure engine's representation.
func (p CancellationPolicy) Tier() policy.Tier {
	return policy.Tier{
		Type:        p.PolicyType,
		HoursBefore: p.HoursBeforeBooking,
		Percentage:  p.Percentage,
		Active:      p.Active,
	}
}

// Tiers maps policy rows for the engine.
func Tiers(policies []*CancellationPolicy) []policy.Tier {
	tiers := make([]policy.Tier, 0, len(policies))
	for _, p := range policies {
		tiers = append(tiers, p.Tier())
	}
	return tiers
}
