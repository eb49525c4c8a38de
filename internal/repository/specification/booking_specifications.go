package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByReference filters bookings by their human-readable reference code.
type ByReference struct {
	Reference string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ?", s.Reference)
}

// OnDate filters bookings landing on a calendar day.
type OnDate struct {
	Date time.Time
}

func (s OnDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ?", s.Date.Format("2006-01-02"))
}

// ByInstructor filters bookings assigned to one instructor.
type ByInstructor struct {
	InstructorID uuid.UUID
}

func (s ByInstructor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("instructor_id = ?", s.InstructorID)
}

// OccupyingSlot keeps only bookings that still block their time slot:
// everything except cancelled and rescheduled ones.
type OccupyingSlot struct{}

func (s OccupyingSlot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []string{"cancelled", "rescheduled"})
}

// ByStatus filters by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByPolicyType filters policy tiers by their table type.
type ByPolicyType struct {
	PolicyType string
}

func (s ByPolicyType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("policy_type = ?", s.PolicyType)
}

// ActiveOnly keeps rows whose active flag is set.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// ByBooking filters refund records by their parent booking.
type ByBooking struct {
	BookingID uuid.UUID
}

func (s ByBooking) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("booking_id = ?", s.BookingID)
}

// ByEntity filters audit entries by the entity they describe.
type ByEntity struct {
	EntityType string
	EntityID   uuid.UUID
}

func (s ByEntity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entity_type = ? AND entity_id = ?", s.EntityType, s.EntityID)
}

// ByEmail filters users by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}
