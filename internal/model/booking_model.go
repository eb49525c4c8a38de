package model

import (
	"time"

	"github.com/google/uuid"

	"gorm.io/gorm"
)

// Booking GORM model. Clock fields are stored as "HH:MM" strings; they are
// always written through schedule.FormatClock.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Reference string    `gorm:"type:varchar(30);uniqueIndex;not null"`

	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"type:varchar(150);not null"`
	CustomerEmail string     `gorm:"type:varchar(150)"`
	CustomerPhone string     `gorm:"type:varchar(30)"`
	InstructorID  *uuid.UUID `gorm:"type:uuid;index"`
	ServiceID     uuid.UUID  `gorm:"type:uuid;not null"`

	Date            time.Time `gorm:"type:date;not null;index:idx_bookings_date_status,priority:1"`
	StartTime       string    `gorm:"type:varchar(5);not null"`
	DurationMinutes int       `gorm:"not null"`
	EndTime         string    `gorm:"type:varchar(5);not null"`

	TotalAmount   float64 `gorm:"type:decimal(10,2);default:0"`
	PaymentStatus string  `gorm:"type:varchar(30);default:'unpaid'"`
	Status        string  `gorm:"type:varchar(20);default:'pending';index:idx_bookings_date_status,priority:2"`

	CheckedIn   bool `gorm:"default:false"`
	CheckedInAt *time.Time

	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancellationReason string     `gorm:"type:text"`
	RefundAmount       float64    `gorm:"type:decimal(10,2);default:0"`
	ReschedulingFee    float64    `gorm:"type:decimal(10,2);default:0"`

	RescheduledTo   *uuid.UUID `gorm:"type:uuid"`
	RescheduledFrom *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relations
	Customer   *User   `gorm:"foreignKey:CustomerID"`
	Instructor *User   `gorm:"foreignKey:InstructorID"`
	Service    Service `gorm:"foreignKey:ServiceID"`
}

func (Booking) TableName() string {
	return "bookings"
}
