package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancellationPolicy GORM model for the policy tier table.
type CancellationPolicy struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PolicyType         string    `gorm:"type:varchar(20);not null;index"` // cancellation, rescheduling
	HoursBeforeBooking int       `gorm:"not null"`
	Percentage         float64   `gorm:"type:decimal(5,2);not null"`
	Active             bool      `gorm:"default:true;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (CancellationPolicy) TableName() string {
	return "cancellation_policies"
}
