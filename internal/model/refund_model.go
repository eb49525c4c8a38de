package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundRecord GORM model. Amount is signed: negative rows are fees owed
// by the customer (rescheduling), positive rows are money returned.
type RefundRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount    float64   `gorm:"type:decimal(10,2);not null"`
	Reason    string    `gorm:"type:varchar(50);not null"`
	Method    string    `gorm:"type:varchar(50)"`
	Status    string    `gorm:"type:varchar(20);default:'pending';index"` // pending, processed
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relations
	Booking Booking `gorm:"foreignKey:BookingID"`
}

func (RefundRecord) TableName() string {
	return "refund_records"
}
