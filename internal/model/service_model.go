package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string    `gorm:"type:varchar(150);not null"`
	Description     string    `gorm:"type:text"`
	Price           float64   `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int       `gorm:"not null;default:60"`
	Active          bool      `gorm:"default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Service) TableName() string {
	return "services"
}
