package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering (lesson type, studio rental).
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
