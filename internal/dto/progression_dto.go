package dto

import "github.com/google/uuid"

// PublishXPAwardMessage is the payload of an in-process XP award message.
type PublishXPAwardMessage struct {
	UserID    uuid.UUID `json:"user_id"`
	BookingID uuid.UUID `json:"booking_id"`
	Points    int       `json:"points"`
}
