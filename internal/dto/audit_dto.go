package dto

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID          uuid.UUID              `json:"id"`
	ActorID     *uuid.UUID             `json:"actor_id,omitempty"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    uuid.UUID              `json:"entity_id"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
