package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog GORM model. Append-only: rows are never updated or deleted, so
// there is no UpdatedAt or soft-delete column.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID     *uuid.UUID     `gorm:"type:uuid;index"`
	Action      string         `gorm:"type:varchar(50);not null;index"`
	EntityType  string         `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity,priority:1"`
	EntityID    uuid.UUID      `gorm:"type:uuid;index:idx_audit_logs_entity,priority:2"`
	Description string         `gorm:"type:text;not null"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
