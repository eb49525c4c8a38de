package contract

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/specification"
)

// AuditLogRepository is append-only: entries are never updated or deleted.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLogEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
