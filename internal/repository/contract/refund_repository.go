package contract

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *entity.RefundRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRecord, error)
	// MarkProcessed flips a pending record once the payment provider
	// reports the money moved.
	MarkProcessed(ctx context.Context, id uuid.UUID, notes string) error
}
