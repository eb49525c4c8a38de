package contract

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *entity.CancellationPolicy) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationPolicy, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationPolicy, error)
	Update(ctx context.Context, policy *entity.CancellationPolicy) error
	Delete(ctx context.Context, id uuid.UUID) error
}
