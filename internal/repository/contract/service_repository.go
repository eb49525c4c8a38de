package contract

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/specification"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
}
