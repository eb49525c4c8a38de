package service

import (
	"context"

	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/mapper"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
)

type IAuditService interface {
	ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]dto.AuditLogResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory) IAuditService {
	return &auditService{
		uowFactory: uowFactory,
	}
}

func (s *auditService) ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]dto.AuditLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.AuditLogRepository().FindAll(ctx,
		specification.ByEntity{EntityType: "booking", EntityID: bookingID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapper.ToAuditLogResponse(e))
	}
	return out, nil
}

func (s *auditService) List(ctx context.Context, page, limit int) ([]dto.AuditLogResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.AuditLogRepository().Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	entries, err := uow.AuditLogRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapper.ToAuditLogResponse(e))
	}
	return out, total, nil
}
