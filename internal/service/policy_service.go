package service

import (
	"context"

	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/mapper"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/repository/memory"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/pkg/policy"
)

type IPolicyService interface {
	// ActiveTiers returns the active tier table for the refund/fee engine,
	// served from cache when possible.
	ActiveTiers(ctx context.Context) ([]policy.Tier, error)
	List(ctx context.Context) ([]dto.PolicyResponse, error)
	Create(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error)
	Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type policyService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.PolicyCache
}

func NewPolicyService(uowFactory unitofwork.RepositoryFactory, cache *memory.PolicyCache) IPolicyService {
	return &policyService{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func (s *policyService) ActiveTiers(ctx context.Context) ([]policy.Tier, error) {
	if cached, found := s.cache.Get(); found {
		return entity.Tiers(cached), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	policies, err := uow.PolicyRepository().FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}

	s.cache.Save(policies)
	return entity.Tiers(policies), nil
}

func (s *policyService) List(ctx context.Context) ([]dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policies, err := uow.PolicyRepository().FindAll(ctx,
		specification.OrderBy{Field: "policy_type"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, mapper.ToPolicyResponse(p))
	}
	return out, nil
}

func (s *policyService) Create(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error) {
	tier := &entity.CancellationPolicy{
		ID:                 uuid.New(),
		PolicyType:         policy.Type(req.PolicyType),
		HoursBeforeBooking: req.HoursBeforeBooking,
		Percentage:         req.Percentage,
		Active:             req.Active,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PolicyRepository().Create(ctx, tier); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	res := mapper.ToPolicyResponse(tier)
	return &res, nil
}

func (s *policyService) Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tier, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: req.ID})
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, apperror.NotFound("policy tier %s not found", req.ID)
	}

	if req.HoursBeforeBooking != nil {
		tier.HoursBeforeBooking = *req.HoursBeforeBooking
	}
	if req.Percentage != nil {
		tier.Percentage = *req.Percentage
	}
	if req.Active != nil {
		tier.Active = *req.Active
	}

	if err := uow.PolicyRepository().Update(ctx, tier); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	res := mapper.ToPolicyResponse(tier)
	return &res, nil
}

func (s *policyService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tier, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tier == nil {
		return apperror.NotFound("policy tier %s not found", id)
	}

	if err := uow.PolicyRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}
