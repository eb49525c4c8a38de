package implementation

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/model"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/pkg/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type policyRepositoryImpl struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) contract.PolicyRepository {
	return &policyRepositoryImpl{db: db}
}

func (r *policyRepositoryImpl) Create(ctx context.Context, p *entity.CancellationPolicy) error {
	return r.db.WithContext(ctx).Create(&model.CancellationPolicy{
		ID:                 p.ID,
		PolicyType:         string(p.PolicyType),
		HoursBeforeBooking: p.HoursBeforeBooking,
		Percentage:         p.Percentage,
		Active:             p.Active,
	}).Error
}

func (r *policyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationPolicy, error) {
	var mp model.CancellationPolicy
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&mp), nil
}

func (r *policyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationPolicy, error) {
	var mps []*model.CancellationPolicy
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&mps).Error; err != nil {
		return nil, err
	}

	policies := make([]*entity.CancellationPolicy, 0, len(mps))
	for _, mp := range mps {
		policies = append(policies, r.mapToEntity(mp))
	}

	return policies, nil
}

func (r *policyRepositoryImpl) Update(ctx context.Context, p *entity.CancellationPolicy) error {
	return r.db.WithContext(ctx).Model(&model.CancellationPolicy{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"hours_before_booking": p.HoursBeforeBooking,
			"percentage":           p.Percentage,
			"active":               p.Active,
		}).Error
}

func (r *policyRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CancellationPolicy{}, id).Error
}

func (r *policyRepositoryImpl) mapToEntity(mp *model.CancellationPolicy) *entity.CancellationPolicy {
	return &entity.CancellationPolicy{
		ID:                 mp.ID,
		PolicyType:         policy.Type(mp.PolicyType),
		HoursBeforeBooking: mp.HoursBeforeBooking,
		Percentage:         mp.Percentage,
		Active:             mp.Active,
		CreatedAt:          mp.CreatedAt,
		UpdatedAt:          mp.UpdatedAt,
	}
}
