package implementation

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/model"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"

	"gorm.io/gorm"
)

type serviceRepositoryImpl struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) contract.ServiceRepository {
	return &serviceRepositoryImpl{db: db}
}

func (r *serviceRepositoryImpl) Create(ctx context.Context, service *entity.Service) error {
	return r.db.WithContext(ctx).Create(&model.Service{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		Price:           service.Price,
		DurationMinutes: service.DurationMinutes,
		Active:          service.Active,
	}).Error
}

func (r *serviceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error) {
	var ms model.Service
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&ms).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&ms), nil
}

func (r *serviceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error) {
	var mss []*model.Service
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&mss).Error; err != nil {
		return nil, err
	}

	services := make([]*entity.Service, 0, len(mss))
	for _, ms := range mss {
		services = append(services, r.mapToEntity(ms))
	}

	return services, nil
}

func (r *serviceRepositoryImpl) Update(ctx context.Context, service *entity.Service) error {
	return r.db.WithContext(ctx).Model(&model.Service{}).
		Where("id = ?", service.ID).
		Updates(map[string]interface{}{
			"name":             service.Name,
			"description":      service.Description,
			"price":            service.Price,
			"duration_minutes": service.DurationMinutes,
			"active":           service.Active,
		}).Error
}

func (r *serviceRepositoryImpl) mapToEntity(ms *model.Service) *entity.Service {
	return &entity.Service{
		ID:              ms.ID,
		Name:            ms.Name,
		Description:     ms.Description,
		Price:           ms.Price,
		DurationMinutes: ms.DurationMinutes,
		Active:          ms.Active,
		CreatedAt:       ms.CreatedAt,
		UpdatedAt:       ms.UpdatedAt,
	}
}
