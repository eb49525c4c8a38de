package implementation

import (
	"context"
	"time"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/model"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.RefundRecord) error {
	return r.db.WithContext(ctx).Create(&model.RefundRecord{
		ID:        refund.ID,
		BookingID: refund.BookingID,
		Amount:    refund.Amount,
		Reason:    refund.Reason,
		Method:    refund.Method,
		Status:    string(refund.Status),
		Notes:     refund.Notes,
	}).Error
}

func (r *refundRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRecord, error) {
	var mr model.RefundRecord
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&mr), nil
}

func (r *refundRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRecord, error) {
	var mrs []*model.RefundRecord
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&mrs).Error; err != nil {
		return nil, err
	}

	refunds := make([]*entity.RefundRecord, 0, len(mrs))
	for _, mr := range mrs {
		refunds = append(refunds, r.mapToEntity(mr))
	}

	return refunds, nil
}

func (r *refundRepositoryImpl) MarkProcessed(ctx context.Context, id uuid.UUID, notes string) error {
	return r.db.WithContext(ctx).Model(&model.RefundRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(entity.RefundStatusProcessed),
			"notes":      notes,
			"updated_at": time.Now(),
		}).Error
}

func (r *refundRepositoryImpl) mapToEntity(mr *model.RefundRecord) *entity.RefundRecord {
	return &entity.RefundRecord{
		ID:        mr.ID,
		BookingID: mr.BookingID,
		Amount:    mr.Amount,
		Reason:    mr.Reason,
		Method:    mr.Method,
		Status:    entity.RefundStatus(mr.Status),
		Notes:     mr.Notes,
		CreatedAt: mr.CreatedAt,
		UpdatedAt: mr.UpdatedAt,
	}
}
