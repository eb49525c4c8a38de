package implementation

import (
	"context"
	"encoding/json"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/model"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type auditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &auditLogRepositoryImpl{db: db}
}

func (r *auditLogRepositoryImpl) Create(ctx context.Context, entry *entity.AuditLogEntry) error {
	var meta datatypes.JSON
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		meta = datatypes.JSON(raw)
	}

	return r.db.WithContext(ctx).Create(&model.AuditLog{
		ID:          entry.ID,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    meta,
	}).Error
}

func (r *auditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error) {
	var mls []*model.AuditLog
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&mls).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.AuditLogEntry, 0, len(mls))
	for _, ml := range mls {
		var meta map[string]interface{}
		if len(ml.Metadata) > 0 {
			// Metadata is written by Create from a map, malformed rows
			// are surfaced as nil metadata rather than failing the read.
			_ = json.Unmarshal(ml.Metadata, &meta)
		}
		entries = append(entries, &entity.AuditLogEntry{
			ID:          ml.ID,
			ActorID:     ml.ActorID,
			Action:      ml.Action,
			EntityType:  ml.EntityType,
			EntityID:    ml.EntityID,
			Description: ml.Description,
			Metadata:    meta,
			CreatedAt:   ml.CreatedAt,
		})
	}

	return entries, nil
}

func (r *auditLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.AuditLog{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}
