package repository

import (
	"context"

	"l2lsales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]model.AuditLog, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}
