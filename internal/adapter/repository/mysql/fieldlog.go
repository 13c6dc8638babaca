package mysql

import (
	"context"

	"gorm.io/gorm"

	logDomain "agriloan-backend/internal/domain/fieldlog"
)

type FieldLogRepository struct{ db *gorm.DB }

func NewFieldLogRepository(db *gorm.DB) *FieldLogRepository { return &FieldLogRepository{db: db} }

func (r *FieldLogRepository) Create(ctx context.Context, f *logDomain.FieldLog) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FieldLogRepository) GetByLogID(ctx context.Context, logID string) (*logDomain.FieldLog, error) {
	var out logDomain.FieldLog
	res := r.db.WithContext(ctx).Where("log_id = ?", logID).First(&out)
	return &out, res.Error
}

func (r *FieldLogRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]logDomain.FieldLog, error) {
	var out []logDomain.FieldLog
	res := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("logged_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
