package mysql

import (
	"context"

	"coop-lending/internal/domain/adminlog"

	"gorm.io/gorm"
)

type AdminLogRepository struct{ db *gorm.DB }

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository { return &AdminLogRepository{db: db} }

func (r *AdminLogRepository) Create(ctx context.Context, e *adminlog.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AdminLogRepository) List(ctx context.Context, limit int) ([]adminlog.Entry, error) {
	var out []adminlog.Entry
	res := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out)
	return out, res.Error
}
