package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schedule-maker/backend/internal/model"
)

// ComparisonRepository 对比快照数据访问接口
// 刻意保持窄：引擎只需要整体保存与整体加载
type ComparisonRepository interface {
	Save(ctx context.Context, record *model.ComparisonRecord) error
	GetByID(ctx context.Context, id string) (*model.ComparisonRecord, error)
}

type comparisonRepo struct {
	db *gorm.DB
}

// NewComparisonRepo 创建 ComparisonRepository 实例
func NewComparisonRepo(db *gorm.DB) ComparisonRepository {
	return &comparisonRepo{db: db}
}

func (r *comparisonRepo) Save(ctx context.Context, record *model.ComparisonRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comparison_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "snapshot", "updated_at"}),
		}).
		Create(record).Error
}

func (r *comparisonRepo) GetByID(ctx context.Context, id string) (*model.ComparisonRecord, error) {
	var record model.ComparisonRecord
	err := r.db.WithContext(ctx).
		Where("comparison_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
