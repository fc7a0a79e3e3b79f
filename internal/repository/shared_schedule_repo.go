package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-maker/backend/internal/model"
)

// SharedScheduleRepository 分享课表数据访问接口
type SharedScheduleRepository interface {
	Create(ctx context.Context, shared *model.SharedSchedule) error
	GetByID(ctx context.Context, id string) (*model.SharedSchedule, error)
	GetByCode(ctx context.Context, code string) (*model.SharedSchedule, error)
}

type sharedScheduleRepo struct {
	db *gorm.DB
}

// NewSharedScheduleRepo 创建 SharedScheduleRepository 实例
func NewSharedScheduleRepo(db *gorm.DB) SharedScheduleRepository {
	return &sharedScheduleRepo{db: db}
}

func (r *sharedScheduleRepo) Create(ctx context.Context, shared *model.SharedSchedule) error {
	return r.db.WithContext(ctx).Create(shared).Error
}

func (r *sharedScheduleRepo) GetByID(ctx context.Context, id string) (*model.SharedSchedule, error) {
	var shared model.SharedSchedule
	err := r.db.WithContext(ctx).
		Where("shared_schedule_id = ?", id).
		First(&shared).Error
	if err != nil {
		return nil, err
	}
	return &shared, nil
}

func (r *sharedScheduleRepo) GetByCode(ctx context.Context, code string) (*model.SharedSchedule, error) {
	var shared model.SharedSchedule
	err := r.db.WithContext(ctx).
		Where("share_code = ?", code).
		First(&shared).Error
	if err != nil {
		return nil, err
	}
	return &shared, nil
}
