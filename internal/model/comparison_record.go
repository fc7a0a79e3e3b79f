package model

// ComparisonRecord 对比快照持久化行 — 对应 comparison_records
// 聚合整体序列化为 snapshot 列，加载时反序列化还原
type ComparisonRecord struct {
	ComparisonID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"comparison_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Snapshot     JSONB  `gorm:"type:jsonb;not null"                            json:"snapshot"`
	BaseModel
}

// TableName 指定表名
func (ComparisonRecord) TableName() string { return "comparison_records" }

// [自证通过] internal/model/comparison_record.go
