package dto

// ── 周视图网格 ──

// GridQuery 网格时间范围查询参数（缺省走配置默认值）
type GridQuery struct {
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
}

// GridBlockResponse 网格中的一个会话块
// 冲突会话统一填充保留冲突色，其余按参与者颜色填充
type GridBlockResponse struct {
	Day             int    `json:"day"`          // 0=周一 … 5=周六
	StartMinute     int    `json:"start_minute"` // 相对网格起点的分钟偏移
	EndMinute       int    `json:"end_minute"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Color           string `json:"color"`
	IsConflict      bool   `json:"is_conflict"`
	CourseName      string `json:"course_name"`
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	SessionID       string `json:"session_id"`
	Location        string `json:"location,omitempty"`
}

// GridLayoutResponse 周视图布局
type GridLayoutResponse struct {
	StartTime string              `json:"start_time"`
	EndTime   string              `json:"end_time"`
	Days      []string            `json:"days"`       // 周一 … 周六
	HourMarks []string            `json:"hour_marks"` // 网格行刻度，含不足一小时的末行
	Blocks    []GridBlockResponse `json:"blocks"`
}
