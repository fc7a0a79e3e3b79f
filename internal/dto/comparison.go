package dto

// ── 对比模块请求 ──

// CreateComparisonRequest 创建对比请求
type CreateComparisonRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SessionPayload 会话载荷
// day_of_week 兼容两种历史编码：星期名字符串（中/英/西）或整数下标，
// 在 Service 入口统一归一化为 0=周一 的整数
type SessionPayload struct {
	ID          string      `json:"id"`
	DayOfWeek   interface{} `json:"day_of_week" binding:"required"`
	StartTime   string      `json:"start_time" binding:"required"`
	EndTime     string      `json:"end_time" binding:"required"`
	Location    string      `json:"location"`
	SessionType string      `json:"session_type"`
	Modality    string      `json:"modality"`
}

// CoursePayload 课程班次载荷
type CoursePayload struct {
	CourseID      string           `json:"course_id"`
	CourseCode    string           `json:"course_code" binding:"required"`
	CourseName    string           `json:"course_name" binding:"required"`
	SectionID     string           `json:"section_id" binding:"required"`
	SectionNumber string           `json:"section_number"`
	Professor     string           `json:"professor"`
	Sessions      []SessionPayload `json:"sessions" binding:"required,dive"`
}

// CombinationPayload 候选组合载荷
type CombinationPayload struct {
	CombinationID string          `json:"combination_id" binding:"required"`
	CourseCount   int             `json:"course_count"`
	Courses       []CoursePayload `json:"courses" binding:"required,dive"`
}

// AddParticipantRequest 添加参与者请求
// 颜色与可见性由引擎分配，客户端不可指定
type AddParticipantRequest struct {
	ID        string               `json:"id" binding:"required,max=64"`
	Name      string               `json:"name" binding:"required,max=100"`
	Schedules []CombinationPayload `json:"schedules" binding:"required,min=1,dive"`
}

// ImportParticipantRequest 凭分享码导入参与者请求
type ImportParticipantRequest struct {
	Code string `json:"code" binding:"required,max=512"` // 短分享码或分享令牌
}

// SetActiveCombinationRequest 切换活动组合请求
type SetActiveCombinationRequest struct {
	CombinationID string `json:"combination_id" binding:"required"`
}

// ── 对比模块响应 ──

// SessionResponse 会话响应（day 已归一化）
type SessionResponse struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location,omitempty"`
	SessionType string `json:"session_type,omitempty"`
	Modality    string `json:"modality,omitempty"`
}

// CourseResponse 课程班次响应
type CourseResponse struct {
	CourseCode    string            `json:"course_code"`
	CourseName    string            `json:"course_name"`
	SectionID     string            `json:"section_id"`
	SectionNumber string            `json:"section_number,omitempty"`
	Professor     string            `json:"professor,omitempty"`
	Sessions      []SessionResponse `json:"sessions"`
}

// CombinationResponse 候选组合响应
type CombinationResponse struct {
	CombinationID string           `json:"combination_id"`
	CourseCount   int              `json:"course_count"`
	Courses       []CourseResponse `json:"courses"`
}

// ParticipantResponse 参与者响应
type ParticipantResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Color        string                `json:"color"`
	IsVisible    bool                  `json:"is_visible"`
	Combinations []CombinationResponse `json:"combinations"`
}

// SelectedCombination 活动组合映射项
type SelectedCombination struct {
	ParticipantID string `json:"participant_id"`
	CombinationID string `json:"combination_id"`
}

// ConflictTimeSlotResponse 冲突代表时段
type ConflictTimeSlotResponse struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AffectedSessionResponse 卷入冲突的会话
type AffectedSessionResponse struct {
	ParticipantID string `json:"participant_id"`
	CombinationID string `json:"combination_id"`
	SessionID     string `json:"session_id"`
	CourseCode    string `json:"course_code"`
	CourseName    string `json:"course_name"`
}

// ConflictResponse 冲突记录响应
type ConflictResponse struct {
	Type             string                    `json:"type"`
	Participants     []string                  `json:"participants"`
	TimeSlot         ConflictTimeSlotResponse  `json:"time_slot"`
	AffectedSessions []AffectedSessionResponse `json:"affected_sessions"`
}

// ComparisonResponse 对比快照响应
type ComparisonResponse struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Participants         []ParticipantResponse `json:"participants"`
	SelectedCombinations []SelectedCombination `json:"selected_combinations"`
	Conflicts            []ConflictResponse    `json:"conflicts"`
	CreatedAt            string                `json:"created_at"`
	UpdatedAt            string                `json:"updated_at"`
}
