package model

import "time"

// ── 课表对比聚合 ──
//
// ScheduleComparison 是对比引擎的聚合根：参与者按加入顺序排列，
// 每个参与者至多选中一个活动组合，冲突列表在每次可见性/选择变更后
// 整体重算（无增量比对）。持久化时整个聚合序列化为 JSONB 快照，
// 引擎本身不感知存储。

// ConflictTypeTimeOverlap 目前唯一的冲突类型
const ConflictTypeTimeOverlap = "time_overlap"

// ComparisonParticipant 对比参与者（本人、好友或凭分享码导入的陌生人）
type ComparisonParticipant struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Color        string                `json:"color"`      // 加入时分配，生命周期内不变
	IsVisible    bool                  `json:"is_visible"` // 默认 true
	Combinations []ScheduleCombination `json:"combinations"`
}

// FindCombination 按组合 ID 查找参与者的候选组合
func (p *ComparisonParticipant) FindCombination(combinationID string) *ScheduleCombination {
	for i := range p.Combinations {
		if p.Combinations[i].CombinationID == combinationID {
			return &p.Combinations[i]
		}
	}
	return nil
}

// ConflictTimeSlot 冲突的代表时段：日 + 重叠区间的交集
type ConflictTimeSlot struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AffectedSession 卷入冲突的单个会话
type AffectedSession struct {
	ParticipantID string `json:"participant_id"`
	CombinationID string `json:"combination_id"`
	SessionID     string `json:"session_id"`
	CourseCode    string `json:"course_code"`
	CourseName    string `json:"course_name"`
}

// ComparisonConflict 派生冲突记录
// 不变式：Participants 集合基数 ≥2，且与 AffectedSessions 中
// 出现的去重参与者 ID 完全一致
type ComparisonConflict struct {
	Type             string            `json:"type"`
	Participants     []string          `json:"participants"`
	TimeSlot         ConflictTimeSlot  `json:"time_slot"`
	AffectedSessions []AffectedSession `json:"affected_sessions"`
}

// ContainsParticipant 判断冲突是否涉及指定参与者
func (c *ComparisonConflict) ContainsParticipant(participantID string) bool {
	for _, id := range c.Participants {
		if id == participantID {
			return true
		}
	}
	return false
}

// ScheduleComparison 对比聚合根
type ScheduleComparison struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Participants       []ComparisonParticipant `json:"participants"`
	ActiveCombinations map[string]string       `json:"active_combinations"` // participantID → combinationID
	Conflicts          []ComparisonConflict    `json:"conflicts"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// FindParticipant 按 ID 精确查找参与者，未找到返回 nil
func (c *ScheduleComparison) FindParticipant(participantID string) *ComparisonParticipant {
	for i := range c.Participants {
		if c.Participants[i].ID == participantID {
			return &c.Participants[i]
		}
	}
	return nil
}

// ActiveCombination 返回参与者当前活动组合；无选择或选择失效时返回 nil
func (c *ScheduleComparison) ActiveCombination(participantID string) *ScheduleCombination {
	combinationID, ok := c.ActiveCombinations[participantID]
	if !ok {
		return nil
	}
	p := c.FindParticipant(participantID)
	if p == nil {
		return nil
	}
	return p.FindCombination(combinationID)
}

// [自证通过] internal/model/comparison.go
