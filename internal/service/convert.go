package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/model"
)

// ── 载荷转换 ──
//
// 入口处完成两项归一化：day_of_week 统一为 0=周一 的整数，
// 时间字符串校验失败回退哨兵值并告警。此后引擎内部只见单一表示。

// convertCombinationPayloads 将外部组合载荷转为领域模型
func convertCombinationPayloads(payloads []dto.CombinationPayload, logger *zap.Logger) []model.ScheduleCombination {
	combinations := make([]model.ScheduleCombination, 0, len(payloads))
	for _, p := range payloads {
		combinations = append(combinations, convertCombinationPayload(p, logger))
	}
	return combinations
}

func convertCombinationPayload(p dto.CombinationPayload, logger *zap.Logger) model.ScheduleCombination {
	courses := make([]model.CourseSection, 0, len(p.Courses))
	for _, course := range p.Courses {
		sessions := make([]model.Session, 0, len(course.Sessions))
		for _, sp := range course.Sessions {
			sessions = append(sessions, convertSessionPayload(sp, logger))
		}
		courses = append(courses, model.CourseSection{
			CourseID:      course.CourseID,
			CourseCode:    course.CourseCode,
			CourseName:    course.CourseName,
			SectionID:     course.SectionID,
			SectionNumber: course.SectionNumber,
			Professor:     course.Professor,
			Sessions:      sessions,
		})
	}
	return model.ScheduleCombination{
		CombinationID: p.CombinationID,
		CourseCount:   len(courses), // 派生值，不信任载荷自带的计数
		Courses:       courses,
	}
}

func convertSessionPayload(sp dto.SessionPayload, logger *zap.Logger) model.Session {
	day := normalizeDay(sp.DayOfWeek)
	if day == model.UnplaceableDay {
		logger.Warn("无法识别的星期值，会话将不参与冲突检测与渲染",
			zap.Any("day_of_week", sp.DayOfWeek),
			zap.String("session_id", sp.ID),
		)
	}
	if _, ok := parseClock(sp.StartTime); !ok {
		logger.Warn("非法开始时间，回退到哨兵值",
			zap.String("start_time", sp.StartTime),
			zap.String("session_id", sp.ID),
		)
	}
	if _, ok := parseClock(sp.EndTime); !ok {
		logger.Warn("非法结束时间，回退到哨兵值",
			zap.String("end_time", sp.EndTime),
			zap.String("session_id", sp.ID),
		)
	}

	id := sp.ID
	if id == "" {
		id = uuid.New().String()
	}

	return model.Session{
		ID:          id,
		Day:         day,
		StartTime:   minutesToTime(timeToMinutes(sp.StartTime)),
		EndTime:     minutesToTime(timeToMinutes(sp.EndTime)),
		Location:    sp.Location,
		SessionType: sp.SessionType,
		Modality:    sp.Modality,
	}
}

// ── 响应转换 ──

const timestampLayout = "2006-01-02T15:04:05Z"

func toComparisonResponse(c *model.ScheduleComparison) *dto.ComparisonResponse {
	participants := make([]dto.ParticipantResponse, 0, len(c.Participants))
	for i := range c.Participants {
		p := &c.Participants[i]
		participants = append(participants, dto.ParticipantResponse{
			ID:           p.ID,
			Name:         p.Name,
			Color:        p.Color,
			IsVisible:    p.IsVisible,
			Combinations: toCombinationResponses(p.Combinations),
		})
	}

	// 按参与者加入顺序输出活动组合映射，保证响应稳定
	selected := make([]dto.SelectedCombination, 0, len(c.ActiveCombinations))
	for i := range c.Participants {
		if combinationID, ok := c.ActiveCombinations[c.Participants[i].ID]; ok {
			selected = append(selected, dto.SelectedCombination{
				ParticipantID: c.Participants[i].ID,
				CombinationID: combinationID,
			})
		}
	}

	conflicts := make([]dto.ConflictResponse, 0, len(c.Conflicts))
	for _, conflict := range c.Conflicts {
		affected := make([]dto.AffectedSessionResponse, 0, len(conflict.AffectedSessions))
		for _, s := range conflict.AffectedSessions {
			affected = append(affected, dto.AffectedSessionResponse{
				ParticipantID: s.ParticipantID,
				CombinationID: s.CombinationID,
				SessionID:     s.SessionID,
				CourseCode:    s.CourseCode,
				CourseName:    s.CourseName,
			})
		}
		conflicts = append(conflicts, dto.ConflictResponse{
			Type:         conflict.Type,
			Participants: conflict.Participants,
			TimeSlot: dto.ConflictTimeSlotResponse{
				Day:       conflict.TimeSlot.Day,
				StartTime: conflict.TimeSlot.StartTime,
				EndTime:   conflict.TimeSlot.EndTime,
			},
			AffectedSessions: affected,
		})
	}

	return &dto.ComparisonResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Participants:         participants,
		SelectedCombinations: selected,
		Conflicts:            conflicts,
		CreatedAt:            c.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:            c.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func toCombinationResponses(combinations []model.ScheduleCombination) []dto.CombinationResponse {
	result := make([]dto.CombinationResponse, 0, len(combinations))
	for _, combination := range combinations {
		courses := make([]dto.CourseResponse, 0, len(combination.Courses))
		for _, course := range combination.Courses {
			sessions := make([]dto.SessionResponse, 0, len(course.Sessions))
			for _, s := range course.Sessions {
				sessions = append(sessions, dto.SessionResponse{
					ID:          s.ID,
					Day:         s.Day,
					StartTime:   s.StartTime,
					EndTime:     s.EndTime,
					Location:    s.Location,
					SessionType: s.SessionType,
					Modality:    s.Modality,
				})
			}
			courses = append(courses, dto.CourseResponse{
				CourseCode:    course.CourseCode,
				CourseName:    course.CourseName,
				SectionID:     course.SectionID,
				SectionNumber: course.SectionNumber,
				Professor:     course.Professor,
				Sessions:      sessions,
			})
		}
		result = append(result, dto.CombinationResponse{
			CombinationID: combination.CombinationID,
			CourseCount:   combination.CourseCount,
			Courses:       courses,
		})
	}
	return result
}
