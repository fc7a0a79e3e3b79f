package service

import "schedule-maker/backend/internal/model"

// ── 冲突检测器 ──
//
// 输入：聚合中所有可见且已选中活动组合的参与者。
// 算法：展平 (参与者, 组合, 会话) 三元组后做 O(S²) 无序两两比对，
// 仅比较不同参与者之间的会话；同一参与者自身的重叠不构成冲突。
// 命中的重叠按"三元组 i 的精确时段"归并进既有冲突记录，
// 新建冲突的代表时段取两个会话的交集窗口而非并集。
// 每次调用整体替换旧冲突列表，无增量比对。

// sessionTriple 展平后的比对单元
type sessionTriple struct {
	participantID string
	combinationID string
	courseCode    string
	courseName    string
	session       model.Session
}

// flattenVisibleSessions 展平可见参与者活动组合内的全部会话
// 无活动选择、或选中的组合不在候选列表中的参与者静默跳过
func flattenVisibleSessions(c *model.ScheduleComparison) []sessionTriple {
	var triples []sessionTriple
	for i := range c.Participants {
		p := &c.Participants[i]
		if !p.IsVisible {
			continue
		}
		combinationID, ok := c.ActiveCombinations[p.ID]
		if !ok {
			continue
		}
		combination := p.FindCombination(combinationID)
		if combination == nil {
			continue
		}
		for _, course := range combination.Courses {
			for _, session := range course.Sessions {
				triples = append(triples, sessionTriple{
					participantID: p.ID,
					combinationID: combinationID,
					courseCode:    course.CourseCode,
					courseName:    course.CourseName,
					session:       session,
				})
			}
		}
	}
	return triples
}

// detectConflicts 重算整个聚合的冲突列表
func detectConflicts(c *model.ScheduleComparison) []model.ComparisonConflict {
	triples := flattenVisibleSessions(c)

	conflicts := make([]model.ComparisonConflict, 0)
	for i := 0; i < len(triples); i++ {
		for j := i + 1; j < len(triples); j++ {
			if triples[i].participantID == triples[j].participantID {
				continue
			}
			if !sessionsOverlap(triples[i].session, triples[j].session) {
				continue
			}
			conflicts = mergeOverlap(conflicts, triples[i], triples[j])
		}
	}
	return conflicts
}

// mergeOverlap 将一对重叠会话并入冲突列表
// 以三元组 i 的精确日/起止时间为归并键：命中则补全缺失的
// 参与者与会话；未命中则以两会话的交集窗口新建冲突
func mergeOverlap(conflicts []model.ComparisonConflict, i, j sessionTriple) []model.ComparisonConflict {
	day := i.session.Day
	slotStart := minutesToTime(timeToMinutes(i.session.StartTime))
	slotEnd := minutesToTime(timeToMinutes(i.session.EndTime))

	for idx := range conflicts {
		existing := &conflicts[idx]
		if existing.TimeSlot.Day != day ||
			existing.TimeSlot.StartTime != slotStart ||
			existing.TimeSlot.EndTime != slotEnd {
			continue
		}
		unionSession(existing, i)
		unionSession(existing, j)
		return conflicts
	}

	overlapStart := maxInt(timeToMinutes(i.session.StartTime), timeToMinutes(j.session.StartTime))
	overlapEnd := minInt(timeToMinutes(i.session.EndTime), timeToMinutes(j.session.EndTime))

	conflict := model.ComparisonConflict{
		Type:         model.ConflictTypeTimeOverlap,
		Participants: []string{i.participantID, j.participantID},
		TimeSlot: model.ConflictTimeSlot{
			Day:       day,
			StartTime: minutesToTime(overlapStart),
			EndTime:   minutesToTime(overlapEnd),
		},
		AffectedSessions: []model.AffectedSession{
			toAffectedSession(i),
			toAffectedSession(j),
		},
	}
	return append(conflicts, conflict)
}

// unionSession 将三元组并入冲突（参与者与会话均去重）
func unionSession(conflict *model.ComparisonConflict, t sessionTriple) {
	for _, s := range conflict.AffectedSessions {
		if s.ParticipantID == t.participantID &&
			s.CombinationID == t.combinationID &&
			s.SessionID == t.session.ID {
			return
		}
	}
	conflict.AffectedSessions = append(conflict.AffectedSessions, toAffectedSession(t))
	if !conflict.ContainsParticipant(t.participantID) {
		conflict.Participants = append(conflict.Participants, t.participantID)
	}
}

func toAffectedSession(t sessionTriple) model.AffectedSession {
	return model.AffectedSession{
		ParticipantID: t.participantID,
		CombinationID: t.combinationID,
		SessionID:     t.session.ID,
		CourseCode:    t.courseCode,
		CourseName:    t.courseName,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
