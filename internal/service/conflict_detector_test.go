package service

import (
	"testing"

	"schedule-maker/backend/internal/model"
)

// singleSessionParticipant 构造只有一个单会话组合的参与者
func singleSessionParticipant(id string, day int, start, end string) model.ComparisonParticipant {
	return model.ComparisonParticipant{
		ID:        id,
		Name:      id,
		Color:     participantPalette[0],
		IsVisible: true,
		Combinations: []model.ScheduleCombination{
			{
				CombinationID: id + "-combo",
				CourseCount:   1,
				Courses: []model.CourseSection{
					{
						CourseCode: "CS101",
						CourseName: "算法导论",
						SectionID:  id + "-sec",
						Sessions: []model.Session{
							{ID: id + "-sess", Day: day, StartTime: start, EndTime: end},
						},
					},
				},
			},
		},
	}
}

func comparisonOf(participants ...model.ComparisonParticipant) *model.ScheduleComparison {
	c := &model.ScheduleComparison{
		ID:                 "cmp-1",
		Name:               "测试对比",
		Participants:       participants,
		ActiveCombinations: map[string]string{},
		Conflicts:          []model.ComparisonConflict{},
	}
	for _, p := range participants {
		if len(p.Combinations) > 0 {
			c.ActiveCombinations[p.ID] = p.Combinations[0].CombinationID
		}
	}
	return c
}

func TestDetectConflictsPartialOverlap(t *testing.T) {
	// Alice 周一 09:00–10:30，Bob 周一 10:00–11:00 → 恰好一个冲突
	c := comparisonOf(
		singleSessionParticipant("alice", 0, "09:00", "10:30"),
		singleSessionParticipant("bob", 0, "10:00", "11:00"),
	)

	conflicts := detectConflicts(c)
	if len(conflicts) != 1 {
		t.Fatalf("期望 1 个冲突, 实际 %d", len(conflicts))
	}

	conflict := conflicts[0]
	if conflict.Type != model.ConflictTypeTimeOverlap {
		t.Errorf("冲突类型 = %s, 期望 %s", conflict.Type, model.ConflictTypeTimeOverlap)
	}
	// 代表时段取交集窗口
	if conflict.TimeSlot.Day != 0 || conflict.TimeSlot.StartTime != "10:00" || conflict.TimeSlot.EndTime != "10:30" {
		t.Errorf("代表时段 = %+v, 期望 周一 10:00–10:30", conflict.TimeSlot)
	}
	if !conflict.ContainsParticipant("alice") || !conflict.ContainsParticipant("bob") {
		t.Errorf("冲突参与者 = %v, 期望包含 alice 与 bob", conflict.Participants)
	}
	if len(conflict.AffectedSessions) != 2 {
		t.Errorf("卷入会话数 = %d, 期望 2", len(conflict.AffectedSessions))
	}
}

func TestDetectConflictsTouchingSessionsNoConflict(t *testing.T) {
	// 首尾相接：Alice 09:00–10:30，Bob 10:30–11:30 → 无冲突
	c := comparisonOf(
		singleSessionParticipant("alice", 0, "09:00", "10:30"),
		singleSessionParticipant("bob", 0, "10:30", "11:30"),
	)

	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("首尾相接不应产生冲突, 实际 %d 个", len(conflicts))
	}
}

func TestDetectConflictsThreeWayMerge(t *testing.T) {
	// 三人同一时段（周二 14:00–15:00）→ 归并为一个三方冲突
	c := comparisonOf(
		singleSessionParticipant("alice", 1, "14:00", "15:00"),
		singleSessionParticipant("bob", 1, "14:00", "15:00"),
		singleSessionParticipant("carol", 1, "14:00", "15:00"),
	)

	conflicts := detectConflicts(c)
	if len(conflicts) != 1 {
		t.Fatalf("三方同时段应归并为 1 个冲突, 实际 %d", len(conflicts))
	}

	conflict := conflicts[0]
	if len(conflict.Participants) != 3 {
		t.Errorf("冲突参与者数 = %d, 期望 3", len(conflict.Participants))
	}
	for _, id := range []string{"alice", "bob", "carol"} {
		if !conflict.ContainsParticipant(id) {
			t.Errorf("冲突应包含参与者 %s", id)
		}
	}
	if len(conflict.AffectedSessions) != 3 {
		t.Errorf("卷入会话数 = %d, 期望 3", len(conflict.AffectedSessions))
	}
}

func TestDetectConflictsSwitchingActiveCombinationDropsConflict(t *testing.T) {
	// Alice 有两个候选组合：X 与 Bob 冲突，Y 不冲突
	alice := singleSessionParticipant("alice", 0, "09:00", "10:30")
	alice.Combinations = append(alice.Combinations, model.ScheduleCombination{
		CombinationID: "alice-combo-y",
		CourseCount:   1,
		Courses: []model.CourseSection{
			{
				CourseCode: "CS102",
				CourseName: "操作系统",
				SectionID:  "alice-sec-y",
				Sessions: []model.Session{
					{ID: "alice-sess-y", Day: 2, StartTime: "09:00", EndTime: "10:30"},
				},
			},
		},
	})
	c := comparisonOf(alice, singleSessionParticipant("bob", 0, "10:00", "11:00"))

	if conflicts := detectConflicts(c); len(conflicts) != 1 {
		t.Fatalf("切换前期望 1 个冲突, 实际 %d", len(conflicts))
	}

	// 切换活动组合后重算，旧冲突整体消失
	c.ActiveCombinations["alice"] = "alice-combo-y"
	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("切换到无冲突组合后应为 0 个冲突, 实际 %d", len(conflicts))
	}
}

func TestDetectConflictsNoSelfConflict(t *testing.T) {
	// 同一参与者自身的重叠会话不构成冲突
	alice := singleSessionParticipant("alice", 0, "09:00", "10:30")
	alice.Combinations[0].Courses = append(alice.Combinations[0].Courses, model.CourseSection{
		CourseCode: "CS103",
		CourseName: "数据库系统",
		SectionID:  "alice-sec-2",
		Sessions: []model.Session{
			{ID: "alice-sess-2", Day: 0, StartTime: "09:30", EndTime: "11:00"},
		},
	})
	c := comparisonOf(alice)

	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("同一参与者自身重叠不应产生冲突, 实际 %d 个", len(conflicts))
	}
}

func TestDetectConflictsSkipsHiddenAndUnselected(t *testing.T) {
	alice := singleSessionParticipant("alice", 0, "09:00", "10:30")
	bob := singleSessionParticipant("bob", 0, "10:00", "11:00")
	c := comparisonOf(alice, bob)

	// 隐藏参与者不参与检测
	c.Participants[1].IsVisible = false
	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("隐藏参与者不应参与冲突检测, 实际 %d 个冲突", len(conflicts))
	}

	// 恢复可见但清除活动选择，同样不参与
	c.Participants[1].IsVisible = true
	delete(c.ActiveCombinations, "bob")
	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("无活动组合的参与者不应参与冲突检测, 实际 %d 个冲突", len(conflicts))
	}

	// 选择指向不存在的组合，静默跳过
	c.ActiveCombinations["bob"] = "no-such-combo"
	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("活动组合不存在时应静默跳过, 实际 %d 个冲突", len(conflicts))
	}
}

func TestDetectConflictsUnplaceableDaySkipped(t *testing.T) {
	c := comparisonOf(
		singleSessionParticipant("alice", model.UnplaceableDay, "09:00", "10:30"),
		singleSessionParticipant("bob", model.UnplaceableDay, "09:00", "10:30"),
	)

	if conflicts := detectConflicts(c); len(conflicts) != 0 {
		t.Errorf("不可定位会话不应产生冲突, 实际 %d 个", len(conflicts))
	}
}

func TestDetectConflictsIdempotent(t *testing.T) {
	c := comparisonOf(
		singleSessionParticipant("alice", 0, "09:00", "10:30"),
		singleSessionParticipant("bob", 0, "10:00", "11:00"),
	)

	first := detectConflicts(c)
	c.Conflicts = first
	second := detectConflicts(c)

	if len(first) != len(second) {
		t.Fatalf("重复检测结果应一致: %d vs %d", len(first), len(second))
	}
	if len(second) == 1 && len(second[0].AffectedSessions) != len(first[0].AffectedSessions) {
		t.Error("重复检测不应累积卷入会话")
	}
}
