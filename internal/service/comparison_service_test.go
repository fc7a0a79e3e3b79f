package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"schedule-maker/backend/internal/dto"
)

// payloadOf 构造单课程单会话的组合载荷
// day 刻意保留 interface{}：同时覆盖字符串与整数两种历史编码
func payloadOf(combinationID string, day interface{}, start, end string) dto.CombinationPayload {
	return dto.CombinationPayload{
		CombinationID: combinationID,
		Courses: []dto.CoursePayload{
			{
				CourseCode: "CS101",
				CourseName: "算法导论",
				SectionID:  combinationID + "-sec",
				Sessions: []dto.SessionPayload{
					{ID: combinationID + "-sess", DayOfWeek: day, StartTime: start, EndTime: end},
				},
			},
		},
	}
}

func TestCreateAndGetComparison(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "期末选课对比"})
	if err != nil {
		t.Fatalf("创建对比失败: %v", err)
	}
	if created.ID == "" {
		t.Fatal("创建的对比应有 ID")
	}
	if len(created.Participants) != 0 || len(created.Conflicts) != 0 {
		t.Error("新建对比应无参与者无冲突")
	}

	got, err := env.svc.Comparison.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("获取对比失败: %v", err)
	}
	if got.Name != "期末选课对比" {
		t.Errorf("对比名 = %s, 期望 期末选课对比", got.Name)
	}
}

func TestGetComparisonNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Comparison.Get(context.Background(), "no-such-comparison")
	if !errors.Is(err, ErrComparisonNotFound) {
		t.Errorf("期望 ErrComparisonNotFound, 实际 %v", err)
	}
}

func TestAddParticipantAssignsColorAndVisibility(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})

	resp, err := env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID:        "alice",
		Name:      "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", "Monday", "09:00", "10:30")},
	})
	if err != nil {
		t.Fatalf("添加参与者失败: %v", err)
	}
	if len(resp.Participants) != 1 {
		t.Fatalf("参与者数 = %d, 期望 1", len(resp.Participants))
	}

	p := resp.Participants[0]
	if p.Color != participantPalette[0] {
		t.Errorf("首个参与者颜色 = %s, 期望 %s", p.Color, participantPalette[0])
	}
	if !p.IsVisible {
		t.Error("新参与者应默认可见")
	}
	// day_of_week 字符串在入口归一化为整数下标
	if day := p.Combinations[0].Courses[0].Sessions[0].Day; day != 0 {
		t.Errorf("Monday 应归一化为 0, 实际 %d", day)
	}

	// 重复参与者拒绝加入
	_, err = env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID:        "alice",
		Name:      "Alice 分身",
		Schedules: []dto.CombinationPayload{payloadOf("combo-z", 0, "08:00", "09:00")},
	})
	if !errors.Is(err, ErrParticipantExists) {
		t.Errorf("重复参与者应返回 ErrParticipantExists, 实际 %v", err)
	}
}

func TestSetActiveCombinationRecomputesConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "alice", Name: "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", "Monday", "09:00", "10:30")},
	})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "bob", Name: "Bob",
		Schedules: []dto.CombinationPayload{payloadOf("combo-b", "Lunes", "10:00", "11:00")},
	})

	resp, err := env.svc.Comparison.SetActiveCombination(ctx, created.ID, "alice", &dto.SetActiveCombinationRequest{CombinationID: "combo-x"})
	if err != nil {
		t.Fatalf("切换活动组合失败: %v", err)
	}
	if len(resp.Conflicts) != 0 {
		t.Errorf("仅一人选定组合时不应有冲突, 实际 %d 个", len(resp.Conflicts))
	}

	resp, err = env.svc.Comparison.SetActiveCombination(ctx, created.ID, "bob", &dto.SetActiveCombinationRequest{CombinationID: "combo-b"})
	if err != nil {
		t.Fatalf("切换活动组合失败: %v", err)
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("双方选定重叠组合后期望 1 个冲突, 实际 %d", len(resp.Conflicts))
	}
	slot := resp.Conflicts[0].TimeSlot
	if slot.Day != 0 || slot.StartTime != "10:00" || slot.EndTime != "10:30" {
		t.Errorf("冲突代表时段 = %+v, 期望 周一 10:00–10:30", slot)
	}
	if len(resp.SelectedCombinations) != 2 {
		t.Errorf("活动组合映射条目 = %d, 期望 2", len(resp.SelectedCombinations))
	}
}

func TestSetActiveCombinationUnknownIsNoOp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "alice", Name: "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", 0, "09:00", "10:30")},
	})

	// 未知参与者：无操作，快照不变
	resp, err := env.svc.Comparison.SetActiveCombination(ctx, created.ID, "ghost", &dto.SetActiveCombinationRequest{CombinationID: "combo-x"})
	if err != nil {
		t.Fatalf("未知参与者应为无操作而非错误: %v", err)
	}
	if len(resp.SelectedCombinations) != 0 {
		t.Error("未知参与者的切换不应写入活动组合映射")
	}

	// 未知组合：同样无操作
	resp, err = env.svc.Comparison.SetActiveCombination(ctx, created.ID, "alice", &dto.SetActiveCombinationRequest{CombinationID: "no-such-combo"})
	if err != nil {
		t.Fatalf("未知组合应为无操作而非错误: %v", err)
	}
	if len(resp.SelectedCombinations) != 0 {
		t.Error("未知组合的切换不应写入活动组合映射")
	}
}

func TestToggleVisibilityClearsConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "alice", Name: "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", 0, "09:00", "10:30")},
	})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "bob", Name: "Bob",
		Schedules: []dto.CombinationPayload{payloadOf("combo-b", 0, "10:00", "11:00")},
	})
	env.svc.Comparison.SetActiveCombination(ctx, created.ID, "alice", &dto.SetActiveCombinationRequest{CombinationID: "combo-x"})
	env.svc.Comparison.SetActiveCombination(ctx, created.ID, "bob", &dto.SetActiveCombinationRequest{CombinationID: "combo-b"})

	resp, err := env.svc.Comparison.ToggleVisibility(ctx, created.ID, "bob")
	if err != nil {
		t.Fatalf("翻转可见性失败: %v", err)
	}
	if resp.Participants[1].IsVisible {
		t.Error("翻转后 bob 应不可见")
	}
	if len(resp.Conflicts) != 0 {
		t.Errorf("隐藏冲突方后冲突应清空, 实际 %d 个", len(resp.Conflicts))
	}

	// 再翻转回来，冲突重新出现
	resp, _ = env.svc.Comparison.ToggleVisibility(ctx, created.ID, "bob")
	if len(resp.Conflicts) != 1 {
		t.Errorf("恢复可见后冲突应重现, 实际 %d 个", len(resp.Conflicts))
	}
}

func TestRemoveParticipantDropsSelectionAndConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "alice", Name: "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", 0, "09:00", "10:30")},
	})
	env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "bob", Name: "Bob",
		Schedules: []dto.CombinationPayload{payloadOf("combo-b", 0, "10:00", "11:00")},
	})
	env.svc.Comparison.SetActiveCombination(ctx, created.ID, "alice", &dto.SetActiveCombinationRequest{CombinationID: "combo-x"})
	env.svc.Comparison.SetActiveCombination(ctx, created.ID, "bob", &dto.SetActiveCombinationRequest{CombinationID: "combo-b"})

	resp, err := env.svc.Comparison.RemoveParticipant(ctx, created.ID, "bob")
	if err != nil {
		t.Fatalf("移除参与者失败: %v", err)
	}
	if len(resp.Participants) != 1 || resp.Participants[0].ID != "alice" {
		t.Errorf("移除后应只剩 alice, 实际 %+v", resp.Participants)
	}
	if len(resp.Conflicts) != 0 {
		t.Errorf("移除冲突方后冲突应清空, 实际 %d 个", len(resp.Conflicts))
	}
	if len(resp.SelectedCombinations) != 1 {
		t.Errorf("移除后活动组合映射应只剩 1 条, 实际 %d", len(resp.SelectedCombinations))
	}

	// 再移除不存在的参与者：无操作
	resp, err = env.svc.Comparison.RemoveParticipant(ctx, created.ID, "bob")
	if err != nil {
		t.Fatalf("移除不存在的参与者应为无操作: %v", err)
	}
	if len(resp.Participants) != 1 {
		t.Error("无操作不应改变参与者列表")
	}
}

func TestImportParticipantFromShareCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	share, err := env.svc.Share.Publish(ctx, &dto.CreateShareRequest{
		OwnerName:    "Carol",
		Combinations: []dto.CombinationPayload{payloadOf("combo-c", "周三", "14:00", "16:00")},
	})
	if err != nil {
		t.Fatalf("发布分享失败: %v", err)
	}

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	resp, err := env.svc.Comparison.ImportParticipant(ctx, created.ID, &dto.ImportParticipantRequest{Code: share.ShareCode})
	if err != nil {
		t.Fatalf("凭分享码导入失败: %v", err)
	}
	if len(resp.Participants) != 1 {
		t.Fatalf("导入后参与者数 = %d, 期望 1", len(resp.Participants))
	}
	if resp.Participants[0].Name != "Carol" {
		t.Errorf("导入的参与者名 = %s, 期望 Carol", resp.Participants[0].Name)
	}
	if day := resp.Participants[0].Combinations[0].Courses[0].Sessions[0].Day; day != 2 {
		t.Errorf("周三应归一化为 2, 实际 %d", day)
	}

	// 无效分享码：聚合不变
	_, err = env.svc.Comparison.ImportParticipant(ctx, created.ID, &dto.ImportParticipantRequest{Code: "FFFFFFFF"})
	if !errors.Is(err, ErrShareNotFound) {
		t.Errorf("无效分享码期望 ErrShareNotFound, 实际 %v", err)
	}
	after, _ := env.svc.Comparison.Get(ctx, created.ID)
	if len(after.Participants) != 1 {
		t.Error("导入失败不应改变聚合")
	}
}

func TestUpdatedAtAdvancesOnMutation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, _ := env.svc.Comparison.Create(ctx, &dto.CreateComparisonRequest{Name: "对比"})
	resp, err := env.svc.Comparison.AddParticipant(ctx, created.ID, &dto.AddParticipantRequest{
		ID: "alice", Name: "Alice",
		Schedules: []dto.CombinationPayload{payloadOf("combo-x", 0, "09:00", "10:30")},
	})
	if err != nil {
		t.Fatalf("添加参与者失败: %v", err)
	}
	if strings.Compare(resp.UpdatedAt, created.UpdatedAt) < 0 {
		t.Errorf("变更后 updated_at 不应回退: %s < %s", resp.UpdatedAt, created.UpdatedAt)
	}
	if resp.CreatedAt != created.CreatedAt {
		t.Errorf("created_at 不应随变更改变: %s != %s", resp.CreatedAt, created.CreatedAt)
	}
}
