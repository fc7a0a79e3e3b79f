package service

import (
	"testing"

	"schedule-maker/backend/internal/model"
)

func TestNextColorDistinctWithinPalette(t *testing.T) {
	var participants []model.ComparisonParticipant
	seen := make(map[string]bool)

	for i := 0; i < len(participantPalette); i++ {
		color := nextColor(participants)
		if seen[color] {
			t.Fatalf("第 %d 个参与者分到重复颜色 %s", i+1, color)
		}
		if color == conflictColor {
			t.Fatalf("调色板不应包含保留冲突色 %s", conflictColor)
		}
		seen[color] = true
		participants = append(participants, model.ComparisonParticipant{Color: color})
	}
}

func TestNextColorReusesAfterExhaustion(t *testing.T) {
	var participants []model.ComparisonParticipant
	for i := 0; i < len(participantPalette); i++ {
		participants = append(participants, model.ComparisonParticipant{Color: nextColor(participants)})
	}

	// 调色板耗尽后按取模复用，仍必须来自调色板
	color := nextColor(participants)
	if color != participantPalette[len(participants)%len(participantPalette)] {
		t.Errorf("耗尽后应按取模复用, 实际 %s", color)
	}
}

func TestNextColorSkipsOccupied(t *testing.T) {
	// 移除中间参与者后，其颜色应被下一个新参与者复用
	participants := []model.ComparisonParticipant{
		{Color: participantPalette[0]},
		{Color: participantPalette[2]},
	}
	if got := nextColor(participants); got != participantPalette[1] {
		t.Errorf("应优先分配未占用的第一个颜色 %s, 实际 %s", participantPalette[1], got)
	}
}
