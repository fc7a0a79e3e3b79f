package service

import "schedule-maker/backend/internal/model"

// ── 参与者配色 ──

// conflictColor 冲突会话的保留填充色，不在参与者调色板中
const conflictColor = "#E53E3E"

// participantPalette 参与者调色板（固定顺序，视觉可区分）
var participantPalette = []string{
	"#3B82F6", // 蓝
	"#10B981", // 绿
	"#F59E0B", // 橙
	"#8B5CF6", // 紫
	"#EC4899", // 粉
	"#14B8A6", // 青
	"#F97316", // 深橙
	"#6366F1", // 靛
	"#84CC16", // 黄绿
	"#0EA5E9", // 天蓝
}

// nextColor 为新参与者分配颜色
// 优先返回未被占用的第一个调色板颜色；调色板耗尽后按
// 参与者数量取模复用（可接受的退化，不视为错误）
func nextColor(existing []model.ComparisonParticipant) string {
	used := make(map[string]bool, len(existing))
	for _, p := range existing {
		used[p.Color] = true
	}
	for _, color := range participantPalette {
		if !used[color] {
			return color
		}
	}
	return participantPalette[len(existing)%len(participantPalette)]
}
