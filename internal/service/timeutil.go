package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"schedule-maker/backend/internal/model"
)

// ── 时间与星期工具 ──
//
// 对比与渲染路径上不允许抛错：非法时间回退到 08:00 哨兵值，
// 非法星期标记为不可定位并跳过，保证画面永不因脏数据崩溃。

// sentinelMinutes 非法时间字符串的回退值（08:00）
const sentinelMinutes = 8 * 60

// parseClock 严格解析 "HH:MM"（可带秒），失败返回 false
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// timeToMinutes 宽容解析 "HH:MM"，非法输入回退哨兵值
func timeToMinutes(s string) int {
	if m, ok := parseClock(s); ok {
		return m
	}
	return sentinelMinutes
}

// minutesToTime 分钟偏移转 "HH:MM"（两位零填充，24 小时制）
func minutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// sessionsOverlap 判断两个会话是否在同一天的墙钟时间上重叠
// 半开区间判定：恰好首尾相接不算重叠
func sessionsOverlap(a, b model.Session) bool {
	if a.Day < 0 || b.Day < 0 || a.Day != b.Day {
		return false
	}
	startA, endA := timeToMinutes(a.StartTime), timeToMinutes(a.EndTime)
	startB, endB := timeToMinutes(b.StartTime), timeToMinutes(b.EndTime)
	return startA < endB && startB < endA
}

// ── 星期归一化 ──
//
// 历史载荷中 day_of_week 既有星期名字符串也有整数下标，
// 统一归一化为 0=周一 … 5=周六；周日及无法识别的值归为不可定位。

var weekdayNames = map[string]int{
	// 英文
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5,
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5,
	// 西文（原始数据源）
	"lunes": 0, "martes": 1, "miercoles": 2, "miércoles": 2,
	"jueves": 3, "viernes": 4, "sabado": 5, "sábado": 5,
	// 中文
	"周一": 0, "周二": 1, "周三": 2, "周四": 3, "周五": 4, "周六": 5,
}

// normalizeDay 将任意表示的星期归一化为 0=周一 的下标
// 返回 model.UnplaceableDay 表示该值无法定位到周一至周六
func normalizeDay(v interface{}) int {
	switch d := v.(type) {
	case string:
		name := strings.ToLower(strings.TrimSpace(d))
		if idx, ok := weekdayNames[name]; ok {
			return idx
		}
		// 数字字符串按整数下标处理
		if n, err := strconv.Atoi(name); err == nil {
			return normalizeDayIndex(n)
		}
	case float64:
		return normalizeDayIndex(int(d))
	case int:
		return normalizeDayIndex(d)
	case json.Number:
		if n, err := d.Int64(); err == nil {
			return normalizeDayIndex(int(n))
		}
	}
	return model.UnplaceableDay
}

// normalizeDayIndex 整数下标统一按 0 基解释（0=周一 … 5=周六）
func normalizeDayIndex(n int) int {
	if n >= 0 && n <= 5 {
		return n
	}
	return model.UnplaceableDay
}

// dayLabels 网格列标签（周一至周六）
var dayLabels = []string{"周一", "周二", "周三", "周四", "周五", "周六"}
