package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"schedule-maker/backend/internal/model"
)

// ── ICS 导入器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为一个候选组合。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与时间，星期归一化为 0=周一
//   - 同 SUMMARY 的事件合并为一个课程班次，会话按 日+起止时间 去重
//   - 周日事件与缺失时间的事件静默跳过（对比网格只覆盖周一至周六）
//   - 不解析 RRULE 周次：对比引擎只关心每周例行时段
// ─────────────────────────────────────────────────────────────

// parseCombinationICS 解析 ICS 内容为候选组合
func parseCombinationICS(reader io.Reader, combinationID string) (*model.ScheduleCombination, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSParseFailed, err)
	}

	type sectionKey struct{ summary string }
	sections := make(map[sectionKey]*model.CourseSection)
	var order []sectionKey

	for _, evt := range cal.Events() {
		summaryProp := evt.GetProperty(ics.ComponentPropertySummary)
		if summaryProp == nil || strings.TrimSpace(summaryProp.Value) == "" {
			continue
		}
		summary := strings.TrimSpace(summaryProp.Value)

		dtStart, err := evt.GetStartAt()
		if err != nil {
			continue
		}
		dtEnd, err := evt.GetEndAt()
		if err != nil {
			continue
		}

		day := goWeekdayToDay(dtStart.Weekday())
		if day == model.UnplaceableDay {
			continue
		}

		location := ""
		if locProp := evt.GetProperty(ics.ComponentPropertyLocation); locProp != nil {
			location = strings.TrimSpace(locProp.Value)
		}

		key := sectionKey{summary: summary}
		section, ok := sections[key]
		if !ok {
			section = &model.CourseSection{
				CourseCode: courseCodeFromSummary(summary),
				CourseName: summary,
				SectionID:  uuid.New().String(),
			}
			sections[key] = section
			order = append(order, key)
		}

		session := model.Session{
			ID:        uuid.New().String(),
			Day:       day,
			StartTime: dtStart.Format("15:04"),
			EndTime:   dtEnd.Format("15:04"),
			Location:  location,
		}
		if hasEquivalentSession(section.Sessions, session) {
			continue // 同课程重复周次的事件只保留一次
		}
		section.Sessions = append(section.Sessions, session)
	}

	courses := make([]model.CourseSection, 0, len(order))
	for _, key := range order {
		courses = append(courses, *sections[key])
	}
	if len(courses) == 0 {
		return nil, ErrICSNoWeeklySessions
	}

	return &model.ScheduleCombination{
		CombinationID: combinationID,
		CourseCount:   len(courses),
		Courses:       courses,
	}, nil
}

// goWeekdayToDay Go 星期转 0=周一 下标；周日不可定位
func goWeekdayToDay(wd time.Weekday) int {
	if wd == time.Sunday {
		return model.UnplaceableDay
	}
	return int(wd) - 1
}

// hasEquivalentSession 判断是否已存在同 日+起止时间 的会话
func hasEquivalentSession(sessions []model.Session, candidate model.Session) bool {
	for _, s := range sessions {
		if s.Day == candidate.Day && s.StartTime == candidate.StartTime && s.EndTime == candidate.EndTime {
			return true
		}
	}
	return false
}

// courseCodeFromSummary 从事件标题提取课程代码
// 约定标题形如 "CS2031 - 数据结构"，无法切分时整体作为代码
func courseCodeFromSummary(summary string) string {
	if idx := strings.IndexAny(summary, "-–"); idx > 0 {
		return strings.TrimSpace(summary[:idx])
	}
	if fields := strings.Fields(summary); len(fields) > 0 {
		return fields[0]
	}
	return summary
}
