package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schedule-maker/backend/config"
	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/model"
	"schedule-maker/backend/internal/repository"
)

// ── 网格模块业务错误 ──

var ErrGridGenerateFail = errors.New("生成 Excel 文件失败")

// ── GridService 接口 ────────────────────────────────────────
//
// 设计说明：
//   - 布局计算与绘制分离：buildGridLayout 是快照的纯函数，
//     不依赖任何绘图上下文，可独立单测；Excel 绘制只消费布局结果。
//   - 时间范围可随请求调整，不改动底层数据；整点或非整点均可。
//   - 完全或部分越出范围的会话直接省略（裁剪），不做压缩。
// ─────────────────────────────────────────────────────────────

// GridService 周视图网格业务接口
type GridService interface {
	// Layout 计算对比的周视图布局
	Layout(ctx context.Context, comparisonID string, q *dto.GridQuery) (*dto.GridLayoutResponse, error)
	// ExportXLSX 将周视图导出为 Excel
	ExportXLSX(ctx context.Context, comparisonID string, q *dto.GridQuery) (*bytes.Buffer, string, error)
}

type gridService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGridService 创建 GridService 实例
func NewGridService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) GridService {
	return &gridService{cfg: cfg, repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Layout — 周视图布局
// ════════════════════════════════════════════════════════════

func (s *gridService) Layout(ctx context.Context, comparisonID string, q *dto.GridQuery) (*dto.GridLayoutResponse, error) {
	comparison, err := loadSnapshot(ctx, s.repo, s.logger, comparisonID)
	if err != nil {
		return nil, err
	}

	startMin, endMin := s.resolveRange(q)
	return buildGridLayout(comparison, startMin, endMin), nil
}

// resolveRange 解析请求的时间范围，非法或缺省时回退配置默认值
func (s *gridService) resolveRange(q *dto.GridQuery) (int, int) {
	startMin, ok := parseClock(s.cfg.Grid.StartTime)
	if !ok {
		startMin = 7 * 60
	}
	endMin, ok := parseClock(s.cfg.Grid.EndTime)
	if !ok {
		endMin = 22 * 60
	}

	if q != nil {
		if m, ok := parseClock(q.StartTime); ok {
			startMin = m
		}
		if m, ok := parseClock(q.EndTime); ok {
			endMin = m
		}
	}
	if endMin <= startMin {
		startMin, endMin = 7*60, 22*60
	}
	return startMin, endMin
}

// buildGridLayout 纯布局计算：周一至周六 × [startMin, endMin) 分钟范围
// 块按 (日, 距网格起点分钟数) 定位、按时长定尺寸；被冲突引用的会话
// （participant_id + session_id 匹配）统一填保留冲突色
func buildGridLayout(c *model.ScheduleComparison, startMin, endMin int) *dto.GridLayoutResponse {
	// 冲突会话索引
	inConflict := make(map[string]bool)
	for _, conflict := range c.Conflicts {
		for _, s := range conflict.AffectedSessions {
			inConflict[s.ParticipantID+"\x00"+s.SessionID] = true
		}
	}

	blocks := make([]dto.GridBlockResponse, 0)
	for i := range c.Participants {
		p := &c.Participants[i]
		if !p.IsVisible {
			continue
		}
		combination := c.ActiveCombination(p.ID)
		if combination == nil {
			continue
		}
		for _, course := range combination.Courses {
			for _, session := range course.Sessions {
				if session.Day < 0 || session.Day > 5 {
					continue // 不可定位的会话不渲染
				}
				sessStart := timeToMinutes(session.StartTime)
				sessEnd := timeToMinutes(session.EndTime)
				// 越出范围的会话整体省略，不压缩
				if sessStart < startMin || sessEnd > endMin || sessEnd <= sessStart {
					continue
				}

				color := p.Color
				conflicted := inConflict[p.ID+"\x00"+session.ID]
				if conflicted {
					color = conflictColor
				}

				blocks = append(blocks, dto.GridBlockResponse{
					Day:             session.Day,
					StartMinute:     sessStart - startMin,
					EndMinute:       sessEnd - startMin,
					StartTime:       session.StartTime,
					EndTime:         session.EndTime,
					Color:           color,
					IsConflict:      conflicted,
					CourseName:      course.CourseName,
					ParticipantID:   p.ID,
					ParticipantName: p.Name,
					SessionID:       session.ID,
					Location:        session.Location,
				})
			}
		}
	}

	// 稳定输出：按日、起始时间、参与者排序
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Day != blocks[j].Day {
			return blocks[i].Day < blocks[j].Day
		}
		if blocks[i].StartMinute != blocks[j].StartMinute {
			return blocks[i].StartMinute < blocks[j].StartMinute
		}
		return blocks[i].ParticipantID < blocks[j].ParticipantID
	})

	// 行刻度：每小时一行，末行支持不足一小时
	hourMarks := make([]string, 0, (endMin-startMin)/60+1)
	for m := startMin; m < endMin; m += 60 {
		hourMarks = append(hourMarks, minutesToTime(m))
	}

	return &dto.GridLayoutResponse{
		StartTime: minutesToTime(startMin),
		EndTime:   minutesToTime(endMin),
		Days:      append([]string(nil), dayLabels...),
		HourMarks: hourMarks,
		Blocks:    blocks,
	}
}

// ════════════════════════════════════════════════════════════
// ExportXLSX — 周视图导出为 Excel
// ════════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "周视图"
//   - 行头：小时刻度；列头：周一 ~ 周六
//   - 会话块跨越其覆盖的小时行，按参与者颜色填充，冲突块填保留色
//   - 块文本："课程名 / 参与者名"，同格多块以换行分隔

func (s *gridService) ExportXLSX(ctx context.Context, comparisonID string, q *dto.GridQuery) (*bytes.Buffer, string, error) {
	comparison, err := loadSnapshot(ctx, s.repo, s.logger, comparisonID)
	if err != nil {
		return nil, "", err
	}

	startMin, endMin := s.resolveRange(q)
	layout := buildGridLayout(comparison, startMin, endMin)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周视图"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrGridGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "G", 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头：A1 留时间列，B1..G1 为星期
	f.SetCellValue(sheetName, "A1", comparison.Name)
	for day, label := range layout.Days {
		col := colName(day + 1)
		f.SetCellValue(sheetName, cell(col, 1), label)
		f.SetCellStyle(sheetName, cell(col, 1), cell(col, 1), headerStyle)
	}
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 小时刻度列
	for i, mark := range layout.HourMarks {
		f.SetCellValue(sheetName, cell("A", i+2), mark)
	}

	// 会话块：填充覆盖的小时行，文本写入起始行
	fillStyles := make(map[string]int)
	for _, block := range layout.Blocks {
		style, ok := fillStyles[block.Color]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Color: []string{block.Color}, Pattern: 1},
				Font:      &excelize.Font{Color: "#FFFFFF", Size: 9},
				Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			})
			if err != nil {
				return nil, "", ErrGridGenerateFail
			}
			fillStyles[block.Color] = style
		}

		col := colName(block.Day + 1)
		firstRow := block.StartMinute/60 + 2
		lastRow := (block.EndMinute-1)/60 + 2
		f.SetCellStyle(sheetName, cell(col, firstRow), cell(col, lastRow), style)

		// 块标签：冲突块同色，课程名 + 参与者名保证可区分
		label := fmt.Sprintf("%s / %s", block.CourseName, block.ParticipantName)
		target := cell(col, firstRow)
		if existing, _ := f.GetCellValue(sheetName, target); existing != "" {
			label = existing + "\n" + label
		}
		f.SetCellValue(sheetName, target, label)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrGridGenerateFail
	}

	filename := fmt.Sprintf("对比_%s.xlsx", comparison.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
