package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/model"
	"schedule-maker/backend/internal/repository"
)

// ── 对比模块业务错误 ──

var (
	ErrComparisonNotFound  = errors.New("对比不存在")
	ErrParticipantExists   = errors.New("参与者已在对比中")
	ErrICSParseFailed      = errors.New("ICS 文件解析失败")
	ErrICSNoWeeklySessions = errors.New("ICS 文件中未发现有效课程事件")
)

// ── ComparisonService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 聚合整体以 JSONB 快照持久化，每次变更操作走
//     "加载快照 → 纯函数变更 → 整体重算冲突 → 整体保存"，
//     无增量比对。调用方负责串行化同一对比上的变更。
//   - 未知参与者/组合 ID 的变更是无操作而非错误：界面不应发出
//     这类请求，但防御路径也不允许崩溃。
//   - 参与者颜色在加入时由调色板分配，此后保持不变。
// ─────────────────────────────────────────────────────────────

// ComparisonService 对比模块业务接口
type ComparisonService interface {
	// Create 创建空对比
	Create(ctx context.Context, req *dto.CreateComparisonRequest) (*dto.ComparisonResponse, error)
	// Get 获取对比快照
	Get(ctx context.Context, comparisonID string) (*dto.ComparisonResponse, error)
	// AddParticipant 添加参与者（携带候选组合）
	AddParticipant(ctx context.Context, comparisonID string, req *dto.AddParticipantRequest) (*dto.ComparisonResponse, error)
	// ImportParticipant 凭分享码导入参与者
	ImportParticipant(ctx context.Context, comparisonID string, req *dto.ImportParticipantRequest) (*dto.ComparisonResponse, error)
	// RemoveParticipant 移除参与者
	RemoveParticipant(ctx context.Context, comparisonID, participantID string) (*dto.ComparisonResponse, error)
	// SetActiveCombination 切换参与者的活动组合并重算冲突
	SetActiveCombination(ctx context.Context, comparisonID, participantID string, req *dto.SetActiveCombinationRequest) (*dto.ComparisonResponse, error)
	// ToggleVisibility 翻转参与者可见性并重算冲突
	ToggleVisibility(ctx context.Context, comparisonID, participantID string) (*dto.ComparisonResponse, error)
	// AddCombinationICS 从 ICS 文件为参与者追加一个候选组合
	AddCombinationICS(ctx context.Context, comparisonID, participantID string, reader io.Reader) (*dto.ComparisonResponse, error)
}

type comparisonService struct {
	repo     *repository.Repository
	shareSvc ShareService
	logger   *zap.Logger
}

// NewComparisonService 创建 ComparisonService 实例
func NewComparisonService(repo *repository.Repository, shareSvc ShareService, logger *zap.Logger) ComparisonService {
	return &comparisonService{repo: repo, shareSvc: shareSvc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 创建空对比
// ════════════════════════════════════════════════════════════

func (s *comparisonService) Create(ctx context.Context, req *dto.CreateComparisonRequest) (*dto.ComparisonResponse, error) {
	now := time.Now()
	comparison := &model.ScheduleComparison{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Participants:       []model.ComparisonParticipant{},
		ActiveCombinations: map[string]string{},
		Conflicts:          []model.ComparisonConflict{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return nil, err
	}

	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// Get — 获取对比快照
// ════════════════════════════════════════════════════════════

func (s *comparisonService) Get(ctx context.Context, comparisonID string) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}
	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// AddParticipant — 添加参与者
// ════════════════════════════════════════════════════════════

func (s *comparisonService) AddParticipant(ctx context.Context, comparisonID string, req *dto.AddParticipantRequest) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	combinations := convertCombinationPayloads(req.Schedules, s.logger)
	if err := s.appendParticipant(ctx, comparison, req.ID, req.Name, combinations); err != nil {
		return nil, err
	}

	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// ImportParticipant — 凭分享码导入参与者
// ════════════════════════════════════════════════════════════
//
// 分享解析失败（码不存在/已过期）属可恢复错误，
// 对比聚合保持不变，由 Handler 层转为用户可见提示

func (s *comparisonService) ImportParticipant(ctx context.Context, comparisonID string, req *dto.ImportParticipantRequest) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.shareSvc.Resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if err := s.appendParticipant(ctx, comparison, resolved.ShareID, resolved.OwnerName, resolved.Combinations); err != nil {
		return nil, err
	}

	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// RemoveParticipant — 移除参与者
// ════════════════════════════════════════════════════════════

func (s *comparisonService) RemoveParticipant(ctx context.Context, comparisonID, participantID string) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	// 未知参与者：无操作
	if comparison.FindParticipant(participantID) == nil {
		return toComparisonResponse(comparison), nil
	}

	participants := comparison.Participants[:0]
	for _, p := range comparison.Participants {
		if p.ID != participantID {
			participants = append(participants, p)
		}
	}
	comparison.Participants = participants
	delete(comparison.ActiveCombinations, participantID)
	comparison.Conflicts = detectConflicts(comparison)
	comparison.UpdatedAt = time.Now()

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return nil, err
	}
	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// SetActiveCombination — 切换活动组合
// ════════════════════════════════════════════════════════════
//
// 覆盖式写入（last selection wins），无历史记录；
// 写入后对整个对比重算并替换冲突列表

func (s *comparisonService) SetActiveCombination(ctx context.Context, comparisonID, participantID string, req *dto.SetActiveCombinationRequest) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	// 未知参与者或未知组合：无操作
	participant := comparison.FindParticipant(participantID)
	if participant == nil || participant.FindCombination(req.CombinationID) == nil {
		return toComparisonResponse(comparison), nil
	}

	comparison.ActiveCombinations[participantID] = req.CombinationID
	comparison.Conflicts = detectConflicts(comparison)
	comparison.UpdatedAt = time.Now()

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return nil, err
	}
	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// ToggleVisibility — 翻转可见性
// ════════════════════════════════════════════════════════════

func (s *comparisonService) ToggleVisibility(ctx context.Context, comparisonID, participantID string) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	participant := comparison.FindParticipant(participantID)
	if participant == nil {
		return toComparisonResponse(comparison), nil
	}

	participant.IsVisible = !participant.IsVisible
	comparison.Conflicts = detectConflicts(comparison)
	comparison.UpdatedAt = time.Now()

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return nil, err
	}
	return toComparisonResponse(comparison), nil
}

// ════════════════════════════════════════════════════════════
// AddCombinationICS — 从 ICS 追加候选组合
// ════════════════════════════════════════════════════════════
//
// 追加的组合进入候选列表末尾（发现顺序），不会自动成为活动组合，
// 因此无需重算冲突

func (s *comparisonService) AddCombinationICS(ctx context.Context, comparisonID, participantID string, reader io.Reader) (*dto.ComparisonResponse, error) {
	comparison, err := s.load(ctx, comparisonID)
	if err != nil {
		return nil, err
	}

	participant := comparison.FindParticipant(participantID)
	if participant == nil {
		return toComparisonResponse(comparison), nil
	}

	combination, err := parseCombinationICS(reader, uuid.New().String())
	if err != nil {
		s.logger.Error("ICS 解析失败", zap.Error(err))
		return nil, err
	}

	participant.Combinations = append(participant.Combinations, *combination)
	comparison.UpdatedAt = time.Now()

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return nil, err
	}
	return toComparisonResponse(comparison), nil
}

// ── 私有辅助方法 ──

// appendParticipant 追加参与者：加入前从当前参与者列表分配颜色
func (s *comparisonService) appendParticipant(ctx context.Context, comparison *model.ScheduleComparison, id, name string, combinations []model.ScheduleCombination) error {
	if comparison.FindParticipant(id) != nil {
		return ErrParticipantExists
	}

	comparison.Participants = append(comparison.Participants, model.ComparisonParticipant{
		ID:           id,
		Name:         name,
		Color:        nextColor(comparison.Participants),
		IsVisible:    true,
		Combinations: combinations,
	})
	comparison.UpdatedAt = time.Now()

	if err := s.save(ctx, comparison); err != nil {
		s.logger.Error("保存对比快照失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *comparisonService) load(ctx context.Context, comparisonID string) (*model.ScheduleComparison, error) {
	return loadSnapshot(ctx, s.repo, s.logger, comparisonID)
}

func (s *comparisonService) save(ctx context.Context, comparison *model.ScheduleComparison) error {
	return saveSnapshot(ctx, s.repo, comparison)
}

// loadSnapshot 加载并反序列化对比快照（对比与网格服务共用）
func loadSnapshot(ctx context.Context, repo *repository.Repository, logger *zap.Logger, comparisonID string) (*model.ScheduleComparison, error) {
	record, err := repo.Comparison.GetByID(ctx, comparisonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComparisonNotFound
		}
		logger.Error("查询对比快照失败", zap.Error(err))
		return nil, err
	}

	var comparison model.ScheduleComparison
	if err := json.Unmarshal(record.Snapshot, &comparison); err != nil {
		logger.Error("反序列化对比快照失败", zap.Error(err), zap.String("comparison_id", comparisonID))
		return nil, fmt.Errorf("反序列化对比快照失败: %w", err)
	}
	if comparison.ActiveCombinations == nil {
		comparison.ActiveCombinations = map[string]string{}
	}
	return &comparison, nil
}

// saveSnapshot 序列化并整体保存对比快照
func saveSnapshot(ctx context.Context, repo *repository.Repository, comparison *model.ScheduleComparison) error {
	snapshot, err := json.Marshal(comparison)
	if err != nil {
		return fmt.Errorf("序列化对比快照失败: %w", err)
	}
	record := &model.ComparisonRecord{
		ComparisonID: comparison.ID,
		Name:         comparison.Name,
		Snapshot:     model.JSONB(snapshot),
	}
	record.CreatedAt = comparison.CreatedAt
	record.UpdatedAt = comparison.UpdatedAt
	return repo.Comparison.Save(ctx, record)
}
