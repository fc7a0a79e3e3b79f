package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-maker/backend/config"
	"schedule-maker/backend/internal/dto"
	"schedule-maker/backend/internal/model"
	"schedule-maker/backend/internal/repository"
	"schedule-maker/backend/pkg/sharetoken"
)

// ── 分享模块业务错误 ──

var (
	ErrShareNotFound = errors.New("分享码不存在")
	ErrShareExpired  = errors.New("分享已过期")
)

// ShareCache 分享码缓存接口（Redis 实现；Redis 不可用时传 nil 降级）
type ShareCache interface {
	SetShareCode(ctx context.Context, code, shareID string, ttl time.Duration) error
	GetShareCode(ctx context.Context, code string) (string, error)
}

// ResolvedShare 分享解析结果（内部流转用）
type ResolvedShare struct {
	ShareID      string
	OwnerName    string
	Combinations []model.ScheduleCombination
}

// ── ShareService 接口 ───────────────────────────────────────
//
// 设计说明：
//   - 发布时同时产出短分享码与签名令牌：短码走 Redis 快速解析，
//     令牌自包含分享 ID，Redis 淘汰或不可用后仍可解析。
//   - 解析顺序：令牌 → Redis 短码 → 数据库短码兜底。
//   - 过期分享解析为 ErrShareExpired，调用方聚合保持不变。
// ─────────────────────────────────────────────────────────────

// ShareService 分享模块业务接口
type ShareService interface {
	// Publish 发布组合集合，返回分享码与令牌
	Publish(ctx context.Context, req *dto.CreateShareRequest) (*dto.ShareResponse, error)
	// Resolve 凭短分享码或令牌解析分享内容
	Resolve(ctx context.Context, code string) (*ResolvedShare, error)
	// ResolveAsResponse 解析分享并转为对外响应
	ResolveAsResponse(ctx context.Context, code string) (*dto.ResolveShareResponse, error)
}

type shareService struct {
	cfg      *config.Config
	repo     *repository.Repository
	tokenMgr *sharetoken.Manager
	cache    ShareCache
	logger   *zap.Logger
}

// NewShareService 创建 ShareService 实例
func NewShareService(cfg *config.Config, repo *repository.Repository, tokenMgr *sharetoken.Manager, cache ShareCache, logger *zap.Logger) ShareService {
	return &shareService{cfg: cfg, repo: repo, tokenMgr: tokenMgr, cache: cache, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Publish — 发布分享
// ════════════════════════════════════════════════════════════

func (s *shareService) Publish(ctx context.Context, req *dto.CreateShareRequest) (*dto.ShareResponse, error) {
	combinations := convertCombinationPayloads(req.Combinations, s.logger)
	payload, err := json.Marshal(combinations)
	if err != nil {
		return nil, fmt.Errorf("序列化分享内容失败: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.Share.TokenTTL)
	shared := &model.SharedSchedule{
		SharedScheduleID: uuid.New().String(),
		OwnerName:        req.OwnerName,
		ShareCode:        newShareCode(),
		Combinations:     model.JSONB(payload),
		ExpiresAt:        &expiresAt,
	}

	if err := s.repo.SharedSchedule.Create(ctx, shared); err != nil {
		s.logger.Error("创建分享记录失败", zap.Error(err))
		return nil, err
	}

	token, err := s.tokenMgr.Generate(shared.SharedScheduleID, shared.OwnerName)
	if err != nil {
		s.logger.Error("签发分享令牌失败", zap.Error(err))
		return nil, err
	}

	// 缓存失败只降级不中断：短码仍可走数据库兜底解析
	if s.cache != nil {
		if err := s.cache.SetShareCode(ctx, shared.ShareCode, shared.SharedScheduleID, s.cfg.Share.CodeTTL); err != nil {
			s.logger.Warn("缓存分享码失败", zap.Error(err), zap.String("share_code", shared.ShareCode))
		}
	}

	return &dto.ShareResponse{
		ShareID:   shared.SharedScheduleID,
		ShareCode: shared.ShareCode,
		Token:     token,
		ShareURL:  fmt.Sprintf("%s/share/%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), shared.ShareCode),
		ExpiresAt: expiresAt.UTC().Format(timestampLayout),
	}, nil
}

// ════════════════════════════════════════════════════════════
// Resolve — 解析分享
// ════════════════════════════════════════════════════════════

func (s *shareService) Resolve(ctx context.Context, code string) (*ResolvedShare, error) {
	shared, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if shared.Expired(time.Now()) {
		return nil, ErrShareExpired
	}

	var combinations []model.ScheduleCombination
	if err := json.Unmarshal(shared.Combinations, &combinations); err != nil {
		s.logger.Error("反序列化分享内容失败", zap.Error(err), zap.String("share_id", shared.SharedScheduleID))
		return nil, fmt.Errorf("反序列化分享内容失败: %w", err)
	}

	return &ResolvedShare{
		ShareID:      shared.SharedScheduleID,
		OwnerName:    shared.OwnerName,
		Combinations: combinations,
	}, nil
}

// ResolveAsResponse 解析分享并转为对外响应
func (s *shareService) ResolveAsResponse(ctx context.Context, code string) (*dto.ResolveShareResponse, error) {
	resolved, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.ResolveShareResponse{
		ShareID:      resolved.ShareID,
		OwnerName:    resolved.OwnerName,
		Combinations: toCombinationResponses(resolved.Combinations),
	}, nil
}

// lookup 按令牌或短码定位分享记录
func (s *shareService) lookup(ctx context.Context, code string) (*model.SharedSchedule, error) {
	// 含点号的输入视为签名令牌
	if strings.Contains(code, ".") {
		claims, err := s.tokenMgr.Parse(code)
		if err != nil {
			if errors.Is(err, sharetoken.ErrTokenExpired) {
				return nil, ErrShareExpired
			}
			return nil, ErrShareNotFound
		}
		return s.byID(ctx, claims.ShareID)
	}

	// 短码优先走 Redis
	if s.cache != nil {
		shareID, err := s.cache.GetShareCode(ctx, code)
		if err != nil {
			s.logger.Warn("查询分享码缓存失败", zap.Error(err))
		} else if shareID != "" {
			return s.byID(ctx, shareID)
		}
	}

	// 数据库兜底
	shared, err := s.repo.SharedSchedule.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		s.logger.Error("查询分享记录失败", zap.Error(err))
		return nil, err
	}
	return shared, nil
}

func (s *shareService) byID(ctx context.Context, shareID string) (*model.SharedSchedule, error) {
	shared, err := s.repo.SharedSchedule.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		s.logger.Error("查询分享记录失败", zap.Error(err))
		return nil, err
	}
	return shared, nil
}

// newShareCode 生成 8 位大写十六进制短分享码
func newShareCode() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", id[:4]))
}
