package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-maker/backend/config"
	"schedule-maker/backend/internal/model"
	"schedule-maker/backend/internal/repository"
	"schedule-maker/backend/pkg/sharetoken"
)

// ── Mock ComparisonRepository ──

type mockComparisonRepo struct {
	records map[string]*model.ComparisonRecord
	saveErr error
}

func newMockComparisonRepo() *mockComparisonRepo {
	return &mockComparisonRepo{records: make(map[string]*model.ComparisonRecord)}
}

func (m *mockComparisonRepo) Save(_ context.Context, record *model.ComparisonRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := *record
	stored.Snapshot = append(model.JSONB(nil), record.Snapshot...)
	m.records[record.ComparisonID] = &stored
	return nil
}

func (m *mockComparisonRepo) GetByID(_ context.Context, id string) (*model.ComparisonRecord, error) {
	if r, ok := m.records[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SharedScheduleRepository ──

type mockSharedScheduleRepo struct {
	shares map[string]*model.SharedSchedule
}

func newMockSharedScheduleRepo() *mockSharedScheduleRepo {
	return &mockSharedScheduleRepo{shares: make(map[string]*model.SharedSchedule)}
}

func (m *mockSharedScheduleRepo) Create(_ context.Context, shared *model.SharedSchedule) error {
	m.shares[shared.SharedScheduleID] = shared
	return nil
}

func (m *mockSharedScheduleRepo) GetByID(_ context.Context, id string) (*model.SharedSchedule, error) {
	if s, ok := m.shares[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSharedScheduleRepo) GetByCode(_ context.Context, code string) (*model.SharedSchedule, error) {
	for _, s := range m.shares {
		if s.ShareCode == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ShareCache ──

type mockShareCache struct {
	codes map[string]string
	fail  bool
}

func newMockShareCache() *mockShareCache {
	return &mockShareCache{codes: make(map[string]string)}
}

func (m *mockShareCache) SetShareCode(_ context.Context, code, shareID string, _ time.Duration) error {
	if m.fail {
		return errors.New("缓存不可用")
	}
	m.codes[code] = shareID
	return nil
}

func (m *mockShareCache) GetShareCode(_ context.Context, code string) (string, error) {
	if m.fail {
		return "", errors.New("缓存不可用")
	}
	return m.codes[code], nil
}

// ── 测试环境搭建 ──

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		Share: config.ShareConfig{
			TokenSecret: "test-secret-at-least-16-chars",
			CodeTTL:     168 * time.Hour,
			TokenTTL:    720 * time.Hour,
		},
		Grid: config.GridConfig{StartTime: "07:00", EndTime: "22:00"},
	}
}

type testEnv struct {
	svc       *Service
	compRepo  *mockComparisonRepo
	shareRepo *mockSharedScheduleRepo
	cache     *mockShareCache
}

func newTestEnv() *testEnv {
	compRepo := newMockComparisonRepo()
	shareRepo := newMockSharedScheduleRepo()
	cache := newMockShareCache()
	repo := &repository.Repository{
		Comparison:     compRepo,
		SharedSchedule: shareRepo,
	}
	cfg := testConfig()
	tokenMgr := sharetoken.NewManager(&cfg.Share)
	svc := NewService(cfg, repo, tokenMgr, cache, zap.NewNop())
	return &testEnv{svc: svc, compRepo: compRepo, shareRepo: shareRepo, cache: cache}
}
