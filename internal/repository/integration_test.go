//go:build integration

package repository_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schedule-maker/backend/internal/model"
	"schedule-maker/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=schedule_maker_test sslmode=disable TimeZone=America/Lima"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	if err := testDB.AutoMigrate(&model.ComparisonRecord{}, &model.SharedSchedule{}); err != nil {
		fmt.Fprintf(os.Stderr, "迁移测试表失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Exec("DROP TABLE IF EXISTS comparison_records, shared_schedules")
	os.Exit(code)
}

func snapshotOf(t *testing.T, name string) model.JSONB {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{"id": uuid.New().String(), "name": name})
	if err != nil {
		t.Fatalf("构造快照失败: %v", err)
	}
	return model.JSONB(payload)
}

// ═══════════════════════════════════════════════════════════
// ComparisonRepository
// ═══════════════════════════════════════════════════════════

func TestComparisonRepoSaveIsUpsert(t *testing.T) {
	repo := repository.NewComparisonRepo(testDB)
	ctx := context.Background()
	id := uuid.New().String()

	record := &model.ComparisonRecord{
		ComparisonID: id,
		Name:         "第一版",
		Snapshot:     snapshotOf(t, "第一版"),
	}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("首次保存失败: %v", err)
	}

	// 同 ID 再次保存应整体覆盖而非报键冲突
	record.Name = "第二版"
	record.Snapshot = snapshotOf(t, "第二版")
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("覆盖保存失败: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Name != "第二版" {
		t.Errorf("覆盖后名称 = %s, 期望 第二版", got.Name)
	}
}

func TestComparisonRepoGetByIDNotFound(t *testing.T) {
	repo := repository.NewComparisonRepo(testDB)

	_, err := repo.GetByID(context.Background(), uuid.New().String())
	if err != gorm.ErrRecordNotFound {
		t.Errorf("期望 gorm.ErrRecordNotFound, 实际 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// SharedScheduleRepository
// ═══════════════════════════════════════════════════════════

func TestSharedScheduleRepoRoundtrip(t *testing.T) {
	repo := repository.NewSharedScheduleRepo(testDB)
	ctx := context.Background()

	expiresAt := time.Now().Add(24 * time.Hour)
	shared := &model.SharedSchedule{
		SharedScheduleID: uuid.New().String(),
		OwnerName:        "Alice",
		ShareCode:        fmt.Sprintf("%X", uuid.New().ID()),
		Combinations:     model.JSONB(`[]`),
		ExpiresAt:        &expiresAt,
	}
	if err := repo.Create(ctx, shared); err != nil {
		t.Fatalf("创建分享失败: %v", err)
	}

	byID, err := repo.GetByID(ctx, shared.SharedScheduleID)
	if err != nil {
		t.Fatalf("按 ID 查询失败: %v", err)
	}
	if byID.OwnerName != "Alice" {
		t.Errorf("所有者 = %s, 期望 Alice", byID.OwnerName)
	}

	byCode, err := repo.GetByCode(ctx, shared.ShareCode)
	if err != nil {
		t.Fatalf("按分享码查询失败: %v", err)
	}
	if byCode.SharedScheduleID != shared.SharedScheduleID {
		t.Errorf("分享 ID = %s, 期望 %s", byCode.SharedScheduleID, shared.SharedScheduleID)
	}
}
