package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedule-maker/backend/config"
)

// Client Redis 客户端封装
// 当前用于分享码快速解析；后续可扩展缓存、分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 分享码缓存 ──

const shareCodePrefix = "share:code:"

// SetShareCode 缓存分享码到分享记录 ID 的映射，TTL 与分享有效期一致
func (c *Client) SetShareCode(ctx context.Context, code, shareID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, shareCodePrefix+code, shareID, ttl).Err()
}

// GetShareCode 解析分享码，未命中时返回空字符串
func (c *Client) GetShareCode(ctx context.Context, code string) (string, error) {
	id, err := c.rdb.Get(ctx, shareCodePrefix+code).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数限流
// 窗口内首次请求时设置过期时间，计数超限返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
