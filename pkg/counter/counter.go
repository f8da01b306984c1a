// Package counter provides keyed counters and markers with expiry
// Package counter 提供带过期时间的计数器与标记存储
package counter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Store is a shared keyed counter store
// Incr must be atomic: the count and the expiry are applied in one step, the TTL only starts when the key is created
// Store 共享的键值计数存储
// Incr 必须是原子操作：计数与过期设置为一步完成，TTL 仅在键首次创建时开始
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Config counter store configuration
// Config 计数存储配置
type Config struct {
	Type  string      `yaml:"type" default:"memory"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig redis connection configuration
// RedisConfig redis 连接配置
type RedisConfig struct {
	Addr     string `yaml:"addr" default:"127.0.0.1:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"uni:"`
}

// New creates the store selected by cfg.Type
// New 按 cfg.Type 创建计数存储
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Type {
	case "", TypeMemory:
		return NewMemoryStore(), nil
	case TypeRedis:
		return NewRedisStore(ctx, cfg.Redis, logger)
	}
	return nil, fmt.Errorf("unsupported counter type: %s", cfg.Type)
}
