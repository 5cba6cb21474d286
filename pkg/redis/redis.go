package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "vecdb:applied:"
	defaultTTL    = 24 * time.Hour
)

// Config Redis 配置
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Enabled  bool   `toml:"enabled"`
	TTL      string `toml:"ttl"` // 已应用命令的保留时间，默认 24h
}

// Validate 验证配置
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required when redis is enabled")
	}
	if c.TTL != "" {
		if _, err := time.ParseDuration(c.TTL); err != nil {
			return fmt.Errorf("ttl is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) ttl() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return defaultTTL
}

// NewClient connects to Redis and pings it.
func NewClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// store is the subset of redis.Cmdable the ledger uses.
type store interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Ledger remembers which queued commands were applied, so redelivered
// messages are skipped.
type Ledger struct {
	store  store
	prefix string
	ttl    time.Duration
}

// NewLedger connects to Redis and returns a ledger on it.
func NewLedger(cfg Config) (*Ledger, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return newLedger(client, cfg.ttl()), nil
}

func newLedger(s store, ttl time.Duration) *Ledger {
	return &Ledger{store: s, prefix: defaultPrefix, ttl: ttl}
}

// Applied reports whether the command id was marked within the TTL.
func (l *Ledger) Applied(ctx context.Context, id string) (bool, error) {
	n, err := l.store.Exists(ctx, l.prefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check command %s: %w", id, err)
	}
	return n > 0, nil
}

// MarkApplied records the command id.
func (l *Ledger) MarkApplied(ctx context.Context, id string) error {
	if err := l.store.Set(ctx, l.prefix+id, time.Now().Unix(), l.ttl).Err(); err != nil {
		return fmt.Errorf("mark command %s: %w", id, err)
	}
	return nil
}

// Close closes the Redis connection.
func (l *Ledger) Close() error {
	return l.store.Close()
}
