package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/shruggr/go-txpreview/internal/config"
	"github.com/shruggr/go-txpreview/internal/metrics"
)

// RedisCache is a best-effort JSON cache. A RedisCache without a client is
// disabled: every lookup misses and every write is dropped.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	if cfg.RedisURL == "" {
		return &RedisCache{}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaintNotificationsConfig = &maintnotifications.Config{
		Mode: maintnotifications.ModeDisabled,
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
	}, nil
}

func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *RedisCache) Client() *redis.Client {
	if !r.Enabled() {
		return nil
	}
	return r.client
}

// GetJSON decodes the value at key into dst and reports whether it was found.
func (r *RedisCache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !r.Enabled() {
		return false
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("Cache read failed", "key", key, "error", err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		r.client.Del(ctx, key)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !r.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Debug("Cache encode failed", "key", key, "error", err)
		return
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.Debug("Cache write failed", "key", key, "error", err)
	}
}

func (r *RedisCache) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
