// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
)

const redisPingTimeout = 5 * time.Second

// Redis backs the shared rate limit counters. The portal keeps serving
// when it is down; limiters fall back to per-process buckets.
type Redis struct {
	Client *redis.Client
}

// OpenRedis builds the client without contacting the server.
func OpenRedis(cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	return &Redis{Client: redis.NewClient(opts)}, nil
}

// NewRedis opens the client and returns it together with the result of a
// first ping. The client is usable even when the ping failed.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	r, err := OpenRedis(cfg)
	if err != nil {
		return nil, err
	}

	return r, r.Ping(ctx)
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}
