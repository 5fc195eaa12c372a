package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisClient creates a Redis client. The connection is pinged but a
// failure is returned alongside the client: Redis only backs the dashboard
// cache, so callers may choose to run without it.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	dial := cfg.DialTimeout
	if dial == 0 {
		dial = 3 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dial,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return client, fmt.Errorf("ping redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}
