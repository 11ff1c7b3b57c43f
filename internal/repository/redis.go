package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fasilitas/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// RedisLocker implements the advisory lock on Redis with SET NX and a TTL, so
// multiple processes sharing one database serialize their commits. Each
// acquisition stores a random token and only the holder releases its own key.
type RedisLocker struct {
	client        *redis.Client
	retryInterval time.Duration
	tokens        sync.Map // map[string]string
}

func NewRedisLocker(client *redis.Client, retryInterval time.Duration) *RedisLocker {
	if retryInterval <= 0 {
		retryInterval = 25 * time.Millisecond
	}
	return &RedisLocker{client: client, retryInterval: retryInterval}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	if l.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}

	token := uuid.NewString()
	redisKey := lockKey(key)

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			l.tokens.Store(key, token)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if l.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	tokenVal, ok := l.tokens.LoadAndDelete(key)
	if !ok {
		return nil
	}
	token := tokenVal.(string)
	redisKey := lockKey(key)

	current, err := l.client.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect lock %s: %w", key, err)
	}
	// Only delete a lock we still hold; an expired key may belong to someone else.
	if current != token {
		return nil
	}
	if err := l.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

func lockKey(key string) string {
	return fmt.Sprintf("reservation_lock:%s", key)
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection if present.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
