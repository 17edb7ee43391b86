package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements Storage using Redis. Snapshots are stored as
// JSON under "save:vars:<slot>".
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis storage instance from a redis:// URL
// or a bare host:port address.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// Fall back to treating the value as a plain address.
		opts = &redis.Options{Addr: redisURL}
	}
	return &RedisStorage{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func varsKey(slot uuid.UUID) string {
	return fmt.Sprintf("save:vars:%s", slot.String())
}

func (r *RedisStorage) SaveVars(ctx context.Context, slot uuid.UUID, snapshot map[string]string) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal variable snapshot: %w", err)
	}
	if err := r.client.Set(ctx, varsKey(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save variable snapshot: %w", err)
	}
	r.logger.Debug("Saved variable snapshot", "slot", slot.String(), "vars", len(snapshot))
	return nil
}

func (r *RedisStorage) LoadVars(ctx context.Context, slot uuid.UUID) (map[string]string, error) {
	data, err := r.client.Get(ctx, varsKey(slot)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load variable snapshot: %w", err)
	}
	var snapshot map[string]string
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variable snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *RedisStorage) DeleteVars(ctx context.Context, slot uuid.UUID) error {
	if err := r.client.Del(ctx, varsKey(slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete variable snapshot: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}
		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
