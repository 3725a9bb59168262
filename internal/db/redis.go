package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the snapshot in a Redis hash with the fields id,
// created_at and payload
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to Redis and verifies the connection
func NewRedisStorage(ctx context.Context, opts *redis.Options, key string) (*RedisStorage, error) {
	slog.Info("Connecting to Redis", "addr", opts.Addr)

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStorage{client: client, key: "snapshot:" + key}, nil
}

// SaveSnapshot replaces the snapshot hash
func (s *RedisStorage) SaveSnapshot(ctx context.Context, payload []byte) (*Snapshot, error) {
	snapshot := &Snapshot{
		ID:        uuid.New().String(),
		Key:       s.key,
		CreatedAt: uint64(time.Now().Unix()),
		Payload:   payload,
	}
	slog.Info("Storing snapshot in Redis", "key", s.key, "snapshot_id", snapshot.ID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key,
			"id", snapshot.ID,
			"created_at", snapshot.CreatedAt,
			"payload", payload,
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return snapshot, nil
}

// LoadSnapshot reads the snapshot hash
func (s *RedisStorage) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	slog.Info("Retrieving snapshot from Redis", "key", s.key)

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis hgetall error: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	createdAt, err := strconv.ParseUint(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot created_at: %w", err)
	}

	return &Snapshot{
		ID:        fields["id"],
		Key:       s.key,
		CreatedAt: createdAt,
		Payload:   []byte(fields["payload"]),
	}, nil
}

// DeleteSnapshot removes the snapshot hash
func (s *RedisStorage) DeleteSnapshot(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
