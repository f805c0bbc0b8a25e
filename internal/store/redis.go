package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/lingopro/internal/progress"
)

// RedisKeyPrefix namespaces progress snapshots in Redis.
const RedisKeyPrefix = "lingopro:progress:"

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

// RedisRepo stores one JSON snapshot per learner under RedisKeyPrefix.
type RedisRepo struct {
	client *redis.Client
}

// NewRedisRepo wraps an existing client.
func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func redisKey(learner string) string {
	return RedisKeyPrefix + learner
}

// Load returns the learner's snapshot, or nil if the key does not exist.
func (r *RedisRepo) Load(ctx context.Context, learner string) (*progress.Snapshot, error) {
	data, err := r.client.Get(ctx, redisKey(learner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &snap, nil
}

// Save overwrites the learner's snapshot.
func (r *RedisRepo) Save(ctx context.Context, snap *progress.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(snap.Learner), data, 0).Err(); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}
