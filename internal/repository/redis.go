package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salesbot/internal/config"
	"salesbot/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	stateKeyFormat     = "user_state:%d"
	rateLimitKeyFormat = "rate_limit:%d"
)

var errNilClient = errors.New("redis client is nil")

type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиент Redis; nil, если адрес не задан
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStateRepository(client *redis.Client, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	if r.client == nil {
		return nil, errNilClient
	}
	val, err := r.client.Get(ctx, fmt.Sprintf(stateKeyFormat, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state from redis: %w", err)
	}

	var state models.UserState
	if err := json.Unmarshal(val, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func (r *RedisStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	if r.client == nil {
		return errNilClient
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := r.client.Set(ctx, fmt.Sprintf(stateKeyFormat, state.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set state in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) ClearState(ctx context.Context, userID int64) error {
	if r.client == nil {
		return errNilClient
	}
	if err := r.client.Del(ctx, fmt.Sprintf(stateKeyFormat, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete state from redis: %w", err)
	}
	return nil
}

// CheckRateLimit INCR и EXPIRE NX одной транзакцией
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errNilClient
	}
	key := fmt.Sprintf(rateLimitKeyFormat, userID)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return errNilClient
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
